package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

// Config stores runtime configuration for the CLI and the report API.
type Config struct {
	AppEnv         string `validate:"oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string
	LogLevel       logging.Level
	LogFormat      string `validate:"oneof=json console"`

	HTTPAddr           string        `validate:"required"`
	ReadTimeout        time.Duration `validate:"gt=0"`
	WriteTimeout       time.Duration `validate:"gt=0"`
	CORSAllowedOrigins []string      `validate:"min=1"`

	DBDriver       string `validate:"oneof=sqlite postgres"`
	DBURL          string `validate:"required"`
	DBMaxOpenConns int    `validate:"min=0"`
	DBTraceQueries bool

	CacheEnabled bool
	CacheTTL     time.Duration `validate:"gt=0"`

	SportMonksBaseURL               string `validate:"required,url"`
	SportMonksToken                 string
	SportMonksTimeout               time.Duration `validate:"gt=0"`
	SportMonksMaxRetries            int           `validate:"min=0,max=10"`
	SportMonksRequestsPerMinute     int           `validate:"min=0"`
	SportMonksPerPage               int           `validate:"min=1,max=50"`
	SportMonksCircuitEnabled        bool
	SportMonksCircuitFailureCount   int           `validate:"min=1"`
	SportMonksCircuitOpenTimeout    time.Duration `validate:"gt=0"`
	SportMonksCircuitHalfOpenMaxReq int           `validate:"min=1"`

	IngestBatchSize     int `validate:"min=1,max=1000"`
	IngestDecodeWorkers int `validate:"min=0,max=64"`
	SyncFetchWorkers    int `validate:"min=1,max=32"`

	UptraceEnabled     bool
	UptraceDSN         string `validate:"required_if=UptraceEnabled true"`
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration `validate:"gt=0"`
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	dbDriver, err := parseDBDriver(getEnv("DB_DRIVER", DriverSQLite))
	if err != nil {
		return Config{}, err
	}
	dbMaxOpenConns, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	dbTraceQueries, err := strconv.ParseBool(getEnv("DB_TRACE_QUERIES", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_TRACE_QUERIES: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}

	sportMonksTimeout, err := time.ParseDuration(getEnv("SPORTMONKS_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_TIMEOUT: %w", err)
	}
	sportMonksMaxRetries, err := getEnvAsInt("SPORTMONKS_MAX_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_MAX_RETRIES: %w", err)
	}
	sportMonksRequestsPerMinute, err := getEnvAsInt("SPORTMONKS_REQUESTS_PER_MINUTE", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_REQUESTS_PER_MINUTE: %w", err)
	}
	sportMonksPerPage, err := getEnvAsInt("SPORTMONKS_PER_PAGE", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_PER_PAGE: %w", err)
	}
	sportMonksCircuitEnabled, err := strconv.ParseBool(getEnv("SPORTMONKS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_CIRCUIT_ENABLED: %w", err)
	}
	sportMonksCircuitFailureCount, err := getEnvAsInt("SPORTMONKS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	sportMonksCircuitOpenTimeout, err := time.ParseDuration(getEnv("SPORTMONKS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	sportMonksCircuitHalfOpenMaxReq, err := getEnvAsInt("SPORTMONKS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTMONKS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	ingestBatchSize, err := getEnvAsInt("INGEST_BATCH_SIZE", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse INGEST_BATCH_SIZE: %w", err)
	}
	ingestDecodeWorkers, err := getEnvAsInt("INGEST_DECODE_WORKERS", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse INGEST_DECODE_WORKERS: %w", err)
	}
	syncFetchWorkers, err := getEnvAsInt("SYNC_FETCH_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_FETCH_WORKERS: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	cfg := Config{
		AppEnv:                          appEnv,
		ServiceName:                     strings.TrimSpace(getEnv("SERVICE_NAME", "football-etl")),
		ServiceVersion:                  strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		LogLevel:                        logging.ParseLevel(getEnv("LOG_LEVEL", "info")),
		LogFormat:                       strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", logging.FormatJSON))),
		HTTPAddr:                        strings.TrimSpace(getEnv("HTTP_ADDR", ":8080")),
		ReadTimeout:                     readTimeout,
		WriteTimeout:                    writeTimeout,
		CORSAllowedOrigins:              splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DBDriver:                        dbDriver,
		DBURL:                           strings.TrimSpace(getEnv("DB_URL", "football.db")),
		DBMaxOpenConns:                  dbMaxOpenConns,
		DBTraceQueries:                  dbTraceQueries,
		CacheEnabled:                    cacheEnabled,
		CacheTTL:                        cacheTTL,
		SportMonksBaseURL:               strings.TrimSpace(getEnv("SPORTMONKS_BASE_URL", "https://api.sportmonks.com/v3")),
		SportMonksToken:                 strings.TrimSpace(getEnv("SPORTMONKS_TOKEN", "")),
		SportMonksTimeout:               sportMonksTimeout,
		SportMonksMaxRetries:            sportMonksMaxRetries,
		SportMonksRequestsPerMinute:     sportMonksRequestsPerMinute,
		SportMonksPerPage:               sportMonksPerPage,
		SportMonksCircuitEnabled:        sportMonksCircuitEnabled,
		SportMonksCircuitFailureCount:   sportMonksCircuitFailureCount,
		SportMonksCircuitOpenTimeout:    sportMonksCircuitOpenTimeout,
		SportMonksCircuitHalfOpenMaxReq: sportMonksCircuitHalfOpenMaxReq,
		IngestBatchSize:                 ingestBatchSize,
		IngestDecodeWorkers:             ingestDecodeWorkers,
		SyncFetchWorkers:                syncFetchWorkers,
		UptraceEnabled:                  uptraceEnabled,
		UptraceDSN:                      uptraceDSN,
		UptraceLogsEnabled:              uptraceLogsEnabled,
		PyroscopeEnabled:                pyroscopeEnabled,
		PyroscopeServerAddress:          strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:              strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:          strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:      strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:             pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// RequireSportMonks reports whether provider calls can be made.
func (c Config) RequireSportMonks() error {
	if c.SportMonksToken == "" {
		return fmt.Errorf("SPORTMONKS_TOKEN is required for provider sync")
	}
	return nil
}

// Logger builds the process logger for LOG_LEVEL and LOG_FORMAT writing to
// out, tagged with the service name.
func (c Config) Logger(out io.Writer) *logging.Logger {
	return logging.New(logging.Options{Level: c.LogLevel, Format: c.LogFormat, Output: out}).
		With("service", c.ServiceName)
}

var envNames = map[string]string{
	"AppEnv":                          "APP_ENV",
	"ServiceName":                     "SERVICE_NAME",
	"LogFormat":                       "LOG_FORMAT",
	"HTTPAddr":                        "HTTP_ADDR",
	"ReadTimeout":                     "HTTP_READ_TIMEOUT",
	"WriteTimeout":                    "HTTP_WRITE_TIMEOUT",
	"CORSAllowedOrigins":              "CORS_ALLOWED_ORIGINS",
	"DBDriver":                        "DB_DRIVER",
	"DBURL":                           "DB_URL",
	"DBMaxOpenConns":                  "DB_MAX_OPEN_CONNS",
	"CacheTTL":                        "CACHE_TTL",
	"SportMonksBaseURL":               "SPORTMONKS_BASE_URL",
	"SportMonksTimeout":               "SPORTMONKS_TIMEOUT",
	"SportMonksMaxRetries":            "SPORTMONKS_MAX_RETRIES",
	"SportMonksRequestsPerMinute":     "SPORTMONKS_REQUESTS_PER_MINUTE",
	"SportMonksPerPage":               "SPORTMONKS_PER_PAGE",
	"SportMonksCircuitFailureCount":   "SPORTMONKS_CIRCUIT_FAILURE_COUNT",
	"SportMonksCircuitOpenTimeout":    "SPORTMONKS_CIRCUIT_OPEN_TIMEOUT",
	"SportMonksCircuitHalfOpenMaxReq": "SPORTMONKS_CIRCUIT_HALF_OPEN_MAX_REQ",
	"IngestBatchSize":                 "INGEST_BATCH_SIZE",
	"IngestDecodeWorkers":             "INGEST_DECODE_WORKERS",
	"SyncFetchWorkers":                "SYNC_FETCH_WORKERS",
	"UptraceDSN":                      "UPTRACE_DSN",
	"PyroscopeServerAddress":          "PYROSCOPE_SERVER_ADDRESS",
	"PyroscopeUploadRate":             "PYROSCOPE_UPLOAD_RATE",
}

// validate checks the struct tags and reports the first failure by its
// environment variable name.
func validate(cfg Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}

	first := fieldErrs[0]
	name := envNames[first.Field()]
	if name == "" {
		name = first.Field()
	}
	if first.Param() != "" && !strings.HasPrefix(first.Tag(), "required_if") {
		return fmt.Errorf("invalid %s: failed %s=%s", name, first.Tag(), first.Param())
	}
	return fmt.Errorf("invalid %s: failed %s", name, first.Tag())
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseDBDriver(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case DriverSQLite, "sqlite3":
		return DriverSQLite, nil
	case DriverPostgres, "postgresql":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("invalid DB_DRIVER %q: valid values are %s, %s", v, DriverSQLite, DriverPostgres)
	}
}
