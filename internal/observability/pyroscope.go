package observability

import (
	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/football-etl/internal/config"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

func pyroscopeConfig(cfg config.Config) pyroscope.Config {
	appName := cfg.PyroscopeAppName
	if appName == "" {
		appName = cfg.ServiceName
	}
	return pyroscope.Config{
		ApplicationName:   appName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":       cfg.AppEnv,
			"version":   cfg.ServiceVersion,
			"db_driver": cfg.DBDriver,
		},
		ProfileTypes: profileTypes,
	}
}

// InitPyroscope starts continuous profiling of sync runs and the API. The
// returned func stops the profiler and flushes the last upload.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PyroscopeEnabled {
		return func() error { return nil }, nil
	}

	profiler, err := pyroscope.Start(pyroscopeConfig(cfg))
	if err != nil {
		return nil, err
	}
	logger.Info("pyroscope enabled", "server_address", cfg.PyroscopeServerAddress)
	return profiler.Stop, nil
}
