package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
	_ "modernc.org/sqlite"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

type Config struct {
	Driver         string
	URL            string
	DBName         string
	MaxOpenConns   int
	MigrateOnOpen  bool
	QueryFormatter func(query string) string
}

// Store owns the database handle and the table registry. Writes go through
// WithinTx so every scope gets its own transaction.
type Store struct {
	db       *sqlx.DB
	driver   string
	registry *Registry
}

func Open(ctx context.Context, cfg Config) (*Store, error) {
	driver := normalizeDriver(cfg.Driver)

	dsn, err := driverDSN(driver, cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnOpen {
		if err := Migrate(driver, cfg.URL); err != nil {
			return nil, err
		}
	}

	opts := []otelsql.Option{
		otelsql.WithAttributes(attribute.String("db.system", dbSystem(driver))),
	}
	if name := strings.TrimSpace(cfg.DBName); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}
	if cfg.QueryFormatter != nil {
		opts = append(opts, otelsql.WithQueryFormatter(cfg.QueryFormatter))
	}

	db, err := otelsqlx.Open(driver, dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	switch {
	case driver == DriverSQLite:
		db.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	return New(db, driver), nil
}

// New wraps an existing handle. driver selects the placeholder style.
func New(db *sqlx.DB, driver string) *Store {
	return &Store{db: db, driver: driver, registry: DefaultRegistry()}
}

func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Driver() string {
	return s.driver
}

func (s *Store) Registry() *Registry {
	return s.registry
}

func (s *Store) Close() error {
	return s.db.Close()
}

// WithinTx runs fn in one transaction. An error from fn rolls the transaction
// back and is returned unchanged.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, w entity.Writer) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return entity.WrapStorage(err, "begin tx", "")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &txWriter{tx: tx, registry: s.registry}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return entity.WrapStorage(err, "commit tx", "")
	}
	return nil
}

func driverDSN(driver, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("database url is required")
	}

	switch driver {
	case DriverSQLite:
		return sqliteDSN(sqlitePath(raw)), nil
	case DriverPostgres:
		return raw, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func normalizeDriver(raw string) string {
	driver := strings.ToLower(strings.TrimSpace(raw))
	switch driver {
	case "", "sqlite3":
		return DriverSQLite
	case "postgresql", "pgx":
		return DriverPostgres
	default:
		return driver
	}
}

func sqlitePath(raw string) string {
	for _, prefix := range []string{"sqlite://", "sqlite3://", "file:"} {
		if strings.HasPrefix(raw, prefix) {
			return strings.TrimPrefix(raw, prefix)
		}
	}
	return raw
}

// sqliteDSN adds a busy timeout and WAL journaling unless the caller already
// set pragmas, so a writer waits for readers on the same file instead of
// failing with SQLITE_BUSY.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_pragma=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqlitePragmas
}

func dbSystem(driver string) string {
	if driver == DriverPostgres {
		return "postgresql"
	}
	return "sqlite"
}
