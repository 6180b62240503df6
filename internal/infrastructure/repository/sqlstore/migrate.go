package sqlstore

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/riskibarqy/football-etl/db/migrations"
)

// Migrate applies every embedded migration. It uses its own connection
// because closing the migrator closes the database it was given.
func Migrate(driver, rawURL string) error {
	m, err := NewMigrator(driver, rawURL)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// NewMigrator returns a migrator over the embedded migrations. The caller
// closes it.
func NewMigrator(driver, rawURL string) (*migrate.Migrate, error) {
	dbURL, err := MigrationURL(driver, rawURL)
	if err != nil {
		return nil, err
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// MigrationURL maps a store URL to the scheme golang-migrate expects.
func MigrationURL(driver, rawURL string) (string, error) {
	driver = normalizeDriver(driver)
	dsn, err := driverDSN(driver, rawURL)
	if err != nil {
		return "", err
	}
	if driver == DriverSQLite {
		return "sqlite://" + dsn, nil
	}
	return dsn, nil
}
