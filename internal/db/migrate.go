package db

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/samber/oops"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func migrationSource() (source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, oops.Code("DB_MIGRATE_SOURCE").Wrap(err)
	}
	return src, nil
}

// RunMigrations applies every pending up migration. It returns the schema
// version after the run.
func RunMigrations(db *sql.DB, dbName string) (uint, error) {
	src, err := migrationSource()
	if err != nil {
		return 0, err
	}

	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{DatabaseName: dbName})
	if err != nil {
		return 0, oops.Code("DB_MIGRATE_DRIVER").Wrap(err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		return 0, oops.Code("DB_MIGRATE_INIT").Wrap(err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, oops.Code("DB_MIGRATE_UP").Wrap(err)
	}

	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, oops.Code("DB_MIGRATE_VERSION").Wrap(err)
	}

	return version, nil
}
