package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/at-ishikawa/langner-srs/internal/config"
	"github.com/at-ishikawa/langner-srs/schemas"
)

// Migrate applies every pending migration of the configured dialect.
// It uses a dedicated connection pool that is closed before returning.
func Migrate(cfg config.DatabaseConfig) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	dialect := DialectOf(db)
	source, err := iofs.New(schemas.Migrations, "migrations/"+string(dialect))
	if err != nil {
		return fmt.Errorf("iofs.New(migrations/%s) > %w", dialect, err)
	}

	var driver migratedb.Driver
	switch dialect {
	case DialectPostgres:
		driver, err = migratepgx.WithInstance(db.DB, &migratepgx.Config{})
	case DialectSQLite:
		driver, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	default:
		driver, err = migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	}
	if err != nil {
		return fmt.Errorf("%s.WithInstance() > %w", dialect, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(dialect), driver)
	if err != nil {
		return fmt.Errorf("migrate.NewWithInstance() > %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Default().Debug("Database schema is up to date", "dialect", dialect)
			return nil
		}
		return fmt.Errorf("m.Up() > %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("m.Version() > %w", err)
	}
	slog.Default().Info("Applied database migrations",
		"dialect", dialect,
		"version", version,
		"dirty", dirty)
	return nil
}
