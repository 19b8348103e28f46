package sqlstore

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/openferp/directory/internal/directory/store/drivers/sqlstore/migrations"
)

// ApplyMigrations brings the schema up to date using the migration set
// embedded for the store's dialect.
func (s *Store) ApplyMigrations() error {
	var (
		driver database.Driver
		err    error
	)
	switch s.dialect {
	case DialectPostgres:
		driver, err = migratepgx.WithInstance(s.db, &migratepgx.Config{})
	default:
		driver, err = migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	}
	if err != nil {
		return err
	}

	source, err := iofs.New(migrations.Migrations, s.dialect.String())
	if err != nil {
		return err
	}

	instance, err := migrate.NewWithInstance("iofs", source, s.dialect.String(), driver)
	if err != nil {
		return err
	}

	err = instance.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
