package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/diewo77/commcentre/internal/config"
	"github.com/diewo77/commcentre/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// Registers the postgres driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{&models.Product{}, &models.Sale{}, &models.SaleItem{}, &models.Job{}}
}

// Migrate brings the schema up to date. PostgreSQL with MIGRATIONS=1 runs the
// embedded SQL migrations; everything else uses GORM AutoMigrate.
func Migrate(gdb *gorm.DB, cfg config.DatabaseConfig) error {
	if cfg.Driver == DriverPostgres && cfg.Migrations {
		config.GetLogger().Info("running sql migrations")
		return runSQLMigrations(ToURLDSN(NormalizeDSN(cfg.DSN)))
	}
	return AutoMigrate(gdb)
}

// AutoMigrate creates or alters tables for Models.
func AutoMigrate(gdb *gorm.DB) error {
	for _, m := range Models() {
		if err := gdb.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	for _, table := range []string{"products", "sales", "sale_items", "jobs"} {
		if !gdb.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

func runSQLMigrations(dsn string) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
