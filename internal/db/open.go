// Package db opens the shop database and keeps its schema current.
package db

import (
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/diewo77/commcentre/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var passwordRe = regexp.MustCompile(`(password=)([^\s]+)`)

// Open connects to the configured database. SQLite is opened directly;
// PostgreSQL is retried a few times to give the server time to start.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: newGormLogger(cfg.Debug)}
	switch cfg.Driver {
	case "", DriverSQLite:
		config.GetLogger().WithField("path", cfg.DSN).Info("opening sqlite database")
		return gorm.Open(sqlite.Open(cfg.DSN), gcfg)
	case DriverPostgres:
		return openPostgres(NormalizeDSN(cfg.DSN), gcfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

func openPostgres(dsn string, gcfg *gorm.Config) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty")
	}
	log := config.GetLogger()
	log.WithField("dsn", maskDSN(dsn)).Info("connecting to postgres")
	var gdb *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		gdb, err = gorm.Open(postgres.Open(dsn), gcfg)
		if err == nil {
			break
		}
		log.WithField("attempt", i+1).Warnf("postgres connection failed: %v", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := gdb.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	return gdb, nil
}

func newGormLogger(debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return logger.New(config.GetLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

func maskDSN(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" && u.User != nil {
		return u.Redacted()
	}
	return passwordRe.ReplaceAllString(dsn, `${1}***`)
}
