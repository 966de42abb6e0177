package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pageza/recipeshare/backend/config"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// retryDelays is the backoff between connection attempts.
var retryDelays = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}

// DSN builds the connection string for the configured driver.
func DSN(cfg *config.Config) string {
	switch cfg.DBDriver {
	case "sqlite":
		return SQLiteDSN(cfg.DBPath)
	default:
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
		)
	}
}

// SQLiteDSN returns a DSN for a sqlite file that waits on locks instead of
// failing immediately.
func SQLiteDSN(path string) string {
	return path + "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
}

// GormConfig is the gorm configuration shared by the server and tests.
func GormConfig(level logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(level),
	}
}

// Open connects to the configured database, retrying with backoff while the
// server comes up.
func Open(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres", "postgresql":
		dialector = postgres.Open(DSN(cfg))
	case "sqlite":
		dialector = sqlite.Open(DSN(cfg))
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (supported: postgres, sqlite)", cfg.DBDriver)
	}

	level := logger.Warn
	if cfg.Environment == config.Development {
		level = logger.Info
	}

	log.WithFields(log.Fields{
		"db_driver": cfg.DBDriver,
		"db_host":   cfg.DBHost,
		"db_name":   cfg.DBName,
		"db_path":   cfg.DBPath,
	}).Info("initializing database connection")

	var lastErr error
	for attempt := 1; attempt <= len(retryDelays)+1; attempt++ {
		db, err := gorm.Open(dialector, GormConfig(level))
		if err == nil {
			err = HealthCheck(ctx, db)
		}
		if err == nil {
			sqlDB, _ := db.DB()
			configureConnectionPool(sqlDB, cfg.DBDriver)
			log.WithFields(log.Fields{"db_driver": cfg.DBDriver, "attempt": attempt}).Info("database initialized")
			return db, nil
		}

		lastErr = err
		log.WithFields(log.Fields{"attempt": attempt, "error": err.Error()}).Warn("database connection attempt failed")
		if attempt > len(retryDelays) {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelays[attempt-1]):
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", len(retryDelays)+1, lastErr)
}

// configureConnectionPool sets up connection pool parameters. SQLite allows a
// single writer, so it gets a small pool.
func configureConnectionPool(sqlDB *sql.DB, driver string) {
	if driver == "sqlite" {
		sqlDB.SetMaxOpenConns(4)
		sqlDB.SetMaxIdleConns(4)
		return
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
}

// HealthCheck checks if the database is accessible
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
