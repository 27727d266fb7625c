package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"aircon-bridge/config"
	"aircon-bridge/internal/logger"
	"aircon-bridge/internal/model"
)

// Init opens the command log database and runs migrations. DSNs starting
// with postgres:// (or key=value DSNs with host=) use PostgreSQL, anything
// else is treated as a SQLite file.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	logger.Info("running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("database initialization complete")
	return db, nil
}

// Migrate creates or updates the command log schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.CommandRecord{}); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

func dialector(dsn string) gorm.Dialector {
	if isPostgres(dsn) {
		return postgres.Open(dsn)
	}
	if dsn == "" {
		dsn = "aircon-bridge.db"
	}
	return sqlite.Open(dsn)
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}
