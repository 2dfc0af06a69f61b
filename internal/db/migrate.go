package db

import (
	"context"
	"fmt"
	"time"

	"github.com/kota-mizu/skill-builder/internal/config"
	"github.com/kota-mizu/skill-builder/internal/logger"
	"github.com/kota-mizu/skill-builder/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Dialector picks the GORM driver for the configured database.
func Dialector(cfg config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == "sqlite" {
		return sqlite.Open(cfg.DSN())
	}
	return postgres.Open(cfg.DSN())
}

// Connect opens the shared database handle, retrying a few times so the
// server can start alongside a database that is still booting.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	var (
		conn *gorm.DB
		err  error
	)
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		conn, err = gorm.Open(Dialector(cfg), gcfg)
		if err == nil {
			err = ping(ctx, conn)
		}
		if err == nil {
			return conn, nil
		}
		log.Warn("database connection failed", "attempt", attempt, "max_attempts", connectAttempts, "error", err)
		if attempt == connectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect database: %w", ctx.Err())
		case <-time.After(connectBackoff):
		}
	}
	return nil, fmt.Errorf("connect database: %w", err)
}

func ping(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return sqlDB.PingContext(pctx)
}

// Migrate creates or updates the tables for all models.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Close releases the pool behind conn.
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
