package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fame0528/DarkFrame-sub009/internal/adapters/persistence"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/config"
)

const cancelKey = "wmd:query_cancel"

// NewConnection opens the configured database and applies pool sizing and
// the per-statement timeout
func NewConnection(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Type, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying db: %w", err)
	}
	if cfg.Type == "postgres" {
		sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpen)
		sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdle)
		sqlDB.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	} else {
		// each ":memory:" connection would be its own database
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.QueryTimeout > 0 {
		if err := registerQueryTimeout(db, cfg.QueryTimeout); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// registerQueryTimeout bounds create, query, update and delete statements
// whose context carries no deadline. The cancel func rides on the statement
// and is released after the driver call. Row and Raw are left alone: they
// hand back a *sql.Row or *sql.Rows that the caller scans after the chain
// returns, and the migrator's HasTable reads through them.
func registerQueryTimeout(db *gorm.DB, timeout time.Duration) error {
	before := func(tx *gorm.DB) {
		ctx := tx.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		if _, ok := ctx.Deadline(); ok {
			return
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		tx.Statement.Context = ctx
		tx.InstanceSet(cancelKey, cancel)
	}
	after := func(tx *gorm.DB) {
		if v, ok := tx.InstanceGet(cancelKey); ok {
			if cancel, ok := v.(context.CancelFunc); ok {
				cancel()
			}
		}
	}

	cb := db.Callback()
	steps := []struct {
		name     string
		register func(string, func(*gorm.DB)) error
	}{
		{"create:before", cb.Create().Before("gorm:create").Register},
		{"create:after", cb.Create().After("gorm:create").Register},
		{"query:before", cb.Query().Before("gorm:query").Register},
		{"query:after", cb.Query().After("gorm:query").Register},
		{"update:before", cb.Update().Before("gorm:update").Register},
		{"update:after", cb.Update().After("gorm:update").Register},
		{"delete:before", cb.Delete().Before("gorm:delete").Register},
		{"delete:after", cb.Delete().After("gorm:delete").Register},
	}
	for i, step := range steps {
		fn := before
		if i%2 == 1 {
			fn = after
		}
		if err := step.register("wmd:timeout:"+step.name, fn); err != nil {
			return fmt.Errorf("failed to register query timeout: %w", err)
		}
	}
	return nil
}

// NewTestConnection opens a migrated in-memory SQLite database
func NewTestConnection() (*gorm.DB, error) {
	db, err := NewConnection(&config.DatabaseConfig{
		Type:         "sqlite",
		Path:         ":memory:",
		QueryTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate test database: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates every table the core uses
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(persistence.AllModels()...)
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
