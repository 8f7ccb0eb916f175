package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/soaringjerry/fairway/internal/config"
	"github.com/soaringjerry/fairway/internal/logger"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

type gormWriter struct {
	log *logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(fmt.Sprintf(format, args...))
}

func newGormLogger(log *logger.Logger) gormLogger.Interface {
	return gormLogger.New(gormWriter{log: log}, gormLogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormLogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Open connects to the configured relational backend and applies migrations.
func Open(ctx context.Context, cfg config.StoreConfig, log *logger.Logger) (*gorm.DB, string, error) {
	if log == nil {
		log = logger.Nop()
	}
	gcfg := &gorm.Config{
		Logger:                                   newGormLogger(log.With("component", "gorm")),
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	var (
		gdb     *gorm.DB
		dialect string
		err     error
	)
	switch cfg.Backend {
	case config.StoreSQLite:
		dialect = DialectSQLite
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, "", fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		// BEGIN IMMEDIATE takes the write lock up front so check-then-insert transactions serialize.
		dsn := cfg.SQLitePath + "?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_txlock=immediate"
		log.Info("Connecting to SQLite...", "path", cfg.SQLitePath)
		gdb, err = gorm.Open(sqlite.Open(dsn), gcfg)
	case config.StorePostgres:
		dialect = DialectPostgres
		log.Info("Connecting to Postgres...")
		gdb, err = gorm.Open(postgres.Open(cfg.PostgresDSN), gcfg)
	default:
		return nil, "", fmt.Errorf("store backend %q is not relational", cfg.Backend)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect to %s: %w", dialect, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, "", err
	}
	if dialect == DialectSQLite {
		sqlDB.SetMaxOpenConns(1)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, "", fmt.Errorf("ping %s: %w", dialect, err)
	}
	if err := RunMigrations(sqlDB, dialect, cfg.MigrationsDir); err != nil {
		return nil, "", err
	}
	log.Info("Migrations applied", "dialect", dialect)
	return gdb, dialect, nil
}
