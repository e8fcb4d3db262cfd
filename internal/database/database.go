package database

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/spicemart/spicesite/config"
	"github.com/spicemart/spicesite/internal/domain"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// zapWriter routes gorm's log output through the global zap logger.
type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	zap.S().Infof(format, args...)
}

// Open connects to the configured database. Supported types are postgres
// (default) and sqlite; a sqlite name of ":memory:" opens a private
// in-memory database.
func Open(cfg config.DBConfig, workdir string) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.Debug {
		level = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger: logger.New(zapWriter{}, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Type {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(sqliteDSN(cfg, workdir)), gormConfig)
	case "", "postgres":
		db, err = gorm.Open(postgres.Open(postgresDSN(cfg)), gormConfig)
	default:
		return nil, errors.Errorf("unsupported database type %q", cfg.Type)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.Type)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if cfg.Type == "sqlite" {
		// sqlite serializes writers anyway; one connection also keeps
		// ":memory:" databases from splitting per connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxConn > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxConn)
		}
		if cfg.IdleConn > 0 {
			sqlDB.SetMaxIdleConns(cfg.IdleConn)
		}
	}
	return db, nil
}

func postgresDSN(cfg config.DBConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name)
}

func sqliteDSN(cfg config.DBConfig, workdir string) string {
	name := cfg.Name
	if name == "" {
		name = "spicesite.db"
	}
	if name == ":memory:" || filepath.IsAbs(name) {
		return name
	}
	dir := filepath.Join(workdir, "data")
	_ = os.MkdirAll(dir, 0o755)
	return filepath.Join(dir, name)
}

// Migrate creates or updates the tables for every domain model.
func Migrate(db *gorm.DB, track bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("GO_DEBUG_TRACE") != "" {
				debug.PrintStack()
			}
			err = errors.Errorf("migration panic: %v", r)
		}
	}()
	if track {
		db = db.Debug()
	}
	return db.Migrator().AutoMigrate(domain.Tables...)
}

// DropAll drops every domain table.
func DropAll(db *gorm.DB) error {
	return db.Migrator().DropTable(domain.Tables...)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
