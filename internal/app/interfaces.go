package app

import (
	"context"

	"github.com/spicemart/spicesite/config"
	"github.com/spicemart/spicesite/internal/notify"
	"github.com/spicemart/spicesite/internal/repository"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides the catalog and inquiry store
type StoreProvider interface {
	Store() repository.Store
}

// NotifierProvider provides the inquiry email notifier
type NotifierProvider interface {
	Notifier() *notify.Notifier
}

// AppContext combines all provider interfaces for full application context
type AppContext interface {
	DBProvider
	ConfigProvider
	StoreProvider
	NotifierProvider

	MigrateDB(track bool) error
	InitDb()
	DropAll()
	// SeedCatalog inserts the default catalog into an empty product table
	SeedCatalog(ctx context.Context) (int, error)
	Release()
}
