package app

import (
	"context"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"github.com/spicemart/spicesite/config"
	"github.com/spicemart/spicesite/internal/database"
	"github.com/spicemart/spicesite/internal/notify"
	"github.com/spicemart/spicesite/internal/repository"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	store     *repository.GormStore
	notifier  *notify.Notifier
}

// Ensure Application implements all interfaces
var (
	_ DBProvider       = (*Application)(nil)
	_ ConfigProvider   = (*Application)(nil)
	_ StoreProvider    = (*Application)(nil)
	_ NotifierProvider = (*Application)(nil)
	_ AppContext       = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

func (a *Application) Store() repository.Store {
	return a.store
}

func (a *Application) Notifier() *notify.Notifier {
	return a.notifier
}

// Init sets up logging, the database and the inquiry notifier. cfg becomes
// the application's configuration for every later step.
func (a *Application) Init(cfg *config.AppConfig) error {
	if cfg == nil {
		cfg = a.appConfig
	}
	a.appConfig = cfg

	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	if err := initLogger(cfg.Logger); err != nil {
		return err
	}

	db, err := database.Open(cfg.Database, cfg.System.Workdir)
	if err != nil {
		return err
	}
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)
	return a.initWithDB(db)
}

// initWithDB finishes initialization over an already opened database.
func (a *Application) initWithDB(db *gorm.DB) error {
	a.gormDB = db
	if err := a.MigrateDB(false); err != nil {
		return errors.Wrap(err, "database migration failed")
	}
	a.store = repository.NewGormStore(db)

	mail := a.appConfig.Mail
	if mail.Username == "" || mail.Password == "" {
		zap.L().Warn("mail credentials not set, inquiry emails will not be delivered")
	}
	notifier, err := notify.NewNotifier(notify.NewMailSender(mail), mail.Recipient(), mail.Workers)
	if err != nil {
		return errors.Wrap(err, "create notifier")
	}
	a.notifier = notifier
	zap.L().Info("inquiry notifications enabled", zap.String("to", notifier.Recipient()))
	return nil
}

func initLogger(cfg config.LogConfig) error {
	var zapConfig zap.Config
	if cfg.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			return errors.Wrap(err, "build logger")
		}
	}

	zap.ReplaceGlobals(logger)
	return nil
}

func (a *Application) MigrateDB(track bool) error {
	return database.Migrate(a.gormDB, track)
}

func (a *Application) DropAll() {
	if err := database.DropAll(a.gormDB); err != nil {
		zap.S().Error(err)
	}
}

// InitDb drops and recreates every table.
func (a *Application) InitDb() {
	a.DropAll()
	if err := a.MigrateDB(false); err != nil {
		zap.S().Error(err)
	}
}

// Release releases application resources
func (a *Application) Release() {
	if a.notifier != nil {
		a.notifier.Release(5 * time.Second)
	}
	database.Close(a.gormDB)
	_ = zap.L().Sync()
}

// Bootstrap seeds the catalog once before the server takes traffic. A seed
// failure is logged; the site still serves inquiries.
func (a *Application) Bootstrap(ctx context.Context) {
	if _, err := a.SeedCatalog(ctx); err != nil {
		zap.L().Error("catalog seed failed", zap.Error(err))
	}
}
