package app

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"github.com/talkincode/productdesk/config"
	"github.com/talkincode/productdesk/internal/catalog"
	"github.com/talkincode/productdesk/internal/imaging"
	"github.com/talkincode/productdesk/internal/remote"
	"github.com/talkincode/productdesk/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Application struct {
	appConfig  *config.AppConfig
	quiet      bool
	kv         store.KV
	localStore *store.LocalStore
	remote     *remote.Client
	notifier   *catalog.BusNotifier
	controller *catalog.Controller
	encoder    *imaging.Encoder
	sched      *cron.Cron
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ CatalogProvider   = (*Application)(nil)
	_ EncoderProvider   = (*Application)(nil)
	_ NotifierProvider  = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

// SetQuiet keeps log output off the terminal; the terminal UI owns it.
func (a *Application) SetQuiet(quiet bool) {
	a.quiet = quiet
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Controller() *catalog.Controller {
	return a.controller
}

func (a *Application) Encoder() *imaging.Encoder {
	return a.encoder
}

func (a *Application) Notifier() *catalog.BusNotifier {
	return a.notifier
}

func (a *Application) LocalStore() *store.LocalStore {
	return a.localStore
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Init wires logging, storage, the remote client and the controller. The
// catalog itself is loaded later by Controller().Initialize.
func (a *Application) Init(cfg *config.AppConfig) error {
	a.appConfig = cfg
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	if err := os.MkdirAll(cfg.System.Workdir, 0o755); err != nil {
		return fmt.Errorf("create workdir: %w", err)
	}

	a.kv, err = store.Open(cfg.Store.Driver, cfg.GetStorePath())
	if err != nil {
		return err
	}
	zap.S().Infof("Local store opened, driver: %s", cfg.Store.Driver)
	a.localStore = store.NewLocalStore(a.kv, cfg.Store.Key, cfg.Store.QuotaBytes)

	a.remote = remote.NewClient(cfg.Remote.BaseURL, remote.Options{
		Timeout:       cfg.Remote.Timeout,
		RatePerSecond: cfg.Remote.RatePerSecond,
		Burst:         cfg.Remote.Burst,
	})

	ids, err := catalog.NewSnowflakeIDs(cfg.System.NodeID)
	if err != nil {
		return fmt.Errorf("snowflake node %d: %w", cfg.System.NodeID, err)
	}
	a.notifier = catalog.NewBusNotifier(EventBus.New())
	if _, err := a.notifier.Subscribe(logNotification); err != nil {
		zap.S().Warn("notification log subscription failed:", err)
	}
	a.controller = catalog.NewController(a.remote, a.localStore, ids, a.notifier)
	a.encoder = imaging.NewEncoder(cfg.Image.BoundingBox, cfg.Image.Quality)

	a.initJob()
	return nil
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	if cfg.System.Debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	var cores []zapcore.Core
	if cfg.Logger.FileEnable || a.quiet {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.GetLogPath(),
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(lumberJackLogger),
			zapConfig.Level,
		))
	}
	if !a.quiet {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			zapConfig.Level,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	zap.ReplaceGlobals(logger)
}

func logNotification(n catalog.Notification) {
	if n.Level == catalog.LevelError {
		zap.L().Warn("notification", zap.String("code", string(n.Code)), zap.String("message", n.Message))
		return
	}
	zap.L().Debug("notification", zap.String("message", n.Message))
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			zap.S().Error("close store:", err)
		}
	}
	_ = zap.L().Sync()
}
