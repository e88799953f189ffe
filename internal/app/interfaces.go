package app

import (
	"github.com/robfig/cron/v3"
	"github.com/talkincode/productdesk/config"
	"github.com/talkincode/productdesk/internal/catalog"
	"github.com/talkincode/productdesk/internal/imaging"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// CatalogProvider provides the catalog controller
type CatalogProvider interface {
	Controller() *catalog.Controller
}

type EncoderProvider interface {
	Encoder() *imaging.Encoder
}

type NotifierProvider interface {
	Notifier() *catalog.BusNotifier
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context.
// Commands depend on specific providers or this combined interface.
type AppContext interface {
	ConfigProvider
	CatalogProvider
	EncoderProvider
	NotifierProvider
	SchedulerProvider

	// SchedBackupTask writes a store backup immediately
	SchedBackupTask()
	Release()
}
