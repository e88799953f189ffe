// Package adminapi exposes the catalog controller as a JSON api.
package adminapi

import (
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/productdesk/config"
	"github.com/talkincode/productdesk/internal/catalog"
	"github.com/talkincode/productdesk/internal/imaging"
)

// Context keys the web server fills in for every request
const (
	ControllerKey = "catalog.controller"
	EncoderKey    = "imaging.encoder"
	ConfigKey     = "app.config"
)

var initOnce sync.Once

// Init registers every admin route with the web server.
func Init() {
	initOnce.Do(func() {
		registerProductRoutes()
		registerImageRoutes()
		registerReportRoutes()
	})
}

// ContextValues builds the per-request values NewServer injects.
func ContextValues(ctl *catalog.Controller, enc *imaging.Encoder, cfg *config.AppConfig) map[string]interface{} {
	return map[string]interface{}{
		ControllerKey: ctl,
		EncoderKey:    enc,
		ConfigKey:     cfg,
	}
}

func GetController(c echo.Context) *catalog.Controller {
	return c.Get(ControllerKey).(*catalog.Controller)
}

func GetEncoder(c echo.Context) *imaging.Encoder {
	if enc, ok := c.Get(EncoderKey).(*imaging.Encoder); ok && enc != nil {
		return enc
	}
	return imaging.NewEncoder(imaging.DefaultBoundingBox, imaging.DefaultQuality)
}

func GetConfig(c echo.Context) *config.AppConfig {
	if cfg, ok := c.Get(ConfigKey).(*config.AppConfig); ok && cfg != nil {
		return cfg
	}
	return config.DefaultAppConfig()
}
