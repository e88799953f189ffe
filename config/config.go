package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig system settings
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
	NodeID   int64  `yaml:"node_id"` // snowflake node for local product ids
}

// LogConfig logger settings
type LogConfig struct {
	Mode       string `yaml:"mode"` // production | development
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// RemoteConfig remote catalog endpoint
type RemoteConfig struct {
	BaseURL       string        `yaml:"base_url"`
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
}

// StoreConfig local persistence
type StoreConfig struct {
	Driver     string `yaml:"driver"` // bolt | sqlite | memory
	Path       string `yaml:"path"`   // relative paths resolve against workdir
	Key        string `yaml:"key"`
	QuotaBytes int    `yaml:"quota_bytes"`
	BackupCron string `yaml:"backup_cron"` // empty disables backups
}

// ImageConfig image encoder settings
type ImageConfig struct {
	BoundingBox int `yaml:"bounding_box"`
	Quality     int `yaml:"quality"`
	Workers     int `yaml:"workers"`
}

// WebConfig admin api listener
type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// UIConfig presentation settings
type UIConfig struct {
	Breakpoint    int `yaml:"breakpoint"`     // terminal columns below which cards replace the table
	WebBreakpoint int `yaml:"web_breakpoint"` // same, in CSS pixels, for api clients
}

type AppConfig struct {
	System SysConfig    `yaml:"system"`
	Logger LogConfig    `yaml:"logger"`
	Remote RemoteConfig `yaml:"remote"`
	Store  StoreConfig  `yaml:"store"`
	Image  ImageConfig  `yaml:"image"`
	Web    WebConfig    `yaml:"web"`
	UI     UIConfig     `yaml:"ui"`
}

// DefaultAppConfig returns the built-in configuration
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "ProductDesk",
			Location: "Local",
			Workdir:  defaultWorkdir(),
			NodeID:   1,
		},
		Logger: LogConfig{
			Mode:     "development",
			Filename: "productdesk.log",
		},
		Remote: RemoteConfig{
			BaseURL:       "https://fakestoreapi.com",
			Timeout:       30 * time.Second,
			RatePerSecond: 5,
			Burst:         5,
		},
		Store: StoreConfig{
			Driver:     "bolt",
			Path:       "products.db",
			Key:        "products",
			QuotaBytes: 5 * 1024 * 1024,
		},
		Image: ImageConfig{
			BoundingBox: 300,
			Quality:     70,
			Workers:     4,
		},
		Web: WebConfig{
			Host: "127.0.0.1",
			Port: 1816,
		},
		UI: UIConfig{
			Breakpoint:    100,
			WebBreakpoint: 900,
		},
	}
}

// LoadConfig reads the yaml file at path over the defaults. An empty path
// yields the defaults. Environment overrides are applied last.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	cfg.normalize()
	return cfg, nil
}

func (c *AppConfig) applyEnvOverrides() {
	if v := os.Getenv("PRODUCTDESK_REMOTE_URL"); v != "" {
		c.Remote.BaseURL = v
	}
	if v := os.Getenv("PRODUCTDESK_WORKDIR"); v != "" {
		c.System.Workdir = v
	}
	if v := os.Getenv("PRODUCTDESK_STORE_DRIVER"); v != "" {
		c.Store.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("PRODUCTDESK_WEB_PORT"); v != "" {
		if port, err := cast.ToIntE(v); err == nil && port > 0 {
			c.Web.Port = port
		}
	}
	if v := os.Getenv("PRODUCTDESK_LOG_MODE"); v != "" {
		c.Logger.Mode = v
	}
	if v := os.Getenv("PRODUCTDESK_DEBUG"); v != "" {
		c.System.Debug = cast.ToBool(v)
	}
}

func (c *AppConfig) normalize() {
	c.Remote.BaseURL = strings.TrimRight(c.Remote.BaseURL, "/")
	if c.Remote.Timeout <= 0 {
		c.Remote.Timeout = 30 * time.Second
	}
	if c.Store.Key == "" {
		c.Store.Key = "products"
	}
	if c.Image.BoundingBox <= 0 {
		c.Image.BoundingBox = 300
	}
	if c.Image.Quality <= 0 || c.Image.Quality > 100 {
		c.Image.Quality = 70
	}
	if c.UI.Breakpoint <= 0 {
		c.UI.Breakpoint = 100
	}
	if c.UI.WebBreakpoint <= 0 {
		c.UI.WebBreakpoint = 900
	}
}

// GetStorePath resolves the store file against the working directory
func (c *AppConfig) GetStorePath() string {
	return c.resolve(c.Store.Path)
}

// GetLogPath resolves the log file against the working directory
func (c *AppConfig) GetLogPath() string {
	return c.resolve(c.Logger.Filename)
}

// GetBackupDir is where scheduled store backups are written
func (c *AppConfig) GetBackupDir() string {
	return filepath.Join(c.System.Workdir, "backup")
}

// WebAddr returns host:port for the admin api listener
func (c *AppConfig) WebAddr() string {
	return fmt.Sprintf("%s:%d", c.Web.Host, c.Web.Port)
}

func (c *AppConfig) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.System.Workdir, p)
}

func defaultWorkdir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "productdesk")
	}
	return ".productdesk"
}
