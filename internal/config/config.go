package config

import (
	"cmp"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/STTM-NSU/chart-terminal/internal/model"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

const (
	_portDefault            = "8080"
	_shutdownTimeoutDefault = 10 * time.Second
)

func (c *ServerConfig) Setup() error {
	c.Port = cmp.Or(c.Port, _portDefault)
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("%w: invalid port %q", err, c.Port)
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = _shutdownTimeoutDefault
	}

	return nil
}

type FeedConfig struct {
	Address           string        `yaml:"address"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	RetryCount        int           `yaml:"retry_count"`
	RetryWait         time.Duration `yaml:"retry_wait"`
}

const (
	_feedAddressDefault       = "http://localhost:8000"
	_feedTimeoutDefault       = 10 * time.Second
	_requestsPerMinuteDefault = 600
	_retryWaitDefault         = 200 * time.Millisecond
)

func (c *FeedConfig) Setup() error {
	c.Address = cmp.Or(c.Address, _feedAddressDefault)
	u, err := url.Parse(c.Address)
	if err != nil {
		return fmt.Errorf("%w: invalid feed address", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("feed address %q must be absolute", c.Address)
	}

	if c.Timeout <= 0 {
		c.Timeout = _feedTimeoutDefault
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = _requestsPerMinuteDefault
	}
	if c.RetryCount < 0 {
		c.RetryCount = 0
	}
	if c.RetryWait <= 0 {
		c.RetryWait = _retryWaitDefault
	}

	return nil
}

type WidgetConfig struct {
	RefreshInterval time.Duration    `yaml:"refresh_interval"`
	DefaultRange    model.Range      `yaml:"default_range"`
	DefaultMode     model.RenderMode `yaml:"default_mode"`
	Width           float64          `yaml:"width"`
	Height          float64          `yaml:"height"`
}

const (
	_refreshIntervalDefault = 5 * time.Second
	_widthDefault           = 800
	_heightDefault          = 400
)

func (c *WidgetConfig) Setup() error {
	if c.RefreshInterval == 0 {
		c.RefreshInterval = _refreshIntervalDefault
	}
	if c.RefreshInterval < 0 {
		c.RefreshInterval = 0 // polling disabled
	}

	if c.DefaultRange == "" {
		c.DefaultRange = model.DefaultRange
	}
	if _, err := model.ParseRange(string(c.DefaultRange)); err != nil {
		return fmt.Errorf("%w: invalid default range", err)
	}

	if c.DefaultMode == "" {
		c.DefaultMode = model.DefaultRenderMode
	}
	if _, err := model.ParseRenderMode(string(c.DefaultMode)); err != nil {
		return fmt.Errorf("%w: invalid default mode", err)
	}

	if c.Width <= 0 {
		c.Width = _widthDefault
	}
	if c.Height <= 0 {
		c.Height = _heightDefault
	}

	return nil
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func (c *LogConfig) Setup() {
	c.Level = cmp.Or(c.Level, "info")
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 25
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 10
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = 14
	}
}

type SourceKind string

const (
	GeneratorSource SourceKind = "generator"
	ParquetSource   SourceKind = "parquet"
	PostgresSource  SourceKind = "postgres"
)

type MockFeedConfig struct {
	Source     SourceKind `yaml:"source"`
	Seed       int64      `yaml:"seed"`
	ParquetDir string     `yaml:"parquet_dir"`
}

func (c *MockFeedConfig) Setup() error {
	if c.Source == "" {
		c.Source = GeneratorSource
	}

	switch c.Source {
	case GeneratorSource, PostgresSource:
	case ParquetSource:
		if c.ParquetDir == "" {
			return fmt.Errorf("parquet_dir is required for parquet source")
		}
	default:
		return fmt.Errorf("unknown mock feed source %q", c.Source)
	}

	return nil
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Feed     FeedConfig     `yaml:"feed"`
	Widget   WidgetConfig   `yaml:"widget"`
	Log      LogConfig      `yaml:"log"`
	MockFeed MockFeedConfig `yaml:"mock_feed"`
}

// ApplyEnv lets the environment override the file; call it before Setup.
func (c *Config) ApplyEnv() {
	c.Feed.Address = cmp.Or(os.Getenv("CHART_FEED_ADDRESS"), c.Feed.Address)
	c.Server.Port = cmp.Or(os.Getenv("CHART_SERVER_PORT"), c.Server.Port)
	c.Log.Level = cmp.Or(os.Getenv("CHART_LOG_LEVEL"), c.Log.Level)
}

func (c *Config) ValidateAndSetup() error {
	if err := c.Server.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup server", err)
	}
	if err := c.Feed.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup feed", err)
	}
	if err := c.Widget.Setup(); err != nil {
		return fmt.Errorf("%w: can't setup widget", err)
	}
	c.Log.Setup()

	return nil
}

func LoadConfig(filename string) (Config, error) {
	var cfg Config
	input, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("%w: can't read file", err)
	}

	if err := yaml.Unmarshal(input, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: can't unmarshal config", err)
	}

	cfg.ApplyEnv()

	if err := cfg.ValidateAndSetup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}

// LoadMockFeedConfig is LoadConfig plus the mock_feed section, which only the
// mock feed binary reads.
func LoadMockFeedConfig(filename string) (Config, error) {
	cfg, err := LoadConfig(filename)
	if err != nil {
		return cfg, err
	}

	if src := os.Getenv("MOCK_FEED_SOURCE"); src != "" {
		cfg.MockFeed.Source = SourceKind(src)
	}
	if err := cfg.MockFeed.Setup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup mock feed", err)
	}

	return cfg, nil
}
