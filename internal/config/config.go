package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Ingest IngestConfig `yaml:"ingest" mapstructure:"ingest"`
	Rules  RulesConfig  `yaml:"rules" mapstructure:"rules"`
	Report ReportConfig `yaml:"report" mapstructure:"report"`
	Render RenderConfig `yaml:"render" mapstructure:"render"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// IngestConfig configures how the attendance spreadsheet is read.
type IngestConfig struct {
	HeaderRow       int      `yaml:"header_row" mapstructure:"header_row" validate:"gte=0"`
	Sheet           string   `yaml:"sheet" mapstructure:"sheet"`
	Columns         []string `yaml:"columns" mapstructure:"columns"` // positional override, empty = match by header
	TimestampLayout string   `yaml:"timestamp_layout" mapstructure:"timestamp_layout" validate:"required"`
}

// RulesConfig holds the compliance thresholds. Clock values use HH:MM:SS.
type RulesConfig struct {
	EntryMode     string        `yaml:"entry_mode" mapstructure:"entry_mode" validate:"oneof=upper bounded"`
	EntryEarliest string        `yaml:"entry_earliest" mapstructure:"entry_earliest" validate:"required_if=EntryMode bounded"`
	EntryLatest   string        `yaml:"entry_latest" mapstructure:"entry_latest" validate:"required"`
	ExitStart     string        `yaml:"exit_start" mapstructure:"exit_start" validate:"required"`
	ExitEnd       string        `yaml:"exit_end" mapstructure:"exit_end" validate:"required"`
	MaxDowntime   time.Duration `yaml:"max_downtime" mapstructure:"max_downtime" validate:"gte=0"`
}

// ReportConfig configures aggregation and the default indicator.
type ReportConfig struct {
	ExcludeSundays bool   `yaml:"exclude_sundays" mapstructure:"exclude_sundays"`
	Normalize      bool   `yaml:"normalize" mapstructure:"normalize"`
	Indicator      string `yaml:"indicator" mapstructure:"indicator" validate:"required"`
}

// RenderConfig holds workbook colours (#RRGGBB) and chart size in pixels.
type RenderConfig struct {
	HeatmapLow  string `yaml:"heatmap_low" mapstructure:"heatmap_low" validate:"omitempty,hexcolor"`
	HeatmapHigh string `yaml:"heatmap_high" mapstructure:"heatmap_high" validate:"omitempty,hexcolor"`
	BarColor    string `yaml:"bar_color" mapstructure:"bar_color" validate:"omitempty,hexcolor"`
	HeaderColor string `yaml:"header_color" mapstructure:"header_color" validate:"omitempty,hexcolor"`
	ChartWidth  uint   `yaml:"chart_width" mapstructure:"chart_width"`
	ChartHeight uint   `yaml:"chart_height" mapstructure:"chart_height"`
}

// ServerConfig configures the upload server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	MaxUploadMB    int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb" validate:"gt=0"`
	RatePerSec     float64  `yaml:"rate_per_sec" mapstructure:"rate_per_sec" validate:"gte=0"`
	Burst          int      `yaml:"burst" mapstructure:"burst" validate:"gte=0"`
	CacheSize      int      `yaml:"cache_size" mapstructure:"cache_size" validate:"gt=0"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=json console"`
}

// Load reads configuration from .env, config file and environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SIMOVA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ingest.header_row", 1)
	v.SetDefault("ingest.sheet", "")
	v.SetDefault("ingest.columns", []string{})
	v.SetDefault("ingest.timestamp_layout", "02/01/2006 15:04:05")
	v.SetDefault("rules.entry_mode", "upper")
	v.SetDefault("rules.entry_earliest", "04:00:00")
	v.SetDefault("rules.entry_latest", "08:45:00")
	v.SetDefault("rules.exit_start", "16:30:00")
	v.SetDefault("rules.exit_end", "19:00:00")
	v.SetDefault("rules.max_downtime", "1h")
	v.SetDefault("report.exclude_sundays", true)
	v.SetDefault("report.normalize", true)
	v.SetDefault("report.indicator", "overall_compliance")
	v.SetDefault("render.heatmap_low", "#FD3500")
	v.SetDefault("render.heatmap_high", "#367C2B")
	v.SetDefault("render.bar_color", "#367C2B")
	v.SetDefault("render.header_color", "#E6E6FA")
	v.SetDefault("render.chart_width", 720)
	v.SetDefault("render.chart_height", 400)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.rate_per_sec", 5.0)
	v.SetDefault("server.burst", 10)
	v.SetDefault("server.cache_size", 16)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks struct constraints plus the requirements of the given mode
// ("report" or "serve").
func (c *Config) Validate(mode string) error {
	var problems []string

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return eris.Wrap(err, "config: validate")
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}

	switch mode {
	case "report":
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
