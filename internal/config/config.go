package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no path is given. A missing default file is not an error.
const DefaultPath = "config/bookshelf.yaml"

// EnvPrefix prefixes environment overrides, e.g. BOOKSHELF_COVER_STRATEGY=sample.
const EnvPrefix = "BOOKSHELF"

// Cover colour strategies.
const (
	StrategyPalette = "palette"
	StrategySample  = "sample"
)

// Config is the whole bookshelf configuration.
type Config struct {
	Window  WindowConfig  `mapstructure:"window" yaml:"window"`
	Cover   CoverConfig   `mapstructure:"cover" yaml:"cover"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui"`
	Debug   DebugConfig   `mapstructure:"debug" yaml:"debug"`
	// Frame is an optional bookshelf frame definition; empty uses the built-in one.
	Frame string `mapstructure:"frame" yaml:"frame"`
}

// WindowConfig sizes the raylib window.
type WindowConfig struct {
	Width      int    `mapstructure:"width" yaml:"width"`
	Height     int    `mapstructure:"height" yaml:"height"`
	Title      string `mapstructure:"title" yaml:"title"`
	Fullscreen bool   `mapstructure:"fullscreen" yaml:"fullscreen"`
	TargetFPS  int    `mapstructure:"target_fps" yaml:"target_fps"`
}

// CoverConfig picks how book colours are derived from covers.
type CoverConfig struct {
	Strategy string        `mapstructure:"strategy" yaml:"strategy"` // palette | sample
	Palette  []string      `mapstructure:"palette" yaml:"palette"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Workers  int           `mapstructure:"workers" yaml:"workers"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug | info | warn | error
	Path  string `mapstructure:"path" yaml:"path"`
}

// MetricsConfig controls the Prometheus endpoint served by run.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr"`
}

type UIConfig struct {
	Stylesheet string `mapstructure:"stylesheet" yaml:"stylesheet"` // empty uses the built-in one
	Font       string `mapstructure:"font" yaml:"font"`
	LabelSize  int    `mapstructure:"label_size" yaml:"label_size"`
}

// DebugConfig holds HUD toggles; the console saves them back to the file.
type DebugConfig struct {
	ShowFPS   bool `mapstructure:"show_fps" yaml:"show_fps"`
	ShowBooks bool `mapstructure:"show_books" yaml:"show_books"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "Bookshelf")
	v.SetDefault("window.fullscreen", false)
	v.SetDefault("window.target_fps", 60)

	v.SetDefault("cover.strategy", StrategyPalette)
	v.SetDefault("cover.palette", []string{})
	v.SetDefault("cover.timeout", 10*time.Second)
	v.SetDefault("cover.workers", 4)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "logs/bookshelf.log")

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", "127.0.0.1:9464")

	v.SetDefault("ui.stylesheet", "")
	v.SetDefault("ui.font", "")
	v.SetDefault("ui.label_size", 14)

	v.SetDefault("debug.show_fps", false)
	v.SetDefault("debug.show_books", false)

	v.SetDefault("frame", "")
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshal of pure defaults cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads path (or DefaultPath when empty), applies BOOKSHELF_* environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if explicit || !missing {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg as YAML, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func validate(cfg *Config) error {
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return fmt.Errorf("config: invalid window size %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.TargetFPS <= 0 {
		return fmt.Errorf("config: invalid target fps %d", cfg.Window.TargetFPS)
	}
	switch cfg.Cover.Strategy {
	case StrategyPalette, StrategySample:
	default:
		return fmt.Errorf("config: unknown cover strategy %q", cfg.Cover.Strategy)
	}
	if cfg.Cover.Workers <= 0 {
		return fmt.Errorf("config: cover workers must be positive, got %d", cfg.Cover.Workers)
	}
	if cfg.Cover.Timeout <= 0 {
		return fmt.Errorf("config: cover timeout must be positive")
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return errors.New("config: metrics enabled without an address")
	}
	if cfg.UI.LabelSize <= 0 {
		return fmt.Errorf("config: invalid label size %d", cfg.UI.LabelSize)
	}
	return nil
}
