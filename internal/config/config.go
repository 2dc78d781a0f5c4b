package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines canvasboard configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Canvas  CanvasConfig  `yaml:"canvas"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects the backend holding persisted canvas slots.
type StorageConfig struct {
	Driver   string `yaml:"driver"` // sqlite, postgres, mysql, mongo, memory
	DSN      string `yaml:"dsn"`
	Database string `yaml:"database"` // mongo only
}

type CanvasConfig struct {
	GridSize      float64       `yaml:"grid_size"`
	MaxWidgets    int           `yaml:"max_widgets"`
	MaxAvatars    int           `yaml:"max_avatars"`
	SaveDebounce  time.Duration `yaml:"save_debounce"`
	StoragePrefix string        `yaml:"storage_prefix"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file or env override is set.
func Default() Config {
	dataDir := "."
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = home + "/.local/share/canvasboard"
	}
	return Config{
		Storage: StorageConfig{
			Driver:   "sqlite",
			DSN:      dataDir + "/canvas.db",
			Database: "canvasboard",
		},
		Canvas: CanvasConfig{
			GridSize:      32,
			MaxWidgets:    50,
			MaxAvatars:    20,
			SaveDebounce:  500 * time.Millisecond,
			StoragePrefix: "canvas_state",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
// path overrides CANVASBOARD_CONFIG when non-empty.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CANVASBOARD_CONFIG")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if v := os.Getenv("CANVASBOARD_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("CANVASBOARD_STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("CANVASBOARD_STORAGE_DATABASE"); v != "" {
		cfg.Storage.Database = v
	}
	if v := os.Getenv("CANVASBOARD_GRID_SIZE"); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CANVASBOARD_GRID_SIZE: %w", err)
		}
		cfg.Canvas.GridSize = size
	}
	if v := os.Getenv("CANVASBOARD_MAX_WIDGETS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CANVASBOARD_MAX_WIDGETS: %w", err)
		}
		cfg.Canvas.MaxWidgets = n
	}
	if v := os.Getenv("CANVASBOARD_MAX_AVATARS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CANVASBOARD_MAX_AVATARS: %w", err)
		}
		cfg.Canvas.MaxAvatars = n
	}
	if v := os.Getenv("CANVASBOARD_STORAGE_PREFIX"); v != "" {
		cfg.Canvas.StoragePrefix = v
	}
	if v := os.Getenv("CANVASBOARD_SAVE_DEBOUNCE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CANVASBOARD_SAVE_DEBOUNCE: %w", err)
		}
		cfg.Canvas.SaveDebounce = d
	}
	if v := os.Getenv("CANVASBOARD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg, cfg.Validate()
}

// Validate rejects values the canvas cannot run with.
func (c Config) Validate() error {
	if c.Canvas.GridSize <= 0 {
		return fmt.Errorf("canvas.grid_size must be positive, got %v", c.Canvas.GridSize)
	}
	if c.Canvas.MaxWidgets <= 0 || c.Canvas.MaxAvatars <= 0 {
		return fmt.Errorf("canvas.max_widgets and canvas.max_avatars must be positive")
	}
	if c.Canvas.SaveDebounce < 0 {
		return fmt.Errorf("canvas.save_debounce must not be negative")
	}
	if c.Canvas.StoragePrefix == "" {
		return fmt.Errorf("canvas.storage_prefix must not be empty")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
