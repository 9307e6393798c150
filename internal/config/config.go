package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is the single persistent
// record: the tag palette, per-tag usage counts, folder selections, and
// thumbnail/UI/logging settings all live here.
type Config struct {
	Tags              []string         `mapstructure:"tags"`
	TagUsage          map[string]int   `mapstructure:"tag_usage"`
	SourceFolders     []string         `mapstructure:"source_folders"`
	DestinationFolder string           `mapstructure:"destination_folder"`
	Thumbnails        ThumbnailsConfig `mapstructure:"thumbnails"`
	UI                UIConfig         `mapstructure:"ui"`
	Logging           LoggingConfig    `mapstructure:"logging"`

	// path is the file this config was loaded from (or will be saved to).
	path string
}

// ThumbnailsConfig holds thumbnail cache configuration
type ThumbnailsConfig struct {
	Dir string `mapstructure:"dir"` // Cache directory for generated previews

	// RespectModTime invalidates cached thumbnails when the source video's
	// modification time changes. Disable to key the cache on path only.
	RespectModTime bool `mapstructure:"respect_mtime"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	// GridColumns is how many videos the browser lays out per row
	GridColumns int `mapstructure:"grid_columns"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration, including the starter
// tag palette.
func DefaultConfig() *Config {
	return &Config{
		Tags: []string{
			"indoor", "outdoor", "bathroom", "bedroom", "kitchen",
			"bikini", "bdsm", "rooftop", "pool", "gym",
		},
		TagUsage:      map[string]int{},
		SourceFolders: []string{},
		Thumbnails: ThumbnailsConfig{
			Dir:            defaultCacheDir(),
			RespectModTime: true,
		},
		UI: UIConfig{
			GridColumns: 3,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultConfigDir returns the default config directory for the current OS
func defaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "vidtag")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "vidtag")
	}
}

// defaultCacheDir returns the default thumbnail cache directory
func defaultCacheDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "vidtag", "thumbnails")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".cache", "vidtag", "thumbnails")
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "vidtag", "vidtag.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "vidtag", "vidtag.log")
	}
}

// Load reads configuration from the given file, or from the default
// location when path is empty. A missing file yields defaults; an
// unreadable or corrupt file also yields defaults (logged, never fatal) so
// a damaged config cannot brick the application.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigDir())
		path = filepath.Join(defaultConfigDir(), "config.yaml")
	}
	cfg.path = path

	v.SetEnvPrefix("VIDTAG")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, nil
		}
		// Corrupt or unreadable config: fall back to defaults
		slog.Warn("config unreadable, using defaults", "path", path, "error", err)
		return cfg, nil
	}

	if err := v.Unmarshal(cfg); err != nil {
		slog.Warn("config malformed, using defaults", "path", path, "error", err)
		return DefaultConfigAt(path), nil
	}
	if cfg.TagUsage == nil {
		cfg.TagUsage = map[string]int{}
	}

	return cfg, nil
}

// DefaultConfigAt returns a default config bound to the given file path.
func DefaultConfigAt(path string) *Config {
	cfg := DefaultConfig()
	cfg.path = path
	return cfg
}

// Path returns the file this config is persisted to.
func (c *Config) Path() string {
	return c.path
}

// IsConfigured reports whether the user has completed the minimal setup:
// at least one source folder and a destination folder.
func (c *Config) IsConfigured() bool {
	return len(c.SourceFolders) > 0 && c.DestinationFolder != ""
}

// HasSourceFolder reports whether folder is already registered.
func (c *Config) HasSourceFolder(folder string) bool {
	for _, f := range c.SourceFolders {
		if f == folder {
			return true
		}
	}
	return false
}

// AddSourceFolder registers a source folder if not already present.
func (c *Config) AddSourceFolder(folder string) bool {
	if c.HasSourceFolder(folder) {
		return false
	}
	c.SourceFolders = append(c.SourceFolders, folder)
	return true
}

// Save writes the full configuration record to its file. Field keys are set
// individually to keep stable snake_case names in the output.
func Save(cfg *Config) error {
	if cfg.path == "" {
		cfg.path = filepath.Join(defaultConfigDir(), "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("tags", cfg.Tags)
	v.Set("tag_usage", cfg.TagUsage)
	v.Set("source_folders", cfg.SourceFolders)
	v.Set("destination_folder", cfg.DestinationFolder)

	v.Set("thumbnails.dir", cfg.Thumbnails.Dir)
	v.Set("thumbnails.respect_mtime", cfg.Thumbnails.RespectModTime)

	v.Set("ui.grid_columns", cfg.UI.GridColumns)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(cfg.path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
