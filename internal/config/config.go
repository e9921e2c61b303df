package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultReportsKey   = "reports"
	defaultLogLevel     = "info"
	defaultLogMaxSizeMB = 10
	defaultLogMaxFiles  = 5
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	Location LocationConfig `toml:"location"`
	Logging  LoggingConfig  `toml:"logging"`
}

type StorageConfig struct {
	// Path of the settings database. Empty selects the per-user default
	// under the OS config directory.
	Path string `toml:"path"`
	// Key the report list is stored under.
	Key string `toml:"key"`
}

type LocationConfig struct {
	// Fixed position used when the platform offers no location source.
	// Both fields must be set together.
	Latitude  *float64 `toml:"latitude"`
	Longitude *float64 `toml:"longitude"`
}

type LoggingConfig struct {
	Level     string `toml:"level"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
	MaxFiles  int    `toml:"max_files"`
}

type LoadOptions struct {
	ConfigPath string
	Env        map[string]string
	Flags      FlagOverrides
}

type FlagOverrides struct {
	StoragePath *string
	StorageKey  *string
	LogLevel    *string
}

func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Path: "",
			Key:  defaultReportsKey,
		},
		Logging: LoggingConfig{
			Level:     defaultLogLevel,
			File:      "",
			MaxSizeMB: defaultLogMaxSizeMB,
			MaxFiles:  defaultLogMaxFiles,
		},
	}
}

// DefaultStoragePath resolves the per-user settings database location.
func DefaultStoragePath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "waymark", "waymark.db"), nil
}

// Load builds the effective configuration: defaults first, then the
// config file, then environment variables, then flags. An absent config
// file is not an error.
func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	if err := loadAndApplyFile(opts.ConfigPath, &cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg, opts.Env); err != nil {
		return Config{}, err
	}
	applyFlagOverrides(&cfg, opts.Flags)

	if cfg.Storage.Path == "" {
		path, err := DefaultStoragePath()
		if err != nil {
			return Config{}, err
		}
		cfg.Storage.Path = path
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type rawConfig struct {
	Storage  *StorageConfig  `toml:"storage"`
	Location *LocationConfig `toml:"location"`
	Logging  *rawLogging     `toml:"logging"`
}

type rawLogging struct {
	Level     *string `toml:"level"`
	File      *string `toml:"file"`
	MaxSizeMB *int    `toml:"max_size_mb"`
	MaxFiles  *int    `toml:"max_files"`
}

func loadAndApplyFile(path string, cfg *Config) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}

	if raw.Storage != nil {
		if raw.Storage.Path != "" {
			cfg.Storage.Path = raw.Storage.Path
		}
		if raw.Storage.Key != "" {
			cfg.Storage.Key = raw.Storage.Key
		}
	}
	if raw.Location != nil {
		cfg.Location = *raw.Location
	}
	if raw.Logging != nil {
		if raw.Logging.Level != nil {
			cfg.Logging.Level = *raw.Logging.Level
		}
		if raw.Logging.File != nil {
			cfg.Logging.File = *raw.Logging.File
		}
		if raw.Logging.MaxSizeMB != nil {
			cfg.Logging.MaxSizeMB = *raw.Logging.MaxSizeMB
		}
		if raw.Logging.MaxFiles != nil {
			cfg.Logging.MaxFiles = *raw.Logging.MaxFiles
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config, env map[string]string) error {
	if value, ok := env["WAYMARK_STORAGE_PATH"]; ok {
		cfg.Storage.Path = value
	}
	if value, ok := env["WAYMARK_STORAGE_KEY"]; ok {
		cfg.Storage.Key = value
	}
	if value, ok := env["WAYMARK_LOG_LEVEL"]; ok {
		cfg.Logging.Level = value
	}
	if value, ok := env["WAYMARK_LOG_FILE"]; ok {
		cfg.Logging.File = value
	}
	if value, ok := env["WAYMARK_LOCATION"]; ok {
		lat, lng, err := parseLatLng(value)
		if err != nil {
			return fmt.Errorf("%w: WAYMARK_LOCATION: %v", ErrInvalidConfig, err)
		}
		cfg.Location.Latitude = &lat
		cfg.Location.Longitude = &lng
	}
	return nil
}

func applyFlagOverrides(cfg *Config, flags FlagOverrides) {
	if flags.StoragePath != nil && *flags.StoragePath != "" {
		cfg.Storage.Path = *flags.StoragePath
	}
	if flags.StorageKey != nil && *flags.StorageKey != "" {
		cfg.Storage.Key = *flags.StorageKey
	}
	if flags.LogLevel != nil && *flags.LogLevel != "" {
		cfg.Logging.Level = *flags.LogLevel
	}
}

func validate(cfg Config) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, cfg.Logging.Level)
	}
	if cfg.Storage.Key == "" {
		return fmt.Errorf("%w: storage.key must not be empty", ErrInvalidConfig)
	}
	if (cfg.Location.Latitude == nil) != (cfg.Location.Longitude == nil) {
		return fmt.Errorf("%w: location.latitude and location.longitude must be set together", ErrInvalidConfig)
	}
	if cfg.Location.Latitude != nil {
		if *cfg.Location.Latitude < -90 || *cfg.Location.Latitude > 90 {
			return fmt.Errorf("%w: location.latitude %v outside [-90, 90]", ErrInvalidConfig, *cfg.Location.Latitude)
		}
		if *cfg.Location.Longitude < -180 || *cfg.Location.Longitude > 180 {
			return fmt.Errorf("%w: location.longitude %v outside [-180, 180]", ErrInvalidConfig, *cfg.Location.Longitude)
		}
	}
	if cfg.Logging.MaxSizeMB < 0 || cfg.Logging.MaxFiles < 0 {
		return fmt.Errorf("%w: logging rotation limits must not be negative", ErrInvalidConfig)
	}
	return nil
}

func parseLatLng(value string) (float64, float64, error) {
	latRaw, lngRaw, found := strings.Cut(value, ",")
	if !found || latRaw == "" || lngRaw == "" {
		return 0, 0, fmt.Errorf("expected \"lat,lng\", got %q", value)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngRaw), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude: %w", err)
	}
	return lat, lng, nil
}
