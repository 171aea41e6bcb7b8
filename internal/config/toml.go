// Package config provides configuration helpers and TOML parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/verte-zerg/sentype/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Seed           *int64 `toml:"seed"`
	RefocusDelayMs *int   `toml:"refocus-delay-ms"`
}

// StorageConfig maps persistence settings.
type StorageConfig struct {
	DB *string `toml:"db"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

var validate = validator.New()

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate checks practice settings and reports the first offending field
// using its flag name.
func Validate(cfg model.Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("invalid config: %w", err)
	}
	fe := verrs[0]
	flag := flagNames[fe.Field()]
	if flag == "" {
		flag = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("--%s must not be empty", flag)
	case "gte":
		return fmt.Errorf("--%s must be >= %s", flag, fe.Param())
	case "lte":
		return fmt.Errorf("--%s must be <= %s", flag, fe.Param())
	case "oneof":
		return fmt.Errorf("--%s must be one of: %s", flag, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Errorf("--%s is invalid (%s)", flag, fe.Tag())
	}
}

var flagNames = map[string]string{
	"Seed":           "seed",
	"RefocusDelayMs": "refocus-delay-ms",
	"DBPath":         "db",
	"LogLevel":       "log-level",
	"LogPath":        "log-file",
}
