package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gorm.io/gorm/logger"

	"github.com/balkashynov/studio/internal/models"
)

// EnvPrefix prefixes every environment override, e.g. STUDIO_DATABASE_PATH.
const EnvPrefix = "STUDIO"

// Config is the resolved configuration of the studio CLI.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Tags     TagsConfig     `mapstructure:"tags"`
	User     UserConfig     `mapstructure:"user"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TagsConfig struct {
	// DefaultColor is used when a tag is created from its name alone.
	DefaultColor string `mapstructure:"default_color"`
}

type UserConfig struct {
	// Name of the user created on first use.
	Name string `mapstructure:"name"`
}

var logLevels = map[string]logger.LogLevel{
	"silent": logger.Silent,
	"error":  logger.Error,
	"warn":   logger.Warn,
	"info":   logger.Info,
}

// Dir returns ~/.studio, where the database and config file live by default.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studio"
	}
	return filepath.Join(home, ".studio")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(Dir(), "studio.db"))
	v.SetDefault("log.level", "silent")
	v.SetDefault("tags.default_color", "gray")
	v.SetDefault("user.name", "me")
}

// Load resolves defaults, the YAML config file and STUDIO_* environment
// overrides, in increasing precedence. An explicit file must exist; the
// default ~/.studio/config.yaml is optional.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Database.Path = expandHome(strings.TrimSpace(c.Database.Path))
	if c.Database.Path == "" {
		return fmt.Errorf("database.path cannot be empty")
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if _, ok := logLevels[c.Log.Level]; !ok {
		return fmt.Errorf("log.level %q is not one of silent, error, warn, info", c.Log.Level)
	}

	if !models.ValidColor(c.Tags.DefaultColor) {
		return fmt.Errorf("tags.default_color %q is not a valid color", c.Tags.DefaultColor)
	}
	c.Tags.DefaultColor = strings.TrimSpace(c.Tags.DefaultColor)

	c.User.Name = strings.TrimSpace(c.User.Name)
	if c.User.Name == "" {
		return fmt.Errorf("user.name cannot be empty")
	}
	return nil
}

// LogLevel maps log.level onto gorm's logger levels.
func (c *Config) LogLevel() logger.LogLevel {
	return logLevels[c.Log.Level]
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
