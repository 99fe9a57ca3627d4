package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "JITO_SPEEDTEST"

var validate = validator.New()

// Config holds all configuration for the application.
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Logger LoggerConfig `mapstructure:"logger"`
	// Update is checked by UpdateConfig.Validate on the update path only.
	Update UpdateConfig `mapstructure:"update" validate:"-"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name string `mapstructure:"name" validate:"required"`
	// Version is injected at build time, never read from file or env.
	Version string `mapstructure:"-"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Encoding string `mapstructure:"encoding" validate:"oneof=console json"`
	// File, when set, receives a rotated copy of the log.
	File string `mapstructure:"file"`
}

// UpdateConfig holds settings for the self-update command.
type UpdateConfig struct {
	RepoOwner string        `mapstructure:"repo_owner" validate:"required"`
	RepoName  string        `mapstructure:"repo_name" validate:"required"`
	BinName   string        `mapstructure:"bin_name" validate:"required"`
	APIURL    string        `mapstructure:"api_url" validate:"required,url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// Load reads configuration from file and environment variables.
// configPath may be empty; the user config dir and the working dir are searched as well.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "jito-speedtest")
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.file", "")
	v.SetDefault("update.repo_owner", "cfanbo")
	v.SetDefault("update.repo_name", "jito-speedtest")
	v.SetDefault("update.bin_name", "jito-speedtest")
	v.SetDefault("update.api_url", "https://api.github.com")
	v.SetDefault("update.timeout", "60s")
	v.SetDefault("update.cache_ttl", "10m")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "jito-speedtest"))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values every command depends on.
func (c *Config) Validate() error {
	return validateStruct(c)
}

// Validate checks the self-update settings.
func (c UpdateConfig) Validate() error {
	return validateStruct(c)
}

func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// formatValidationErrors formats validation errors into a user-friendly error message
func formatValidationErrors(errs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed validation: %s", err.Namespace(), err.Tag()))
	}
	return fmt.Errorf("validation errors: %v", msgs)
}

func (c UpdateConfig) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 60 * time.Second
	}
	return c.Timeout
}

func (c UpdateConfig) GetCacheTTL() time.Duration {
	return c.CacheTTL
}
