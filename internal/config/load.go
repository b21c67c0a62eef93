package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CITAS_SERVER_PORT.
const EnvPrefix = "CITAS"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := newViper("config")
	setServerDefaults(v)

	var cfg Config
	if err := readAndUnmarshal(v, &cfg); err != nil {
		return nil, err
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClient loads the citasctl configuration. It reads citasctl.yaml and the
// same CITAS_ environment prefix, under the CLIENT_ group for API settings.
func LoadClient() (*ClientConfig, error) {
	v := newViper("citasctl")
	v.SetDefault("client.timeout_seconds", 30)
	v.SetDefault("client.log_level", "warn")
	bindKeys(v, "client.base_url", "client.api_key", "client.timeout_seconds", "client.log_level",
		"client.mail.api_url", "client.mail.api_key", "client.mail.from_address",
		"client.mail.from_name", "client.mail.portal_url")

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var wrapper struct {
		Client ClientConfig `mapstructure:"client"`
	}
	if err := v.Unmarshal(&wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&wrapper.Client); err != nil {
		return nil, err
	}
	return &wrapper.Client, nil
}

func newViper(name string) *viper.Viper {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/citas")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setServerDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080)
	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.stuck_task_age_minutes", 30)
	v.SetDefault("citas.timezone", "America/Mexico_City")
	v.SetDefault("citas.limit_days", 30)
	v.SetDefault("citas.cutoff_hour", 14)
	v.SetDefault("citas.holidays", []string{})

	// Keys without defaults must be bound explicitly so AutomaticEnv sees
	// them during Unmarshal.
	bindKeys(v, "database.url", "auth.jwt_secret", "auth.api_key",
		"mail.api_url", "mail.api_key", "mail.from_address", "mail.from_name", "mail.portal_url")
}

func bindKeys(v *viper.Viper, keys ...string) {
	for _, key := range keys {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(key)
	}
}

func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func readAndUnmarshal(v *viper.Viper, out any) error {
	if err := readConfigFile(v); err != nil {
		return err
	}
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

func validate(cfg any) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
