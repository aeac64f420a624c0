package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DB struct {
		Host     string
		Port     int
		User     string
		Password string
		Database string
	}
	RabbitMQ struct {
		Host     string
		Port     int
		User     string
		Password string
	}
	JWT struct {
		Secret string
		TTL    time.Duration
	}
	Services struct {
		AdminConsole int
	}
	Log struct {
		Level string
	}
	Console ConsoleConfig
}

// ConsoleConfig holds per-screen list settings. Unset fields fall back to
// the screen's built-in defaults.
type ConsoleConfig struct {
	DefaultPageSize int                     `mapstructure:"default_page_size"`
	Screens         map[string]ScreenConfig `mapstructure:"screens"`
}

type ScreenConfig struct {
	PageSize   int   `mapstructure:"page_size"`
	BulkDelete *bool `mapstructure:"bulk_delete"`
	Export     *bool `mapstructure:"export"`
}

// Screen returns the settings for a screen, empty when none are configured.
func (c ConsoleConfig) Screen(name string) ScreenConfig {
	return c.Screens[name]
}

// LoadConfig reads filename as a dotenv file into the environment (a
// missing file is fine), then resolves settings from the environment with
// defaults. When CONSOLE_CONFIG names a YAML file, screen settings are read
// from it.
func LoadConfig(filename string) (*Config, error) {
	if err := godotenv.Load(filename); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	if err := v.BindEnv("default_page_size", "CONSOLE_PAGE_SIZE"); err != nil {
		return nil, fmt.Errorf("bind CONSOLE_PAGE_SIZE: %w", err)
	}

	if path := v.GetString("console_config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read console config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	cfg.DB.Host = v.GetString("db_host")
	cfg.DB.Port = v.GetInt("db_port")
	cfg.DB.User = v.GetString("db_user")
	cfg.DB.Password = v.GetString("db_pass")
	cfg.DB.Database = v.GetString("db_name")
	cfg.RabbitMQ.Host = v.GetString("rabbitmq_host")
	cfg.RabbitMQ.Port = v.GetInt("rabbitmq_port")
	cfg.RabbitMQ.User = v.GetString("rabbitmq_user")
	cfg.RabbitMQ.Password = v.GetString("rabbitmq_pass")
	cfg.JWT.Secret = v.GetString("jwt_secret_key")
	cfg.JWT.TTL = v.GetDuration("jwt_ttl")
	cfg.Services.AdminConsole = v.GetInt("admin_console_port")
	cfg.Log.Level = v.GetString("log_level")

	if err := v.Unmarshal(&cfg.Console); err != nil {
		return nil, fmt.Errorf("could not decode console config: %w", err)
	}
	if cfg.Console.DefaultPageSize <= 0 {
		return nil, fmt.Errorf("default page size must be positive, got %d", cfg.Console.DefaultPageSize)
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET_KEY is not set")
	}

	return cfg, nil
}

// DSN returns the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.Database,
	)
}

// AMQPURL returns the RabbitMQ connection string.
func (c *Config) AMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User,
		c.RabbitMQ.Password,
		c.RabbitMQ.Host,
		c.RabbitMQ.Port,
	)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 5432)
	v.SetDefault("db_user", "ridehail_user")
	v.SetDefault("db_pass", "ridehail_pass")
	v.SetDefault("db_name", "ridehail_db")
	v.SetDefault("rabbitmq_host", "localhost")
	v.SetDefault("rabbitmq_port", 5672)
	v.SetDefault("rabbitmq_user", "guest")
	v.SetDefault("rabbitmq_pass", "guest")
	v.SetDefault("jwt_ttl", time.Hour)
	v.SetDefault("admin_console_port", 3004)
	v.SetDefault("log_level", "INFO")
	v.SetDefault("default_page_size", 10)
}
