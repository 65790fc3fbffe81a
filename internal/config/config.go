package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Uploads   UploadsConfig   `mapstructure:"uploads"`
	APIClient APIClientConfig `mapstructure:"apiclient"`
	Flags     FlagsConfig     `mapstructure:"flags"`
}

type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// StoreConfig selects the backend for each half of the admin data.
// Catalog is "memory" or "postgres"; Sales is "memory" or "mongo".
type StoreConfig struct {
	Catalog string `mapstructure:"catalog"`
	Sales   string `mapstructure:"sales"`
}

type PostgresConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type UploadsConfig struct {
	Dir       string `mapstructure:"dir"`
	PublicURL string `mapstructure:"public_url"`
	MaxSizeMB int64  `mapstructure:"max_size_mb"`
}

type APIClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FlagsConfig struct {
	RolloutKey string `mapstructure:"rollout_key"`
}

var envKeyReplacer = strings.NewReplacer(".", "_")

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_header_timeout", 5*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 7)

	v.SetDefault("store.catalog", "memory")
	v.SetDefault("store.sales", "memory")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "victoria_kids")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("uploads.dir", "./uploads")
	v.SetDefault("uploads.public_url", "http://localhost:8080/uploads")
	v.SetDefault("uploads.max_size_mb", 5)

	v.SetDefault("apiclient.base_url", "http://localhost:8080")
	v.SetDefault("apiclient.timeout", 10*time.Second)

	v.SetDefault("flags.rollout_key", "")
}

// LoadConfig reads config.yaml, .env and VKADMIN_* environment variables.
// A missing config file is fine; every key has a default.
func LoadConfig(paths ...string) (*Config, error) {
	// .env is optional, real environment wins over it
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("/etc/victoria-kids/")

	v.SetEnvPrefix("VKADMIN")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements that defaults cannot cover.
func (c *Config) Validate() error {
	switch c.Store.Catalog {
	case "memory":
	case "postgres":
		if c.Postgres.DSN == "" {
			return fmt.Errorf("store.catalog=postgres requires postgres.dsn")
		}
	default:
		return fmt.Errorf("unsupported catalog store: %s", c.Store.Catalog)
	}
	switch c.Store.Sales {
	case "memory":
	case "mongo":
		if c.Mongo.URI == "" {
			return fmt.Errorf("store.sales=mongo requires mongo.uri")
		}
	default:
		return fmt.Errorf("unsupported sales store: %s", c.Store.Sales)
	}
	return nil
}
