package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tallybank/tallybank/internal/types"
)

type Configuration struct {
	Deployment     DeploymentConfig     `validate:"required"`
	Server         ServerConfig         `validate:"required"`
	Logging        LoggingConfig        `validate:"required"`
	Postgres       PostgresConfig       `validate:"required"`
	Auth           AuthConfig           `validate:"required"`
	AccountService AccountServiceConfig `mapstructure:"account_service" validate:"required"`
	Cache          CacheConfig          `validate:"required"`
	PubSub         PubSubConfig         `mapstructure:"pubsub" validate:"required"`
	Sentry         SentryConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required,oneof=local customer account invoice transaction"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string `validate:"required"`
	Port                   int    `validate:"required"`
	User                   string `validate:"required"`
	Password               string `validate:"required"`
	DBName                 string `mapstructure:"dbname" validate:"required"`
	SSLMode                string `mapstructure:"sslmode" validate:"required"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" default:"10"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" default:"5"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" default:"60"`
	SlowQueryMs            int    `mapstructure:"slow_query_ms" default:"200"`
}

type AuthConfig struct {
	Secret string `validate:"required"`
}

// AccountServiceConfig addresses the account service as seen from the
// invoice service
type AccountServiceConfig struct {
	BaseURL  string        `mapstructure:"base_url" validate:"required,url"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"required"`
	RetryMax int           `mapstructure:"retry_max" validate:"min=0,max=5"`
	// RateLimit caps calls per second to the account service, 0 disables it
	RateLimit float64 `mapstructure:"rate_limit" validate:"min=0"`
	RateBurst int     `mapstructure:"rate_burst" validate:"min=0"`
}

type CacheConfig struct {
	Enabled   bool
	Type      types.CacheType `validate:"omitempty,oneof=memory redis"`
	RedisAddr string          `mapstructure:"redis_addr"`
	TTL       time.Duration
}

type PubSubConfig struct {
	Type          types.PubSubType `validate:"required,oneof=memory kafka"`
	Brokers       []string
	Topic         string `validate:"required"`
	ConsumerGroup string `mapstructure:"consumer_group"`
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64 `mapstructure:"sample_rate"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional, values already present in the environment win
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/tallybank")

	v.SetEnvPrefix("TALLYBANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 60)
	v.SetDefault("postgres.slow_query_ms", 200)
	v.SetDefault("account_service.base_url", "http://localhost:8080")
	v.SetDefault("account_service.timeout", 5*time.Second)
	v.SetDefault("account_service.retry_max", 1)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.type", types.CacheTypeMemory)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("pubsub.type", types.PubSubMemory)
	v.SetDefault("pubsub.topic", "tallybank.events")
	v.SetDefault("pubsub.consumer_group", "tallybank-transaction")
	v.SetDefault("sentry.sample_rate", 1.0)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		AccountService: AccountServiceConfig{
			BaseURL:   "http://localhost:8080",
			Timeout:   5 * time.Second,
			RetryMax:  1,
			RateLimit: 50,
			RateBurst: 10,
		},
		Cache: CacheConfig{
			Enabled: true,
			Type:    types.CacheTypeMemory,
			TTL:     24 * time.Hour,
		},
		PubSub: PubSubConfig{
			Type:          types.PubSubMemory,
			Topic:         "tallybank.events",
			ConsumerGroup: "tallybank-transaction",
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
