// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
// Environment variables take precedence over the file.
type Config struct {
	DBDriver      string `mapstructure:"DB_DRIVER"`
	DBSource      string `mapstructure:"DB_SOURCE"`
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	Environment   string `mapstructure:"GO_ENV"`

	FraudStrategy   string  `mapstructure:"FRAUD_STRATEGY"`
	FraudMaxAmount  string  `mapstructure:"FRAUD_MAX_AMOUNT"`
	FraudZThreshold float64 `mapstructure:"FRAUD_Z_THRESHOLD"`
	FraudSampleSize int     `mapstructure:"FRAUD_SAMPLE_SIZE"`
	FraudSeed       int64   `mapstructure:"FRAUD_SEED"`

	LowBalanceThreshold string `mapstructure:"LOW_BALANCE_THRESHOLD"`

	RedisAddr string        `mapstructure:"REDIS_ADDR"`
	CacheTTL  time.Duration `mapstructure:"CACHE_TTL"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
}

var defaults = map[string]any{
	"DB_DRIVER":             "sqlite",
	"DB_SOURCE":             "file:petledger.db?_pragma=foreign_keys(1)&_time_format=sqlite",
	"SERVER_ADDRESS":        "0.0.0.0:8080",
	"GO_ENV":                "production",
	"FRAUD_STRATEGY":        "none",
	"FRAUD_MAX_AMOUNT":      "10000",
	"FRAUD_Z_THRESHOLD":     3.0,
	"FRAUD_SAMPLE_SIZE":     10_000,
	"FRAUD_SEED":            42,
	"LOW_BALANCE_THRESHOLD": "100",
	"REDIS_ADDR":            "",
	"CACHE_TTL":             5 * time.Minute,
	"RATE_LIMIT_RPS":        0.0,
	"RATE_LIMIT_BURST":      20,
}

// Load reads configuration from file or environment variables.
//
// path is either a directory searched for app.env or the path of an .env file.
// A missing app.env in the directory is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if filepath.Ext(path) == ".env" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(path)
		v.SetConfigName("app")
	}

	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}
