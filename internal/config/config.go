// Package config resolves settings from flags, EXAMPREP_* environment
// variables and an optional examprep config file, in that order.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Store backends for the last summary.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config is the resolved application configuration.
type Config struct {
	APIURL        string
	APIToken      string
	APITimeout    time.Duration
	RetryAttempts int

	Store         string
	DB            string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AMQPURL        string
	AMQPExchange   string
	AnalyticsRate  float64
	AnalyticsBurst int

	LogLevel string
	LogFile  string

	TickInterval time.Duration
}

// AddFlags registers the shared flags on cmd's persistent flag set.
func AddFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("api-url", "http://localhost:8080/api", "Base URL of the question, assessment and analytics API")
	f.String("api-token", "", "Bearer token for the API")
	f.Duration("api-timeout", 15*time.Second, "Timeout for a single API request")
	f.Int("retry-attempts", 3, "Attempts per API call for transient failures")

	f.String("store", StoreSQLite, "Where to keep the last summary: sqlite or redis")
	f.String("db", "", "Path to SQLite database file (overrides EXAMPREP_DB)")
	f.String("redis-addr", "localhost:6379", "Redis address when --store=redis")
	f.String("redis-password", "", "Redis password")
	f.Int("redis-db", 0, "Redis database number")

	f.String("amqp-url", "", "AMQP URL for publishing performance events (disabled when empty)")
	f.String("amqp-exchange", "examprep.performance", "AMQP topic exchange")
	f.Float64("analytics-rate", 20, "Performance events sent per second")
	f.Int("analytics-burst", 5, "Performance event burst size")

	f.String("log-level", "info", "Log level: debug, info, warn or error")
	f.String("log-file", "", "Log file path (default under the XDG state directory)")

	f.Duration("tick-interval", time.Second, "Countdown tick length")
	_ = f.MarkHidden("tick-interval")
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	v.SetEnvPrefix("EXAMPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("examprep")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/examprep")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return v, nil
}

// Load resolves the configuration for cmd.
func Load(cmd *cobra.Command) (Config, error) {
	v, err := viperForCmd(cmd)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:         v.GetString("api-url"),
		APIToken:       v.GetString("api-token"),
		APITimeout:     v.GetDuration("api-timeout"),
		RetryAttempts:  v.GetInt("retry-attempts"),
		Store:          strings.ToLower(strings.TrimSpace(v.GetString("store"))),
		DB:             v.GetString("db"),
		RedisAddr:      v.GetString("redis-addr"),
		RedisPassword:  v.GetString("redis-password"),
		RedisDB:        v.GetInt("redis-db"),
		AMQPURL:        v.GetString("amqp-url"),
		AMQPExchange:   v.GetString("amqp-exchange"),
		AnalyticsRate:  v.GetFloat64("analytics-rate"),
		AnalyticsBurst: v.GetInt("analytics-burst"),
		LogLevel:       v.GetString("log-level"),
		LogFile:        v.GetString("log-file"),
		TickInterval:   v.GetDuration("tick-interval"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail far from their source.
func (c Config) Validate() error {
	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("api-url must be set"))
	}
	switch c.Store {
	case StoreSQLite, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("store %q: want sqlite or redis", c.Store))
	}
	if c.RetryAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry-attempts must be at least 1, got %d", c.RetryAttempts))
	}
	if c.AnalyticsRate <= 0 {
		errs = append(errs, fmt.Errorf("analytics-rate must be positive, got %g", c.AnalyticsRate))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick-interval must be positive, got %s", c.TickInterval))
	}
	return errors.Join(errs...)
}
