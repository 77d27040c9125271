package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Business  BusinessConfig  `mapstructure:"business"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port         string `mapstructure:"SERVER_PORT"`
	Host         string `mapstructure:"SERVER_HOST"`
	Env          string `mapstructure:"ENV"`
	ReadTimeout  string `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"DATABASE_URL"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	CacheTTL string `mapstructure:"REDIS_CACHE_TTL"`
}

type SchedulerConfig struct {
	Timezone     string `mapstructure:"SCHEDULER_TIMEZONE"`
	ReminderDays int    `mapstructure:"SCHEDULER_REMINDER_DAYS"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

// BusinessConfig carries the rental policy thresholds. Windows are exclusive
// lower bounds on days-until-rental.
type BusinessConfig struct {
	ModifyWindowDays     int    `mapstructure:"MODIFY_WINDOW_DAYS"`
	RescheduleWindowDays int    `mapstructure:"RESCHEDULE_WINDOW_DAYS"`
	LateCancelWindowDays int    `mapstructure:"LATE_CANCEL_WINDOW_DAYS"`
	DepositRate          string `mapstructure:"DEPOSIT_RATE"`
	DepositDueHours      int    `mapstructure:"DEPOSIT_DUE_HOURS"`
	FinalDueLeadDays     int    `mapstructure:"FINAL_DUE_LEAD_DAYS"`
	PartialRefundRate    string `mapstructure:"PARTIAL_REFUND_RATE"`
	LateRefundRate       string `mapstructure:"LATE_REFUND_RATE"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_CACHE_TTL", "60s")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("MODIFY_WINDOW_DAYS", 28)
	viper.SetDefault("RESCHEDULE_WINDOW_DAYS", 14)
	viper.SetDefault("LATE_CANCEL_WINDOW_DAYS", 7)
	viper.SetDefault("DEPOSIT_RATE", "0.30")
	viper.SetDefault("DEPOSIT_DUE_HOURS", 24)
	viper.SetDefault("FINAL_DUE_LEAD_DAYS", 7)
	viper.SetDefault("PARTIAL_REFUND_RATE", "0.80")
	viper.SetDefault("LATE_REFUND_RATE", "0.50")
	viper.SetDefault("SCHEDULER_TIMEZONE", "Europe/Amsterdam")
	viper.SetDefault("SCHEDULER_REMINDER_DAYS", 3)
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Business.ModifyWindowDays <= c.Business.RescheduleWindowDays {
		return fmt.Errorf("MODIFY_WINDOW_DAYS must be greater than RESCHEDULE_WINDOW_DAYS")
	}

	if c.Business.RescheduleWindowDays <= c.Business.LateCancelWindowDays {
		return fmt.Errorf("RESCHEDULE_WINDOW_DAYS must be greater than LATE_CANCEL_WINDOW_DAYS")
	}

	if c.Business.DepositDueHours <= 0 {
		return fmt.Errorf("DEPOSIT_DUE_HOURS must be greater than 0")
	}

	if c.Business.FinalDueLeadDays <= 0 {
		return fmt.Errorf("FINAL_DUE_LEAD_DAYS must be greater than 0")
	}

	// Validate rates
	for key, raw := range map[string]string{
		"DEPOSIT_RATE":        c.Business.DepositRate,
		"PARTIAL_REFUND_RATE": c.Business.PartialRefundRate,
		"LATE_REFUND_RATE":    c.Business.LateRefundRate,
	} {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("%s must be a valid decimal: %w", key, err)
		}
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%s must be between 0 and 1", key)
		}
	}

	// Validate durations
	if _, err := time.ParseDuration(c.Server.ReadTimeout); err != nil {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Server.WriteTimeout); err != nil {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Redis.CacheTTL); err != nil {
		return fmt.Errorf("REDIS_CACHE_TTL must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetDepositRate returns the deposit rate as decimal
func (c *Config) GetDepositRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.DepositRate)
	return rate
}

// GetPartialRefundRate returns the partial refund rate as decimal
func (c *Config) GetPartialRefundRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.PartialRefundRate)
	return rate
}

// GetLateRefundRate returns the late refund rate as decimal
func (c *Config) GetLateRefundRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.LateRefundRate)
	return rate
}

// GetCacheTTL returns the redis cache TTL as duration
func (c *Config) GetCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Redis.CacheTTL)
	return ttl
}

// GetReadTimeout returns the server read timeout as duration
func (c *Config) GetReadTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Server.ReadTimeout)
	return timeout
}

// GetWriteTimeout returns the server write timeout as duration
func (c *Config) GetWriteTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Server.WriteTimeout)
	return timeout
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
