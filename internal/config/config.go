package config

import (
	"fmt"
	"strings"
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
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Host string `mapstructure:"host"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Name         string `mapstructure:"name"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	CacheTTL string `mapstructure:"cache_ttl"`
}

type SchedulerConfig struct {
	ReminderSpec string `mapstructure:"reminder_spec"`
	Timezone     string `mapstructure:"timezone"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BusinessConfig carries the lending rule knobs. The minimum salary is
// deliberately configuration, not a literal: earlier revisions of the rule
// set drifted between two hard-coded thresholds.
type BusinessConfig struct {
	MinimumSalary        string `mapstructure:"minimum_salary"`
	AdvanceLimitRate     string `mapstructure:"advance_limit_rate"`
	AdvanceRepaymentDays int    `mapstructure:"advance_repayment_days"`
	Currency             string `mapstructure:"currency"`
}

// Load reads configuration from environment variables and files.
// Environment variables use the nested key with underscores, e.g.
// SERVER_PORT, BUSINESS_MINIMUM_SALARY.
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.name", "lending")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 10)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.cache_ttl", "5m")
	viper.SetDefault("scheduler.reminder_spec", "0 0 8 * * *")
	viper.SetDefault("scheduler.timezone", "Africa/Kampala")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("business.minimum_salary", "200000")
	viper.SetDefault("business.advance_limit_rate", "0.5")
	viper.SetDefault("business.advance_repayment_days", 30)
	viper.SetDefault("business.currency", "UGX")

	// Read from environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Try to read from a config file (optional)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if the config file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}

	minSalary, err := decimal.NewFromString(c.Business.MinimumSalary)
	if err != nil {
		return fmt.Errorf("business.minimum_salary must be a valid decimal: %w", err)
	}
	if minSalary.IsNegative() {
		return fmt.Errorf("business.minimum_salary must not be negative")
	}

	limitRate, err := decimal.NewFromString(c.Business.AdvanceLimitRate)
	if err != nil {
		return fmt.Errorf("business.advance_limit_rate must be a valid decimal: %w", err)
	}
	if !limitRate.IsPositive() || limitRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("business.advance_limit_rate must be in (0, 1]")
	}

	if c.Business.AdvanceRepaymentDays <= 0 {
		return fmt.Errorf("business.advance_repayment_days must be greater than 0")
	}

	if _, err := time.ParseDuration(c.Redis.CacheTTL); err != nil {
		return fmt.Errorf("redis.cache_ttl must be a valid duration: %w", err)
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

// DSN returns the Postgres connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// GetMinimumSalary returns the minimum salary threshold as decimal
func (c *Config) GetMinimumSalary() decimal.Decimal {
	minSalary, _ := decimal.NewFromString(c.Business.MinimumSalary)
	return minSalary
}

// GetAdvanceLimitRate returns the advance limit rate as decimal
func (c *Config) GetAdvanceLimitRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.AdvanceLimitRate)
	return rate
}

// GetCacheTTL returns the Redis cache TTL as duration
func (c *Config) GetCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Redis.CacheTTL)
	return ttl
}
