package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const maxPremiumBonus = 10.0

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Loyalty  LoyaltyConfig
	Broker   BrokerConfig
	Outbox   OutboxConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	IdempotencyTTL  time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
}

// LoyaltyConfig holds the accrual rules and card settings
type LoyaltyConfig struct {
	TiersFile          string
	PremiumFuelTypeID  int64
	PremiumBonus       float64
	UnitsPerPoint      int64
	MaxRedeemShare     float64
	CardNumberAttempts int
	CacheSize          int
}

// BrokerConfig holds RabbitMQ settings. An empty URL disables the broker.
type BrokerConfig struct {
	URL                    string
	EventsExchange         string
	RegistrationExchange   string
	RegistrationQueue      string
	RegistrationRoutingKey string
}

// OutboxConfig holds the outbox dispatcher schedule
type OutboxConfig struct {
	FlushSchedule string
	PruneSchedule string
	BatchSize     int
	StaleAfter    time.Duration
	Retention     time.Duration
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string // debug, info, warn, error
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", "30s"),
			IdempotencyTTL:  getEnvAsDuration("IDEMPOTENCY_TTL", "24h"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("STORAGE_DRIVER", StorageDriverPostgres),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "loyalty"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "5m"),
		},
		Loyalty: LoyaltyConfig{
			TiersFile:          getEnv("LOYALTY_TIERS_FILE", ""),
			PremiumFuelTypeID:  int64(getEnvAsInt("LOYALTY_PREMIUM_FUEL_TYPE_ID", 3)),
			PremiumBonus:       getEnvAsFloat("LOYALTY_PREMIUM_BONUS", 1.10),
			UnitsPerPoint:      int64(getEnvAsInt("LOYALTY_UNITS_PER_POINT", 10)),
			MaxRedeemShare:     getEnvAsFloat("LOYALTY_MAX_REDEEM_SHARE", 0.5),
			CardNumberAttempts: getEnvAsInt("LOYALTY_CARD_NUMBER_ATTEMPTS", 5),
			CacheSize:          getEnvAsInt("LOYALTY_CACHE_SIZE", 1024),
		},
		Broker: BrokerConfig{
			URL:                    getEnv("RABBITMQ_URL", ""),
			EventsExchange:         getEnv("LOYALTY_EVENTS_EXCHANGE", "loyalty.events"),
			RegistrationExchange:   getEnv("USER_EVENTS_EXCHANGE", "users.events"),
			RegistrationQueue:      getEnv("USER_CREATED_QUEUE", "loyalty.user_created"),
			RegistrationRoutingKey: getEnv("USER_CREATED_ROUTING_KEY", "user.created"),
		},
		Outbox: OutboxConfig{
			FlushSchedule: getEnv("OUTBOX_FLUSH_SCHEDULE", "@every 2s"),
			PruneSchedule: getEnv("OUTBOX_PRUNE_SCHEDULE", "@hourly"),
			BatchSize:     getEnvAsInt("OUTBOX_BATCH_SIZE", 50),
			StaleAfter:    getEnvAsDuration("OUTBOX_STALE_AFTER", "2m"),
			Retention:     getEnvAsDuration("OUTBOX_RETENTION", "168h"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	switch c.Database.Driver {
	case StorageDriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host cannot be empty")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name cannot be empty")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("invalid storage driver: %s (must be postgres or memory)", c.Database.Driver)
	}

	if !(c.Loyalty.PremiumBonus >= 1 && c.Loyalty.PremiumBonus <= maxPremiumBonus) {
		return fmt.Errorf("premium bonus must be between 1 and %g, got %f", maxPremiumBonus, c.Loyalty.PremiumBonus)
	}
	if c.Loyalty.UnitsPerPoint <= 0 {
		return fmt.Errorf("units per point must be positive, got %d", c.Loyalty.UnitsPerPoint)
	}
	if c.Loyalty.MaxRedeemShare < 0 || c.Loyalty.MaxRedeemShare > 1 {
		return fmt.Errorf("max redeem share must be between 0 and 1, got %f", c.Loyalty.MaxRedeemShare)
	}
	if c.Loyalty.CardNumberAttempts < 1 {
		return fmt.Errorf("card number attempts must be at least 1")
	}

	if c.Outbox.BatchSize < 1 {
		return fmt.Errorf("outbox batch size must be at least 1")
	}
	if c.Broker.URL != "" && c.Broker.EventsExchange == "" {
		return fmt.Errorf("events exchange cannot be empty when the broker is enabled")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to parsing the default if provided value is invalid
		duration, err = time.ParseDuration(defaultValue)
		if err != nil {
			return 0
		}
	}
	return duration
}
