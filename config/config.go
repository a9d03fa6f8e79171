package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"ledger/database"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseDriver string // "postgres" or "sqlite"
	DatabaseURL    string
	DatabaseName   string // Optional: overrides the database name in DatabaseURL
	SQLitePath     string

	// HTTP server
	HTTPAddr string

	// Salt mixed into every credential hash
	CredentialPepper string

	// Discord configuration, the bot is disabled without a token
	DiscordToken   string
	DiscordGuildID string

	// External event sink
	EventSink    string // "none", "nats" or "kafka"
	NATSServers  string
	KafkaBrokers string
	KafkaTopic   string

	LogLevel    string
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// MigrationDSN returns what the migrate command needs for the configured driver
func (c *Config) MigrationDSN() string {
	if c.DatabaseDriver == database.DriverSQLite {
		return c.SQLitePath
	}
	return c.GetDatabaseURL()
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// load loads configuration from a .env file, if any, and the environment
func load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	config := &Config{
		DatabaseDriver: strings.ToLower(getEnvWithDefault("DATABASE_DRIVER", database.DriverPostgres)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseName:   os.Getenv("DATABASE_NAME"),
		SQLitePath:     getEnvWithDefault("SQLITE_PATH", "ledger.db"),

		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":5000"),

		CredentialPepper: os.Getenv("CREDENTIAL_PEPPER"),

		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		EventSink:    strings.ToLower(getEnvWithDefault("EVENT_SINK", "none")),
		NATSServers:  os.Getenv("NATS_SERVERS"),
		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   os.Getenv("KAFKA_TOPIC"),

		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the settings needed by the selected driver are present
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case database.DriverPostgres:
		if c.DatabaseURL == "" && c.Environment != "test" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		// If DatabaseName is provided, ensure it's not empty
		if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
			return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	case database.DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.IsProduction() && c.CredentialPepper == "" {
		return fmt.Errorf("CREDENTIAL_PEPPER is required in production")
	}

	return nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		DatabaseDriver:   database.DriverSQLite,
		SQLitePath:       "ledger_test.db",
		HTTPAddr:         ":0",
		CredentialPepper: "test-pepper",
		EventSink:        "none",
		LogLevel:         "debug",
		Environment:      "test",
	}
}
