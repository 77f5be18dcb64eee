package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	JWT      JWTConfig
	LLM      LLMConfig
	Cache    CacheConfig
	Events   EventsConfig
	Insight  InsightConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StoreConfig selects the backing store. Driver is one of postgres, sqlite or memory.
type StoreConfig struct {
	Driver        string
	SQLitePath    string
	MigrateOnBoot bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the libpq style connection string used by pgxpool.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// MigrateURL returns the pgx5:// URL understood by golang-migrate.
func (c DatabaseConfig) MigrateURL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	RefreshExp time.Duration
}

// LLMConfig configures the text generation provider used for suggestions.
type LLMConfig struct {
	Provider           string
	APIKey             string
	Scope              string
	Model              string
	BaseURL            string
	Temperature        float64
	Timeout            time.Duration
	InsecureSkipVerify bool
}

type CacheConfig struct {
	Enabled     bool
	TTL         time.Duration
	NumCounters int64
	MaxCost     int64
}

// EventsConfig configures the AMQP publisher. An empty URL disables publishing.
type EventsConfig struct {
	AMQPURL  string
	Exchange string
}

type InsightConfig struct {
	RecentTransactions int
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work the same way
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	refreshExp, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168"))
	temperature, err := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.3"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
	}
	llmTimeout, err := time.ParseDuration(getEnv("LLM_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	numCounters, _ := strconv.ParseInt(getEnv("CACHE_NUM_COUNTERS", "10000"), 10, 64)
	maxCost, _ := strconv.ParseInt(getEnv("CACHE_MAX_COST", "10000"), 10, 64)
	recent, _ := strconv.Atoi(getEnv("INSIGHT_RECENT_TRANSACTIONS", "20"))

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
			SQLitePath:    getEnv("SQLITE_PATH", "./data/ledger.db"),
			MigrateOnBoot: getEnv("STORE_MIGRATE_ON_BOOT", "true") == "true",
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "fin_ledger"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
			RefreshExp: time.Duration(refreshExp) * time.Hour,
		},
		LLM: LLMConfig{
			Provider:           strings.ToLower(getEnv("LLM_PROVIDER", "gigachat")),
			APIKey:             getEnv("LLM_API_KEY", ""),
			Scope:              getEnv("LLM_SCOPE", "GIGACHAT_API_PERS"),
			Model:              getEnv("LLM_MODEL", ""),
			BaseURL:            getEnv("LLM_BASE_URL", ""),
			Temperature:        temperature,
			Timeout:            llmTimeout,
			InsecureSkipVerify: getEnv("LLM_INSECURE_SKIP_VERIFY", "false") == "true",
		},
		Cache: CacheConfig{
			Enabled:     getEnv("CACHE_ENABLED", "true") == "true",
			TTL:         cacheTTL,
			NumCounters: numCounters,
			MaxCost:     maxCost,
		},
		Events: EventsConfig{
			AMQPURL:  getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "fin-ledger"),
		},
		Insight: InsightConfig{
			RecentTransactions: recent,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.Store.Driver {
	case "postgres", "sqlite", "memory":
	default:
		problems = append(problems, fmt.Sprintf("unknown STORE_DRIVER %q", c.Store.Driver))
	}
	switch c.LLM.Provider {
	case "gigachat", "openai":
	default:
		problems = append(problems, fmt.Sprintf("unknown LLM_PROVIDER %q", c.LLM.Provider))
	}
	if c.LLM.Timeout <= 0 {
		problems = append(problems, "LLM_TIMEOUT must be positive")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		problems = append(problems, "CACHE_TTL must be positive when the cache is enabled")
	}
	if c.Insight.RecentTransactions < 0 {
		problems = append(problems, "INSIGHT_RECENT_TRANSACTIONS must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
