package config

import (
	"os"
	"strconv"
	"time"

	"eventify/internal/database"
	"eventify/internal/external"
	"eventify/internal/messaging"

	"github.com/joho/godotenv"
)

// Config holds the full application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	JWTSecret string

	Database    database.Config
	NATS        messaging.Config
	Settlement  external.SettlementConfig
	Suggestions external.SuggestionConfig

	Elasticsearch ElasticsearchConfig
	Redis         RedisConfig
}

// ElasticsearchConfig configures the optional vendor search index
type ElasticsearchConfig struct {
	Enabled    bool
	URL        string
	Username   string
	Password   string
	Index      string
	MaxRetries int
}

// RedisConfig configures the optional listing cache
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "eventify"),
			Password:           getEnv("DB_PASSWORD", "eventify123"),
			DBName:             getEnv("DB_NAME", "eventify"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "eventify"),
			ClientID:  getEnv("NATS_CLIENT_ID", "eventify-api"),
		},

		Settlement: external.SettlementConfig{
			BaseURL:       getEnv("SETTLEMENT_GATEWAY_URL", "https://api.stripe.example"),
			SecretKey:     getEnv("SETTLEMENT_SECRET_KEY", ""),
			WebhookSecret: getEnv("SETTLEMENT_WEBHOOK_SECRET", ""),
			Timeout:       time.Duration(getEnvInt("SETTLEMENT_TIMEOUT_SEC", 30)) * time.Second,
		},

		Suggestions: external.SuggestionConfig{
			BaseURL: getEnv("SUGGESTION_SERVICE_URL", ""),
			APIKey:  getEnv("SUGGESTION_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("SUGGESTION_TIMEOUT_SEC", 10)) * time.Second,
		},

		Elasticsearch: ElasticsearchConfig{
			Enabled:    getEnv("ELASTICSEARCH_ENABLED", "false") == "true",
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:      getEnv("ELASTICSEARCH_INDEX", "vendors"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},

		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ENABLED", "false") == "true",
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
