package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppHost  string
	HTTPPort string
	AppEnv   string
	LogLevel string

	// ModelDir holds the classification artifact blobs (vectorizer.gob,
	// forest.gob, labels.gob). If loading fails the service starts in
	// degraded mode: every complaint routes to manual triage.
	ModelDir string

	// ConfidenceThreshold flags predictions below it for manual review.
	ConfidenceThreshold float64

	// Priority formula tunables. Zero values fall back to the shipped
	// defaults in the lifecycle package.
	PriorityDecayPerDay    float64
	PrioritySeverityWeight float64

	// SearchServiceURL — when set, complaints are pushed to the search
	// service for full-text indexing (POST /search/index/complaint).
	SearchServiceURL string

	KafkaBrokers        []string
	KafkaTopicComplaint string

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Database string
		SSLMode  string
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg := &Config{
		AppHost:                getEnv("APP_HOST", "0.0.0.0"),
		HTTPPort:               firstEnv("APP_PORT", "HTTP_PORT", "8093"),
		AppEnv:                 getEnv("APP_ENV", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		ModelDir:               getEnv("MODEL_DIR", "model"),
		ConfidenceThreshold:    getEnvFloat("CONFIDENCE_THRESHOLD", 0.5),
		PriorityDecayPerDay:    getEnvFloat("PRIORITY_DECAY_PER_DAY", 0),
		PrioritySeverityWeight: getEnvFloat("PRIORITY_SEVERITY_WEIGHT", 0),
		SearchServiceURL:       getEnv("SEARCH_SERVICE_URL", ""),
		KafkaBrokers:           splitBrokers(getEnv("KAFKA_BROKERS", "")),
		KafkaTopicComplaint:    getEnv("KAFKA_TOPIC_COMPLAINT", ""),
	}
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.Database = getEnv("DB_DATABASE", "complaint_service")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DB.Host == "" || c.DB.Database == "" {
		return errors.New("config: DB_HOST and DB_DATABASE are required")
	}
	if c.AppEnv == "production" && c.DB.Password == "" {
		return errors.New("config: in production DB_PASSWORD is required")
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return errors.New("config: CONFIDENCE_THRESHOLD must be within [0, 1]")
	}
	return nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) DatabaseURL() string {
	pass := url.QueryEscape(c.DB.Password)
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, pass, c.DB.Host, c.DB.Port, c.DB.Database, c.DB.SSLMode)
}

func (c *Config) Addr() string {
	return c.AppHost + ":" + c.HTTPPort
}

func splitBrokers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func firstEnv(keysAndDef ...string) string {
	if len(keysAndDef) == 0 {
		return ""
	}
	def := keysAndDef[len(keysAndDef)-1]
	for _, k := range keysAndDef[:len(keysAndDef)-1] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
