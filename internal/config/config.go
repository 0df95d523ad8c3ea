package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMissingMongoURL is returned by Validate when no database URL is set.
	ErrMissingMongoURL = errors.New("config: MONGODB_URL not set")
	// ErrAuthWithoutSecret means REQUIRE_AUTH is on but sessions cannot be signed.
	ErrAuthWithoutSecret = errors.New("config: REQUIRE_AUTH needs SESSION_SECRET")
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	// MongoDB
	MongoURL              string
	DBName                string
	ContactsCollection    string
	CredentialsCollection string
	MongoConnectTimeout   time.Duration

	// HTTP surface
	FrontendDir        string
	CORSAllowedOrigins []string
	MetricsEnabled     bool
	ShutdownTimeout    time.Duration
	FormMaxMemoryMB    int

	// Login sessions
	SessionSecret string
	SessionTTL    time.Duration
	RequireAuth   bool

	// Export archival to S3
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	ExportArchiveBucket string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MongoURL:              getEnv("MONGODB_URL", ""),
		DBName:                getEnv("DB_NAME", "CRM"),
		ContactsCollection:    getEnv("CONTACTS_COLLECTION", "crm_data"),
		CredentialsCollection: getEnv("CREDENTIALS_COLLECTION", "users"),
		MongoConnectTimeout:   getEnvAsDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),

		FrontendDir:        getEnv("FRONTEND_DIR", "frontend"),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MetricsEnabled:     getEnvAsBool("METRICS_ENABLED", true),
		ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		FormMaxMemoryMB:    getEnvAsInt("FORM_MAX_MEMORY_MB", 10),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 12*time.Hour),
		RequireAuth:   getEnvAsBool("REQUIRE_AUTH", false),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		ExportArchiveBucket: getEnv("EXPORT_ARCHIVE_BUCKET", ""),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.MongoURL) == "" {
		return ErrMissingMongoURL
	}
	if c.RequireAuth && c.SessionSecret == "" {
		return ErrAuthWithoutSecret
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blank entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
