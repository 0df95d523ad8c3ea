package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("MONGODB_URL", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("REQUIRE_AUTH", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.DBName != "CRM" {
		t.Fatalf("expected default db name CRM, got %s", cfg.DBName)
	}
	if cfg.ContactsCollection != "crm_data" || cfg.CredentialsCollection != "users" {
		t.Fatalf("unexpected collections %s/%s", cfg.ContactsCollection, cfg.CredentialsCollection)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard CORS default, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.RequireAuth {
		t.Fatalf("expected auth guard disabled by default")
	}
	if !errors.Is(cfg.Validate(), ErrMissingMongoURL) {
		t.Fatalf("expected missing mongo url error")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")
	t.Setenv("DB_NAME", "crm_test")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("REQUIRE_AUTH", "true")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("EXPORT_ARCHIVE_BUCKET", "crm-exports")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected env override, got %s", cfg.Env)
	}
	if cfg.DBName != "crm_test" {
		t.Fatalf("expected db override, got %s", cfg.DBName)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("expected two origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if !cfg.RequireAuth {
		t.Fatalf("expected auth guard enabled")
	}
	if cfg.MetricsEnabled {
		t.Fatalf("expected metrics disabled")
	}
	if cfg.ExportArchiveBucket != "crm-exports" {
		t.Fatalf("expected bucket override, got %s", cfg.ExportArchiveBucket)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MONGO_CONNECT_TIMEOUT", "soon")
	t.Setenv("REQUIRE_AUTH", "maybe")
	cfg := Load()
	if cfg.MongoConnectTimeout != 10*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.MongoConnectTimeout)
	}
	if cfg.RequireAuth {
		t.Fatalf("expected unparsable bool to fall back to false")
	}
	t.Setenv("FORM_MAX_MEMORY_MB", "32")
	if got := Load().FormMaxMemoryMB; got != 32 {
		t.Fatalf("expected form memory override, got %d", got)
	}
}

func TestValidateRequireAuthNeedsSecret(t *testing.T) {
	cfg := &Config{MongoURL: "mongodb://localhost", RequireAuth: true}
	if !errors.Is(cfg.Validate(), ErrAuthWithoutSecret) {
		t.Fatalf("expected auth without secret error")
	}
	cfg.SessionSecret = "x"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
