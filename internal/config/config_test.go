package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "LLM_PROVIDER", "OPENAI_MODEL", "RECORD_STORE", "SESSION_STORE", "CORS_ALLOWED_ORIGINS", "SMTP_PORT"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8000" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.LLMProvider != "openai" || cfg.OpenAIModel != "gpt-4" {
		t.Fatalf("expected openai gpt-4 defaults, got %s %s", cfg.LLMProvider, cfg.OpenAIModel)
	}
	if cfg.RecordStore != "xlsx" || cfg.AppointmentsFolder != "appointments_data" {
		t.Fatalf("expected xlsx record store defaults, got %s %s", cfg.RecordStore, cfg.AppointmentsFolder)
	}
	if cfg.SessionStore != "memory" {
		t.Fatalf("expected memory session store, got %s", cfg.SessionStore)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("expected wildcard CORS default, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.SMTPPort != 587 {
		t.Fatalf("expected smtp port 587, got %d", cfg.SMTPPort)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected 24h session ttl, got %s", cfg.SessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "Bedrock")
	t.Setenv("LLM_FALLBACK_PROVIDER", "openai")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("RECORD_STORE", "postgres")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("EXTRA_DEPARTMENTS", "neurology,dermatology")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("GMAIL_ADDRESS", "bot@example.com")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.LLMProvider != "bedrock" || cfg.LLMFallbackProvider != "openai" {
		t.Fatalf("expected lower-cased providers, got %s/%s", cfg.LLMProvider, cfg.LLMFallbackProvider)
	}
	if cfg.SessionStore != "redis" || cfg.SessionTTL != 2*time.Hour || !cfg.RedisTLS {
		t.Fatalf("unexpected session config: %+v", cfg)
	}
	if cfg.RecordStore != "postgres" {
		t.Fatalf("expected postgres record store, got %s", cfg.RecordStore)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowedOrigins)
	}
	if len(cfg.ExtraDepartments) != 2 {
		t.Fatalf("unexpected extra departments: %v", cfg.ExtraDepartments)
	}
	if cfg.RateLimitRPS != 0.5 {
		t.Fatalf("expected rate override, got %v", cfg.RateLimitRPS)
	}
	if cfg.SenderEmail != "bot@example.com" {
		t.Fatalf("expected sender override, got %s", cfg.SenderEmail)
	}
}
