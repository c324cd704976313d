package config

import (
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsProd() {
		t.Fatalf("expected prod app env, got %q", cfg.App.Env)
	}
	if cfg.Stripe.Environment() != "test" {
		t.Fatalf("unexpected stripe env %q", cfg.Stripe.Environment())
	}
	if cfg.Mongo.Database != "tutorloop_test" {
		t.Fatalf("unexpected mongo database %q", cfg.Mongo.Database)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected redis url %q", cfg.Redis.URL)
	}
	if got := cfg.Redis.SessionTTL; got != 72*time.Hour {
		t.Fatalf("expected default session ttl 72h, got %v", got)
	}
	if got := cfg.Redis.CheckoutGuardTTL; got != 2*time.Minute {
		t.Fatalf("expected default checkout guard ttl 2m, got %v", got)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv("TUTORLOOP_STRIPE_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing stripe api key to return an error")
	}
}

func TestMongoConfigValidate(t *testing.T) {
	cfg := MongoConfig{URI: "mongodb://localhost:27017", Database: "tutorloop"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := (MongoConfig{Database: "tutorloop"}).Validate(); err == nil {
		t.Fatal("expected error for empty uri")
	}
	if err := (MongoConfig{URI: "mongodb://localhost:27017"}).Validate(); err == nil {
		t.Fatal("expected error for empty database")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv("TUTORLOOP_APP_ENV", "prod")
	t.Setenv("TUTORLOOP_STRIPE_API_KEY", "sk_test_123")
	t.Setenv("TUTORLOOP_STRIPE_ENV", "test")
	t.Setenv("TUTORLOOP_MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("TUTORLOOP_MONGO_DATABASE", "tutorloop_test")
	t.Setenv("TUTORLOOP_REDIS_URL", "redis://localhost:6379/0")
}
