package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "TUTORLOOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App    AppConfig
	Stripe StripeConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Mongo.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TUTORLOOP_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"TUTORLOOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TUTORLOOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StripeConfig struct {
	APIKey string `envconfig:"TUTORLOOP_STRIPE_API_KEY" required:"true"`
	Env    string `envconfig:"TUTORLOOP_STRIPE_ENV" default:"test"`
}

// Environment reports the configured Stripe environment name.
func (s StripeConfig) Environment() string {
	return strings.TrimSpace(strings.ToLower(s.Env))
}

type MongoConfig struct {
	URI      string `envconfig:"TUTORLOOP_MONGO_URI" default:"mongodb://localhost:27017"`
	Database string `envconfig:"TUTORLOOP_MONGO_DATABASE" default:"tutorloop"`

	ConnectTimeout time.Duration `envconfig:"TUTORLOOP_MONGO_CONNECT_TIMEOUT" default:"10s"`
	MaxPoolSize    uint64        `envconfig:"TUTORLOOP_MONGO_MAX_POOL_SIZE" default:"20"`
}

func (m MongoConfig) Validate() error {
	if strings.TrimSpace(m.URI) == "" {
		return fmt.Errorf("mongo uri is required")
	}
	if strings.TrimSpace(m.Database) == "" {
		return fmt.Errorf("mongo database is required")
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"TUTORLOOP_REDIS_URL"`
	Address      string        `envconfig:"TUTORLOOP_REDIS_ADDR"`
	Password     string        `envconfig:"TUTORLOOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"TUTORLOOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TUTORLOOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TUTORLOOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TUTORLOOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TUTORLOOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TUTORLOOP_REDIS_WRITE_TIMEOUT" default:"5s"`

	// SessionTTL bounds how long an idle session cart survives.
	SessionTTL time.Duration `envconfig:"TUTORLOOP_REDIS_SESSION_TTL" default:"72h"`

	// CheckoutGuardTTL bounds how long a session's checkout claim survives
	// if the attempt dies without releasing it.
	CheckoutGuardTTL time.Duration `envconfig:"TUTORLOOP_REDIS_CHECKOUT_GUARD_TTL" default:"2m"`
}
