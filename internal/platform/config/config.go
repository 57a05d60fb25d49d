// Package config builds service configuration from environment variables so
// main stays lean. Every knob has a development-friendly default; production
// deployments override via the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config aggregates all service configuration.
type Config struct {
	Server   Server
	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
	Captcha  Captcha
	Email    Email
	CRM      CRM
	Reset    Reset
	Dojo     Dojo
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
}

// Postgres captures the database connection. Empty URL means the service
// runs on in-memory stores (development and tests).
type Postgres struct {
	URL string
}

// Redis configures the resolved-view cache. Empty URL disables caching.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	ViewTTL      time.Duration
}

// Kafka configures the CRM sync sink. Empty brokers disables CRM sync.
type Kafka struct {
	Brokers  []string
	CRMTopic string
}

// Captcha configures the reCAPTCHA verification call.
type Captcha struct {
	VerifyURL string
	Secret    string
}

// Email configures outbound notification delivery.
type Email struct {
	SendEmail  bool
	ServiceURL string
}

// CRM enables the Salesforce sync side effect for champion registrations.
type CRM struct {
	Enabled     bool
	PlatformURL string
}

// Reset bounds the validity window of password reset tokens.
type Reset struct {
	Period time.Duration
}

// Dojo locates the dojo service. Empty URL means the in-process memory
// implementation is used (development and tests).
type Dojo struct {
	ServiceURL string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:          getEnv("DOJOHUB_ADDR", ":8080"),
			JWTSigningKey: getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		},
		Postgres: Postgres{
			URL: os.Getenv("POSTGRES_URL"),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			ViewTTL:      getEnvDuration("PROFILE_VIEW_TTL", time.Minute),
		},
		Kafka: Kafka{
			Brokers:  splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			CRMTopic: getEnv("KAFKA_CRM_TOPIC", "dojohub.crm-sync"),
		},
		Captcha: Captcha{
			VerifyURL: getEnv("RECAPTCHA_VERIFY_URL", "https://www.google.com/recaptcha/api/siteverify"),
			Secret:    os.Getenv("RECAPTCHA_SECRET_KEY"),
		},
		Email: Email{
			SendEmail:  os.Getenv("EMAIL_NOTIFICATIONS") == "true",
			ServiceURL: os.Getenv("EMAIL_SERVICE_URL"),
		},
		CRM: CRM{
			Enabled:     os.Getenv("SALESFORCE_ENABLED") == "true",
			PlatformURL: getEnv("PLATFORM_URL", "https://zen.coderdojo.com"),
		},
		Reset: Reset{
			Period: getEnvDuration("RESET_PERIOD", 24*time.Hour),
		},
		Dojo: Dojo{
			ServiceURL: os.Getenv("DOJO_SERVICE_URL"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			if part := v[start:i]; part != "" {
				out = append(out, part)
			}
			start = i + 1
		}
	}
	return out
}
