package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath    string
	Port            string
	BaseURL         string
	Environment     string
	AllowedOrigins  string
	SessionDuration time.Duration

	MailgunDomain      string
	MailgunAPIKey      string
	MailgunSenderEmail string
	MailgunSenderName  string
}

func Load() *Config {
	// A missing .env is fine, plain environment variables still apply
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:    getEnv("DATABASE_PATH", "giftlist.db"),
		Port:            getEnv("PORT", "8080"),
		BaseURL:         getEnv("BASE_URL", "http://localhost:8080"),
		Environment:     getEnv("ENVIRONMENT", "production"),
		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", ""),
		SessionDuration: getDurationEnv("SESSION_DURATION", 720*time.Hour),

		MailgunDomain:      getEnv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey:      getEnv("MAILGUN_API_KEY", ""),
		MailgunSenderEmail: getEnv("MAILGUN_SENDER_EMAIL", "no-reply@giftlist.local"),
		MailgunSenderName:  getEnv("MAILGUN_SENDER_NAME", "Giftlist"),
	}
	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
