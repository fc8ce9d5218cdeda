package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string

	// Sanity
	SanityProjectID     string
	SanityDataset       string
	SanityAPIToken      string
	SanityAPIVersion    string
	SanityUseCDN        bool
	SanityWebhookSecret string

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	// Notification channels
	SalesFrom       string
	SalesTo         []string
	FulfillmentFrom string
	FulfillmentTo   []string
	ReplyTo         []string

	// Order rendering
	OrderTimezone string

	// Upstream API calls
	ExternalTimeout time.Duration

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "commerce_sync"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),

		SanityProjectID:     getEnv("SANITY_PROJECT_ID", ""),
		SanityDataset:       getEnv("SANITY_DATASET", "production"),
		SanityAPIToken:      getEnv("SANITY_API_TOKEN", ""),
		SanityAPIVersion:    getEnv("SANITY_API_VERSION", "2024-08-14"),
		SanityUseCDN:        getEnv("SANITY_USE_CDN", "false") == "true",
		SanityWebhookSecret: getEnv("SANITY_WEBHOOK_SECRET", ""),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     parseInt(getEnv("SMTP_PORT", "587"), 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SalesFrom:       getEnv("SALES_FROM", "Sales <sales@breakfastfordinner.ca>"),
		SalesTo:         splitList(getEnv("SALES_TO", "")),
		FulfillmentFrom: getEnv("FULFILLMENT_FROM", "New Order <orders@breakfastfordinner.ca>"),
		FulfillmentTo:   splitList(getEnv("FULFILLMENT_TO", "")),
		ReplyTo:         splitList(getEnv("REPLY_TO", "support@breakfastfordinner.ca")),

		OrderTimezone: getEnv("ORDER_TIMEZONE", "America/Vancouver"),

		ExternalTimeout: parseDuration(getEnv("EXTERNAL_TIMEOUT", "10s")),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// splitList parses a comma-separated recipient list, dropping empty entries.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
