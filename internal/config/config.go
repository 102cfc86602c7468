package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all process-wide settings. It is loaded once at startup and
// handed to the components that need it; nothing reads the environment after
// that point.
type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	FrontendURL string

	// Shared admin password. When AdminPasswordHash is set it takes
	// precedence and is compared with bcrypt.
	AdminPassword     string
	AdminPasswordHash string

	// UniDoc metered license key; PDF output fails without one.
	UnidocLicenseKey string

	SMTP SMTPConfig
}

// SMTPConfig configures the notification transport.
type SMTPConfig struct {
	Host               string
	Port               int
	Username           string
	Password           string
	From               string
	UseTLS             bool
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
	SendTimeout        time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:            getEnv("DB_NAME", "employee-evaluation"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:3000"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		UnidocLicenseKey:  os.Getenv("UNIDOC_LICENSE_API_KEY"),
		SMTP: SMTPConfig{
			Host:               os.Getenv("SMTP_HOST"),
			Port:               getEnvInt("SMTP_PORT", 465),
			Username:           os.Getenv("SMTP_USERNAME"),
			Password:           os.Getenv("SMTP_PASSWORD"),
			From:               getEnv("SMTP_FROM", "notifications@uipafrica.com"),
			UseTLS:             getEnvBool("SMTP_TLS", true),
			InsecureSkipVerify: getEnvBool("SMTP_INSECURE_SKIP_VERIFY", false),
			ConnectTimeout:     getEnvDuration("SMTP_CONNECT_TIMEOUT", 10*time.Second),
			SendTimeout:        getEnvDuration("SMTP_SEND_TIMEOUT", 30*time.Second),
		},
	}

	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}

	return cfg, nil
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

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
