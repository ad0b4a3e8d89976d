// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// Server
	Debug      bool
	Port       string
	TLSDomains []string

	// Uploaded game/score images are written below UploadDir and served
	// from /uploads.
	UploadDir   string
	MaxUploadMB int

	// MySQL – used only by cmd/migrate to import the legacy score database.
	MySQLDSN string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_USER", "arcade")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "leaderboard")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("TLS_DOMAINS", "")
	v.SetDefault("DEBUG", false)
	v.SetDefault("UPLOAD_DIR", "public/uploads")
	v.SetDefault("MAX_UPLOAD_MB", 8)

	cfg := &Config{
		DatabaseURL: v.GetString("DATABASE_URL"),
		DBUser:      v.GetString("DB_USER"),
		DBPass:      v.GetString("DB_PASS"),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSLMODE"),
		Debug:       v.GetBool("DEBUG"),
		Port:        v.GetString("PORT"),
		TLSDomains:  splitTrimmed(v.GetString("TLS_DOMAINS")),
		UploadDir:   v.GetString("UPLOAD_DIR"),
		MaxUploadMB: v.GetInt("MAX_UPLOAD_MB"),
		MySQLDSN:    v.GetString("MYSQL_DSN"),
	}

	cfg.validate()
	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

func (c *Config) validate() {
	if c.DatabaseURL == "" && c.DBPass == "" {
		log.Fatal("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.MaxUploadMB <= 0 {
		log.Fatal("config: MAX_UPLOAD_MB must be positive")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
