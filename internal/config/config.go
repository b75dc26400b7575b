// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime settings. Required variables are enforced by
// must(); optional ones fall back to empty values and the owning component
// degrades (mail delivery, queue publishing, response caching).
type Config struct {
	Env               string // application environment (dev/test/prod)
	Port              string // HTTP port to listen on
	DBUser            string // database username
	DBPass            string // database password (optional)
	DBHost            string // database host
	DBPort            string // database port
	DBName            string // database name
	JWTSecret         string // secret used to sign access tokens
	AccessTTLMin      int    // access token time-to-live in minutes
	BcryptCost        int    // bcrypt cost for password hashing
	Origin            string // public base URL used in verification/reset links
	VerifyRedirectURL string // where verify/reset endpoints redirect on success
	ResendAPIKey      string // Resend API key; empty disables mail delivery
	ResendFrom        string // sender address for outgoing mail
}

// Load reads configuration from the environment. Missing required variables
// abort startup with a fatal log message.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		JWTSecret:         must("JWT_SECRET"),
		AccessTTLMin:      mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:        mustInt("BCRYPT_COST"),
		Origin:            must("ORIGIN"),
		VerifyRedirectURL: must("VERIFY_REDIRECT_URL"),
		ResendAPIKey:      os.Getenv("RESEND_API_KEY"),
		ResendFrom:        os.Getenv("RESEND_FROM_EMAIL"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but parses the value as an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
