// Package config reads server settings from the environment. A .env file
// in the working directory is loaded first when present.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBackendURL is the hosted content API.
const DefaultBackendURL = "https://gp-backend-ddgp.onrender.com/api"

type Config struct {
	Addr      string
	Env       string
	PublicURL string

	BackendURL     string
	BackendTimeout time.Duration

	SessionSecret string
	CSRFKey       []byte
	AuthRequired  bool
	AdminEmails   []string

	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string

	DatabaseURL string

	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSPublicKey  string
	EmailJSPrivateKey string

	ContentDir         string
	RateLimitPerMinute int

	LogLevel  string
	LogFormat string
}

// IsProduction reports whether ENV=production. Cookies are Secure and
// CSRF checks the Referer only in production.
func (c Config) IsProduction() bool { return c.Env == "production" }

// Load reads the environment (after .env) into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(lookup func(string) string) (Config, error) {
	getenv := func(k, def string) string {
		if v := strings.TrimSpace(lookup(k)); v != "" {
			return v
		}
		return def
	}

	c := Config{
		Addr:               getenv("ADDR", ":8080"),
		Env:                getenv("ENV", "development"),
		PublicURL:          strings.TrimRight(getenv("PUBLIC_URL", "http://localhost:8080"), "/"),
		BackendURL:         strings.TrimRight(getenv("BACKEND_URL", DefaultBackendURL), "/"),
		SessionSecret:      getenv("SESSION_SECRET", ""),
		AuthRequired:       getenv("AUTH_REQUIRED", "true") != "false",
		AdminEmails:        splitCSV(getenv("ADMIN_EMAILS", "")),
		GoogleClientID:     getenv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getenv("GOOGLE_CLIENT_SECRET", ""),
		GitHubClientID:     getenv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getenv("GITHUB_CLIENT_SECRET", ""),
		DatabaseURL:        getenv("DATABASE_URL", ""),
		EmailJSServiceID:   getenv("EMAILJS_SERVICE_ID", ""),
		EmailJSTemplateID:  getenv("EMAILJS_TEMPLATE_ID", ""),
		EmailJSPublicKey:   getenv("EMAILJS_PUBLIC_KEY", ""),
		EmailJSPrivateKey:  getenv("EMAILJS_PRIVATE_KEY", ""),
		ContentDir:         getenv("CONTENT_DIR", ""),
		LogLevel:           getenv("LOG_LEVEL", "INFO"),
		LogFormat:          getenv("LOG_FORMAT", "json"),
	}

	var err error
	if c.BackendTimeout, err = time.ParseDuration(getenv("BACKEND_TIMEOUT", "15s")); err != nil {
		return Config{}, fmt.Errorf("BACKEND_TIMEOUT: %w", err)
	}
	if c.RateLimitPerMinute, err = strconv.Atoi(getenv("RATE_LIMIT_PER_MINUTE", "10")); err != nil {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_MINUTE: %w", err)
	}
	if c.RateLimitPerMinute < 1 {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be at least 1, got %d", c.RateLimitPerMinute)
	}

	if c.CSRFKey, err = csrfKey(getenv("CSRF_KEY", ""), c.SessionSecret); err != nil {
		return Config{}, err
	}
	if c.IsProduction() && c.AuthRequired && c.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET is required in production")
	}
	return c, nil
}

// csrfKey decodes a 64-hex CSRF_KEY. Without one, the key is the SHA-256
// of the session secret, or of a fixed development seed.
func csrfKey(hexKey, sessionSecret string) ([]byte, error) {
	if hexKey != "" {
		key, err := hex.DecodeString(hexKey)
		if err != nil || len(key) != 32 {
			return nil, errors.New("CSRF_KEY must be 64 hex characters")
		}
		return key, nil
	}
	seed := sessionSecret
	if seed == "" {
		seed = "dev-secret-change-in-production-32bytes"
	}
	sum := sha256.Sum256([]byte(seed))
	return sum[:], nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.ToLower(strings.TrimSpace(p)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
