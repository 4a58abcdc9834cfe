// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Credential is one injected login account for the portal's stand-in
// authentication. PasswordHash is a bcrypt hash.
type Credential struct {
	Username     string
	PasswordHash string
	Role         string
	UserID       string
}

// Config holds all application configuration for both binaries.
type Config struct {
	Port            string
	FrontendURL     string
	LabServiceURL   string
	HandoffTTL      time.Duration
	TouchWindow     time.Duration
	JanitorInterval time.Duration
	DefaultLabID    string
	Credentials     []Credential

	// Lab service settings.
	ServicePort    string
	DBPath         string
	SeedPath       string
	RateLimitRPS   int
	RateLimitBurst int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	creds, err := parseCredentials(getEnv("PORTAL_USERS", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid PORTAL_USERS: %w", err)
	}
	if len(creds) == 0 {
		creds, err = devCredentials()
		if err != nil {
			return nil, fmt.Errorf("build development credentials: %w", err)
		}
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", ""),
		LabServiceURL:   getEnv("LAB_SERVICE_URL", "http://localhost:8090"),
		HandoffTTL:      getEnvDuration("HANDOFF_TTL", 20*time.Minute),
		TouchWindow:     getEnvDuration("TOUCH_WINDOW", 10*time.Minute),
		JanitorInterval: getEnvDuration("CACHE_JANITOR_INTERVAL", 5*time.Minute),
		DefaultLabID:    getEnv("DEFAULT_LAB_ID", ""),
		Credentials:     creds,
		ServicePort:     getEnv("SERVICE_PORT", "8090"),
		DBPath:          getEnv("DB_PATH", "./data/cyberlab.db"),
		SeedPath:        getEnv("SEED_PATH", ""),
		RateLimitRPS:    getEnvInt("RATE_LIMIT_RPS", 20),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 40),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.ServicePort == "" {
		return fmt.Errorf("SERVICE_PORT cannot be empty")
	}
	if c.LabServiceURL == "" {
		return fmt.Errorf("LAB_SERVICE_URL cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.HandoffTTL <= 0 {
		return fmt.Errorf("HANDOFF_TTL must be positive")
	}
	if c.TouchWindow <= 0 {
		return fmt.Errorf("TOUCH_WINDOW must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// parseCredentials reads "username:bcryptHash:role:userID" entries
// separated by commas.
func parseCredentials(raw string) ([]Credential, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var creds []Credential
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 4)
		if len(parts) != 4 {
			return nil, fmt.Errorf("entry %q must have 4 colon-separated fields", entry)
		}
		creds = append(creds, Credential{
			Username:     parts[0],
			PasswordHash: parts[1],
			Role:         parts[2],
			UserID:       parts[3],
		})
	}
	return creds, nil
}

// devCredentials builds the two stand-in accounts used when no real
// accounts are injected. The passwords mirror the demo logins the
// portal shipped with; hashes are generated at startup so no plaintext
// is carried past load time.
func devCredentials() ([]Credential, error) {
	accounts := []struct {
		username, password, role, userID string
	}{
		{"Ttest", "T", "teacher", "1"},
		{"Stest", "S", "student", "2"},
	}
	creds := make([]Credential, 0, len(accounts))
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", a.username, err)
		}
		creds = append(creds, Credential{
			Username:     a.username,
			PasswordHash: string(hash),
			Role:         a.role,
			UserID:       a.userID,
		})
	}
	return creds, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
