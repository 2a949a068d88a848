package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         string
	DBPath       string
	BaseURL      string
	UploadDir    string
	CSRFKey      []byte
	SessionKey   []byte
	CookieDomain string
	CookieSecure bool

	// AdminUserID is the single identity allowed past the admin gate.
	// Configured externally so rotating the admin does not need a redeploy.
	AdminUserID string

	// DemoMode makes order submission fall back to a synthetic local-only
	// order id when the store is unreachable or no session exists, instead
	// of failing the submission. Off by default.
	DemoMode bool
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8585"),
		DBPath:       getEnv("DB_PATH", "./gifts.db"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:8585"),
		UploadDir:    getEnv("UPLOAD_DIR", "./static/uploads"),
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
		AdminUserID:  getEnv("ADMIN_USER_ID", ""),
		DemoMode:     getEnv("DEMO_MODE", "false") == "true",
	}

	if cfg.AdminUserID == "" {
		slog.Warn("ADMIN_USER_ID not set. The admin order list will be unreachable until it is configured.")
	}
	if cfg.DemoMode {
		slog.Warn("DEMO_MODE enabled. Failed order submissions will produce synthetic preview ids instead of errors.")
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "8585"
	}

	return cfg, nil
}

// loadKey reads a base64-encoded secret from the environment, generating a
// throwaway development key when it is missing or too short.
func loadKey(envVar string) []byte {
	raw := os.Getenv(envVar)
	if raw == "" {
		slog.Warn("Secret key not set. Generating a random key for development. This key will change on each restart. PLEASE SET IT IN PRODUCTION!", "var", envVar)
		return generateRandomBytes(32)
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn("Secret key is invalid or too short (min 32 bytes). Generating a random key for development. PLEASE SET A SECURE KEY IN PRODUCTION!", "var", envVar)
		return generateRandomBytes(32)
	}
	return decoded
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// generateRandomBytes generates a random byte slice of specified length
// using crypto/rand.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		// Panic-prevention fallback only, never for production use
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		if len(fallbackKey) < n {
			paddedKey := make([]byte, n)
			copy(paddedKey, fallbackKey)
			return paddedKey
		}
		return []byte(fallbackKey)[:n]
	}
	return b
}
