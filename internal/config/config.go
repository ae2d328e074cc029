// Package config resolves runtime configuration for mealadmin: the API
// base URL, the bearer token location, cache and export directories, and
// the active display language.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/mealdash/mealadmin/internal/i18n"
)

// Config carries everything the command layer needs to construct the API
// client and local stores. It is built once in main and passed down
// explicitly; nothing reads the environment after Load returns.
type Config struct {
	BaseURL        string
	Token          string
	Language       i18n.Lang
	RequestTimeout time.Duration
	CacheDBPath    string
	CacheTTL       time.Duration
	ExportDir      string
}

// Load reads configuration from the environment, consulting an optional
// .env file first. A missing token file is not an error here; requests
// simply go out unauthenticated and the server rejects them.
func Load() (*Config, error) {
	// Best effort: absence of .env is the normal case.
	_ = godotenv.Load()

	timeout, err := durationEnv("MEALADMIN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	ttl, err := durationEnv("MEALADMIN_CACHE_TTL", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	token, err := loadToken()
	if err != nil {
		return nil, err
	}

	return &Config{
		BaseURL:        getEnv("MEALADMIN_API_URL", "http://localhost:8080"),
		Token:          token,
		Language:       i18n.FromEnv(),
		RequestTimeout: timeout,
		CacheDBPath:    getEnv("MEALADMIN_CACHE_DB", GetCacheDBPath()),
		CacheTTL:       ttl,
		ExportDir:      getEnv("MEALADMIN_EXPORT_DIR", "."),
	}, nil
}

// GetDataDir resolves the base directory for mealadmin state. It checks
// MEALADMIN_DIR first, then XDG paths, and finally falls back to the
// user's home directory.
func GetDataDir() string {
	if explicit := os.Getenv("MEALADMIN_DIR"); explicit != "" {
		return explicit
	}

	xdg.Reload()

	dataHome := xdg.DataHome
	if dataHome == "" {
		home := xdg.Home
		if home == "" {
			var err error
			home, err = os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "mealadmin")
			}
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "mealadmin")
}

// GetCacheDBPath returns the absolute path to the lookup cache database.
func GetCacheDBPath() string {
	return filepath.Join(GetDataDir(), "lookups.db")
}

// GetTokenPath returns the path of the file holding the admin bearer
// token.
func GetTokenPath() string {
	return filepath.Join(GetDataDir(), "token")
}

// loadToken prefers MEALADMIN_TOKEN, then the token file. An empty result
// means unauthenticated.
func loadToken() (string, error) {
	if t := os.Getenv("MEALADMIN_TOKEN"); t != "" {
		return t, nil
	}
	b, err := os.ReadFile(GetTokenPath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// SaveToken writes the bearer token with 0600 perms, creating the data
// directory as needed.
func SaveToken(token string) error {
	if err := os.MkdirAll(GetDataDir(), 0o750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	return os.WriteFile(GetTokenPath(), []byte(strings.TrimSpace(token)+"\n"), 0o600)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
