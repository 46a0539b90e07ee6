// ABOUTME: Configuration loader for the thecheck client
// ABOUTME: Layers defaults, config.yaml, .env and environment variables

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Identity provider flavors
const (
	IdentityGoTrue = "gotrue"
	IdentityOAuth2 = "oauth2"
)

// Cache backends
const (
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
)

// Freshness windows keyed by resource family
const (
	ResourceProfile         = "profile"
	ResourceSpots           = "spots"
	ResourcePresets         = "presets"
	ResourcePreferences     = "preferences"
	ResourceForecasts       = "forecasts"
	ResourceRecommendations = "recommendations"
)

// DefaultFreshness mirrors how long each resource is considered current
var DefaultFreshness = map[string]time.Duration{
	ResourceProfile:         5 * time.Minute,
	ResourceSpots:           30 * time.Minute,
	ResourcePresets:         5 * time.Minute,
	ResourcePreferences:     5 * time.Minute,
	ResourceForecasts:       30 * time.Minute,
	ResourceRecommendations: 10 * time.Minute,
}

type Config struct {
	// Backend API
	APIURL  string
	Timeout time.Duration

	// Identity
	IdentityProvider  string // gotrue (default) or oauth2
	IdentityURL       string // GoTrue base URL, e.g. https://xyz.supabase.co
	IdentityAnonKey   string // GoTrue public api key
	OAuthTokenURL     string
	OAuthRevokeURL    string
	OAuthClientID     string
	OAuthClientSecret string
	RefreshLeeway     time.Duration // refresh tokens expiring within this window

	// Cache
	CacheBackend   string // memory, sqlite, redis
	CachePath      string // sqlite file, default <config dir>/cache.db
	CacheRetention time.Duration
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	Freshness      map[string]time.Duration

	// Local state
	ConfigDir      string
	PersistSession bool

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string
}

// Options controls where Load looks for files
type Options struct {
	// ConfigFile overrides <config dir>/config.yaml
	ConfigFile string
	// EnvFiles are loaded with godotenv; missing files are ignored. Defaults to .env
	EnvFiles []string
}

// Load builds the configuration. Precedence, lowest first: defaults,
// config file, .env files, process environment.
func Load(opts Options) (*Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := defaults()
	cfg.ConfigDir = getEnv("THECHECK_CONFIG_DIR", DefaultConfigDir())

	path := opts.ConfigFile
	if path == "" {
		path = getEnv("THECHECK_CONFIG", "")
	}
	if path == "" && cfg.ConfigDir != "" {
		path = DefaultConfigFile(cfg.ConfigDir)
	}
	if err := applyFile(cfg, path, opts.ConfigFile != ""); err != nil {
		return nil, err
	}

	applyEnv(cfg)

	if cfg.CachePath == "" && cfg.ConfigDir != "" {
		cfg.CachePath = filepath.Join(cfg.ConfigDir, "cache.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	freshness := make(map[string]time.Duration, len(DefaultFreshness))
	for k, v := range DefaultFreshness {
		freshness[k] = v
	}
	return &Config{
		APIURL:           "http://localhost:8000",
		Timeout:          30 * time.Second,
		IdentityProvider: IdentityGoTrue,
		OAuthClientID:    "thecheck",
		RefreshLeeway:    time.Minute,
		CacheBackend:     CacheMemory,
		CacheRetention:   24 * time.Hour,
		Freshness:        freshness,
		PersistSession:   true,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

func applyEnv(cfg *Config) {
	cfg.APIURL = getEnv("THECHECK_API_URL", cfg.APIURL)
	cfg.Timeout = getEnvDuration("THECHECK_TIMEOUT", cfg.Timeout)

	cfg.IdentityProvider = getEnv("THECHECK_IDENTITY_PROVIDER", cfg.IdentityProvider)
	cfg.IdentityURL = getEnv("THECHECK_IDENTITY_URL", getEnv("SUPABASE_URL", cfg.IdentityURL))
	cfg.IdentityAnonKey = getEnv("THECHECK_IDENTITY_ANON_KEY", getEnv("SUPABASE_ANON_KEY", cfg.IdentityAnonKey))
	cfg.OAuthTokenURL = getEnv("THECHECK_OAUTH_TOKEN_URL", cfg.OAuthTokenURL)
	cfg.OAuthRevokeURL = getEnv("THECHECK_OAUTH_REVOKE_URL", cfg.OAuthRevokeURL)
	cfg.OAuthClientID = getEnv("THECHECK_OAUTH_CLIENT_ID", cfg.OAuthClientID)
	cfg.OAuthClientSecret = getEnv("THECHECK_OAUTH_CLIENT_SECRET", cfg.OAuthClientSecret)
	cfg.RefreshLeeway = getEnvDuration("THECHECK_REFRESH_LEEWAY", cfg.RefreshLeeway)

	cfg.CacheBackend = getEnv("THECHECK_CACHE", cfg.CacheBackend)
	cfg.CachePath = getEnv("THECHECK_CACHE_PATH", cfg.CachePath)
	cfg.CacheRetention = getEnvDuration("THECHECK_CACHE_RETENTION", cfg.CacheRetention)
	cfg.RedisAddr = getEnv("THECHECK_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("THECHECK_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvInt("THECHECK_REDIS_DB", cfg.RedisDB)
	for name := range DefaultFreshness {
		key := "THECHECK_FRESH_" + strings.ToUpper(name)
		cfg.Freshness[name] = getEnvDuration(key, cfg.Freshness[name])
	}

	cfg.PersistSession = getEnvBool("THECHECK_PERSIST_SESSION", cfg.PersistSession)

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
}

// Validate checks cross-field requirements
func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(ensureScheme(c.APIURL), "/")
	c.IdentityURL = strings.TrimRight(ensureScheme(c.IdentityURL), "/")

	if c.APIURL == "" {
		return fmt.Errorf("THECHECK_API_URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("THECHECK_TIMEOUT must be positive, got %s", c.Timeout)
	}

	switch c.IdentityProvider {
	case IdentityGoTrue:
		// URL and key are checked when a command needs to authenticate,
		// so anonymous commands like "spots" work without them.
	case IdentityOAuth2:
		if c.OAuthTokenURL == "" {
			return fmt.Errorf("THECHECK_OAUTH_TOKEN_URL is required for the oauth2 identity provider")
		}
	default:
		return fmt.Errorf("THECHECK_IDENTITY_PROVIDER must be gotrue or oauth2, got %q", c.IdentityProvider)
	}

	switch c.CacheBackend {
	case CacheMemory:
	case CacheSQLite:
		if c.CachePath == "" {
			return fmt.Errorf("THECHECK_CACHE_PATH is required for the sqlite cache")
		}
	case CacheRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("THECHECK_REDIS_ADDR is required for the redis cache")
		}
	default:
		return fmt.Errorf("THECHECK_CACHE must be memory, sqlite or redis, got %q", c.CacheBackend)
	}

	for name, d := range c.Freshness {
		if d < 0 {
			return fmt.Errorf("freshness for %s cannot be negative, got %s", name, d)
		}
		if d > c.CacheRetention {
			return fmt.Errorf("freshness for %s (%s) exceeds cache retention (%s)", name, d, c.CacheRetention)
		}
	}
	return nil
}

// IdentityConfigured reports whether an identity backend can be reached
func (c *Config) IdentityConfigured() bool {
	if c.IdentityProvider == IdentityOAuth2 {
		return c.OAuthTokenURL != ""
	}
	return c.IdentityURL != "" && c.IdentityAnonKey != ""
}

// FreshFor returns the freshness window of a resource family
func (c *Config) FreshFor(resource string) time.Duration {
	if d, ok := c.Freshness[resource]; ok {
		return d
	}
	return DefaultFreshness[resource]
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("90")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := parseDuration(value); err == nil {
		return d
	}
	return defaultValue
}

func parseDuration(value string) (time.Duration, error) {
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(value)
}

// ensureScheme adds an http:// prefix for localhost and https:// otherwise
func ensureScheme(url string) string {
	if url == "" || strings.Contains(url, "://") {
		return url
	}
	if strings.HasPrefix(url, "localhost") || strings.HasPrefix(url, "127.0.0.1") {
		return "http://" + url
	}
	return "https://" + url
}
