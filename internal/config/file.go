// ABOUTME: YAML config file support and XDG config directory resolution
// ABOUTME: File values sit between built-in defaults and the environment

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const appDirName = "thecheck"

// DefaultConfigDir returns the default config directory following XDG conventions
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDirName)
}

// DefaultConfigFile returns the config.yaml path inside dir
func DefaultConfigFile(dir string) string {
	return filepath.Join(dir, "config.yaml")
}

type fileConfig struct {
	API struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`
	Identity struct {
		Provider     string `yaml:"provider"`
		URL          string `yaml:"url"`
		AnonKey      string `yaml:"anon_key"`
		TokenURL     string `yaml:"token_url"`
		RevokeURL    string `yaml:"revoke_url"`
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		RefreshLeeway string `yaml:"refresh_leeway"`
	} `yaml:"identity"`
	Cache struct {
		Backend   string            `yaml:"backend"`
		Path      string            `yaml:"path"`
		Retention string            `yaml:"retention"`
		Freshness map[string]string `yaml:"freshness"`
		Redis     struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       *int   `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Session struct {
		Persist *bool `yaml:"persist"`
	} `yaml:"session"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`
}

// applyFile overlays values from a YAML file. A missing file is an error
// only when the caller named it explicitly.
func applyFile(cfg *Config, path string, required bool) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	setString(&cfg.APIURL, fc.API.URL)
	if err := setDuration(&cfg.Timeout, "api.timeout", fc.API.Timeout); err != nil {
		return err
	}

	setString(&cfg.IdentityProvider, fc.Identity.Provider)
	setString(&cfg.IdentityURL, fc.Identity.URL)
	setString(&cfg.IdentityAnonKey, fc.Identity.AnonKey)
	setString(&cfg.OAuthTokenURL, fc.Identity.TokenURL)
	setString(&cfg.OAuthRevokeURL, fc.Identity.RevokeURL)
	setString(&cfg.OAuthClientID, fc.Identity.ClientID)
	setString(&cfg.OAuthClientSecret, fc.Identity.ClientSecret)
	if err := setDuration(&cfg.RefreshLeeway, "identity.refresh_leeway", fc.Identity.RefreshLeeway); err != nil {
		return err
	}

	setString(&cfg.CacheBackend, fc.Cache.Backend)
	setString(&cfg.CachePath, fc.Cache.Path)
	if err := setDuration(&cfg.CacheRetention, "cache.retention", fc.Cache.Retention); err != nil {
		return err
	}
	for name, value := range fc.Cache.Freshness {
		if _, ok := DefaultFreshness[name]; !ok {
			return fmt.Errorf("cache.freshness: unknown resource %q", name)
		}
		d := cfg.Freshness[name]
		if err := setDuration(&d, "cache.freshness."+name, value); err != nil {
			return err
		}
		cfg.Freshness[name] = d
	}
	setString(&cfg.RedisAddr, fc.Cache.Redis.Addr)
	setString(&cfg.RedisPassword, fc.Cache.Redis.Password)
	if fc.Cache.Redis.DB != nil {
		cfg.RedisDB = *fc.Cache.Redis.DB
	}

	if fc.Session.Persist != nil {
		cfg.PersistSession = *fc.Session.Persist
	}

	setString(&cfg.LogLevel, fc.Log.Level)
	setString(&cfg.LogFormat, fc.Log.Format)
	setString(&cfg.LogFile, fc.Log.File)
	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func setDuration(dst *time.Duration, field, value string) error {
	if value == "" {
		return nil
	}
	d, err := parseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q", field, value)
	}
	*dst = d
	return nil
}
