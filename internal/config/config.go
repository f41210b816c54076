// Package config resolves the settings shared by every command from flags,
// environment and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/mihotel/internal/client"
)

// Environment variables.
const (
	EnvAPIURL     = client.BaseURLEnv
	EnvSessionDir = "MIHOTEL_SESSION_DIR"
	EnvCacheDir   = "MIHOTEL_CACHE_DIR"
	EnvLang       = "MIHOTEL_LANG"
)

// HomeDirName is the directory under the user's home holding session and
// cache data.
const HomeDirName = ".mihotel"

// Config holds the resolved settings.
type Config struct {
	APIURL     string
	SessionDir string
	CacheDir   string
	Cache      bool
	Lang       string
	Timeout    time.Duration
}

// Resolve fills unset fields from the environment and defaults.
func (c Config) Resolve() (Config, error) {
	if c.APIURL == "" {
		c.APIURL = envOr(EnvAPIURL, client.DefaultBaseURL)
	}

	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}

	if c.SessionDir == "" {
		c.SessionDir = os.Getenv(EnvSessionDir)
	}
	if c.SessionDir == "" {
		dir, err := homePath("session")
		if err != nil {
			return c, err
		}
		c.SessionDir = dir
	}

	if c.Cache && c.CacheDir == "" {
		c.CacheDir = os.Getenv(EnvCacheDir)
		if c.CacheDir == "" {
			dir, err := homePath("cache")
			if err != nil {
				return c, err
			}
			c.CacheDir = dir
		}
	}

	if c.Lang == "" {
		c.Lang = LangFromEnv()
	}

	return c, nil
}

// Client returns the API client configuration.
func (c Config) Client(logger *zerolog.Logger) client.Config {
	return client.Config{
		BaseURL:     c.APIURL,
		Timeout:     c.Timeout,
		EnableCache: c.Cache,
		CacheDir:    c.CacheDir,
		Logger:      logger,
	}
}

// LangFromEnv returns the preferred language as a BCP 47 tag, reading
// MIHOTEL_LANG then the POSIX locale variables. It returns "en" when none is
// set.
func LangFromEnv() string {
	for _, key := range []string{EnvLang, "LC_ALL", "LC_MESSAGES", "LANG"} {
		if tag := posixToTag(os.Getenv(key)); tag != "" {
			return tag
		}
	}
	return "en"
}

// posixToTag converts a locale such as "es_VE.UTF-8" to "es-VE".
func posixToTag(locale string) string {
	locale, _, _ = strings.Cut(locale, ".")
	locale, _, _ = strings.Cut(locale, "@")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(locale, "_", "-")
}

func homePath(name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, HomeDirName, name), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
