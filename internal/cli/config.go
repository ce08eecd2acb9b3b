package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/pysearch/pysearch/pkg/index"
)

const (
	defaultIndexURL = index.DefaultURL
	defaultCacheTTL = 24 * time.Hour
)

// Config is the optional on-disk configuration, read from
// ~/.config/pysearch/config.toml. Command-line flags override it.
type Config struct {
	// Index is the base URL of the package index's XML-RPC endpoint.
	Index string `toml:"index"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig selects and tunes the response cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis" or "none".
	Backend string `toml:"backend"`

	// TTL is how long responses stay fresh (Go duration string, e.g. "24h").
	TTL string `toml:"ttl"`

	// RedisAddr is the redis host:port used by the redis backend.
	RedisAddr string `toml:"redis_addr"`
}

func defaultConfig() Config {
	return Config{
		Index: defaultIndexURL,
		Cache: CacheConfig{
			Backend:   "file",
			TTL:       defaultCacheTTL.String(),
			RedisAddr: "localhost:6379",
		},
	}
}

// loadConfig reads the config file, layering it over defaults.
// A missing file is normal; a malformed one is reported and ignored so
// a typo in the config never blocks a search.
func loadConfig(logger *log.Logger) Config {
	cfg := defaultConfig()

	path, err := configPath()
	if err != nil {
		return cfg
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		logger.Warnf("Ignoring malformed config %s: %v", path, err)
		return defaultConfig()
	}
	if cfg.Index == "" {
		cfg.Index = defaultIndexURL
	}
	return cfg
}

// CacheTTL parses the configured TTL, falling back to the default on
// malformed values.
func (c Config) CacheTTL() time.Duration {
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || ttl < 0 {
		return defaultCacheTTL
	}
	return ttl
}

// configPath returns the config file path using XDG standard
// (~/.config/pysearch/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
