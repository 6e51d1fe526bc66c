package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries the environment-derived defaults for the CLI flags and
// the serve mode. Flags always win over the environment.
type Config struct {
	// Corpus
	Dir     string
	Padding int

	// Serve mode
	Addr   string
	APIKey string // optional; empty disables bearer auth
}

func Load() Config {
	cfg := Config{
		Dir:     envOr("XSEARCH_DIR", "."),
		Padding: envInt("XSEARCH_PADDING", 3),
		Addr:    envOr("XSEARCH_ADDR", ":8090"),
		APIKey:  os.Getenv("XSEARCH_API_KEY"),
	}

	if cfg.Padding < 0 {
		cfg.Padding = 3
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dir must not be empty")
	}
	if c.Padding < 0 {
		return fmt.Errorf("padding must not be negative")
	}
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
