package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	// HTTPListenAddr is where gitswitchd serves its API.
	HTTPListenAddr string
	// BackendURL is the daemon base URL the client side talks to.
	BackendURL string
	LogLevel   string
	// ServiceName tags log lines when set.
	ServiceName string
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPListenAddr: getEnv("GITSWITCHD_LISTEN_ADDR", "127.0.0.1:7486"),
		BackendURL:     getEnv("GITSWITCH_BACKEND_URL", "http://127.0.0.1:7486"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ServiceName:    getEnv("SERVICE_NAME", ""),
	}

	return cfg, nil
}

// Validate checks that the fields a given binary needs are present.
func (c *Config) Validate(role string) error {
	var missing []string

	switch role {
	case "gitswitchd":
		if c.HTTPListenAddr == "" {
			missing = append(missing, "GITSWITCHD_LISTEN_ADDR")
		}
	case "gitswitch-cli":
		if c.BackendURL == "" {
			missing = append(missing, "GITSWITCH_BACKEND_URL")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
