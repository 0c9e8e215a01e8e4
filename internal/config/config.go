// Package config provides runtime configuration values for the CLI and the
// simulator.
package config

import (
	"os"
	"strconv"
	"time"
)

// Client holds configuration for the API client and CLI.
type Client struct {
	APIBaseURL  string
	TokenFile   string
	HTTPTimeout time.Duration
}

// Sim holds configuration knobs for the simulator HTTP server.
type Sim struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	JWTSecret       string
	TokenTTL        time.Duration
	RefreshWorkers  int
	RefreshBuffer   int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// LoadClient collects client configuration from environment with defaults.
// An empty TokenFile resolves to the fixed per-user default path.
func LoadClient() Client {
	return Client{
		APIBaseURL:  getenv("PRICETRACK_API_URL", "http://localhost:8000/api/v1"),
		TokenFile:   getenv("PRICETRACK_TOKEN_FILE", ""),
		HTTPTimeout: durenvs("PRICETRACK_HTTP_TIMEOUT", 30),
	}
}

// LoadSim collects simulator configuration from environment with defaults.
func LoadSim() Sim {
	return Sim{
		HTTPAddr:        getenv("HTTP_ADDR", ":8000"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
		JWTSecret:       getenv("JWT_SECRET", "pricetrack-dev-secret"),
		TokenTTL:        durenvs("TOKEN_TTL", 1800),
		RefreshWorkers:  atoienv("REFRESH_WORKERS", 3),
		RefreshBuffer:   atoienv("REFRESH_BUFFER", 128),
	}
}
