package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Env interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

// ClientConfig drives the blog client: the view server it exposes and the
// backend it talks to.
type ClientConfig struct {
	Port        int
	APIBaseURL  string
	SessionFile string
	GinMode     string
	LogLevel    string

	// UpdatePolicy selects what a successful update does to the local
	// collection: "append" keeps the historical behavior, "replace"
	// swaps the entry matching the returned id.
	UpdatePolicy string

	// StaleGuard discards list responses that were overtaken by a newer
	// completed list request.
	StaleGuard bool
}

// ServerConfig drives the dev backend.
type ServerConfig struct {
	Port         int
	MasterSecret string
	GinMode      string
	LogLevel     string
	TLSCertFile  string
	TLSKeyFile   string
	TokenExpiry  time.Duration
}

func LoadClientConfig() (ClientConfig, error) {
	return LoadClientConfigFromEnv(osEnv{})
}

func LoadClientConfigFromEnv(env Env) (ClientConfig, error) {
	cfg := ClientConfig{
		Port:         8080,
		APIBaseURL:   "http://localhost:3000",
		GinMode:      "release",
		LogLevel:     "info",
		UpdatePolicy: "append",
		StaleGuard:   true,
	}

	if raw := env.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return ClientConfig{}, fmt.Errorf("invalid PORT")
		}
		cfg.Port = port
	}

	if raw := env.Getenv("API_BASE_URL"); raw != "" {
		cfg.APIBaseURL = raw
	}

	cfg.SessionFile = env.Getenv("SESSION_FILE")

	if raw := env.Getenv("GIN_MODE"); raw != "" {
		cfg.GinMode = raw
	}
	if raw := env.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}

	if raw := env.Getenv("UPDATE_POLICY"); raw != "" {
		if raw != "append" && raw != "replace" {
			return ClientConfig{}, fmt.Errorf("invalid UPDATE_POLICY")
		}
		cfg.UpdatePolicy = raw
	}

	if raw := env.Getenv("STALE_GUARD"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return ClientConfig{}, fmt.Errorf("invalid STALE_GUARD")
		}
		cfg.StaleGuard = enabled
	}

	return cfg, nil
}

func LoadServerConfig() (ServerConfig, error) {
	return LoadServerConfigFromEnv(osEnv{})
}

func LoadServerConfigFromEnv(env Env) (ServerConfig, error) {
	cfg := ServerConfig{
		Port:        3000,
		GinMode:     "release",
		LogLevel:    "info",
		TokenExpiry: 7 * 24 * time.Hour,
	}

	if raw := env.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return ServerConfig{}, fmt.Errorf("invalid PORT")
		}
		cfg.Port = port
	}

	cfg.MasterSecret = env.Getenv("MASTER_SECRET")
	if cfg.MasterSecret == "" {
		return ServerConfig{}, fmt.Errorf("MASTER_SECRET is required")
	}

	if raw := env.Getenv("GIN_MODE"); raw != "" {
		cfg.GinMode = raw
	}
	if raw := env.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}

	cfg.TLSCertFile = env.Getenv("TLS_CERT_FILE")
	cfg.TLSKeyFile = env.Getenv("TLS_KEY_FILE")

	if raw := env.Getenv("TOKEN_EXPIRY_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return ServerConfig{}, fmt.Errorf("invalid TOKEN_EXPIRY_SECONDS")
		}
		cfg.TokenExpiry = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}
