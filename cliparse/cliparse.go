package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	GatewaySecret string
	PollInterval  time.Duration
	PrettyLog     bool
}

// ParseFlags validates flags and fills in environment fallbacks
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("ballotcore", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.DurationVar(&cfg.PollInterval, "poll", 0, "Status poll interval")
	fs.BoolVar(&cfg.PrettyLog, "pretty", false, "Colored terminal logging")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.GatewaySecret, "gateway-secret", "", "Gateway claim-signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 4000 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:ballotcore.db" // local sqlite default
	}

	if cfg.PollInterval == 0 {
		if iv := os.Getenv("POLL_INTERVAL"); iv != "" {
			parsed, err := time.ParseDuration(iv)
			if err != nil {
				return Config{}, errors.New("invalid POLL_INTERVAL env variable")
			}
			cfg.PollInterval = parsed
		} else {
			cfg.PollInterval = 30 * time.Second
		}
	}

	if !cfg.PrettyLog && os.Getenv("PRETTY_LOG") == "true" {
		cfg.PrettyLog = true
	}

	// Secret - MUST be provided
	if cfg.GatewaySecret == "" {
		cfg.GatewaySecret = os.Getenv("GATEWAY_SECRET")
	}
	if cfg.GatewaySecret == "" {
		return Config{}, errors.New("GATEWAY_SECRET required")
	}

	return cfg, nil
}
