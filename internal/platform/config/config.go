// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"time"
)

// Inquiry captures the remote verification service endpoint and credentials.
type Inquiry struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Redis captures the optional replay-guard backend. An empty URL disables it.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the top-level gateway configuration.
type Server struct {
	Addr      string
	Inquiry   Inquiry
	Redis     Redis
	ReplayTTL time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("SLIPGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	inquiryURL := os.Getenv("SLIPGATE_INQUIRY_URL")
	if inquiryURL == "" {
		inquiryURL = "https://suba.rdcw.co.th"
	}

	return Server{
		Addr: addr,
		Inquiry: Inquiry{
			BaseURL:      inquiryURL,
			ClientID:     os.Getenv("SLIPGATE_CLIENT_ID"),
			ClientSecret: os.Getenv("SLIPGATE_CLIENT_SECRET"),
			Timeout:      durationEnv("SLIPGATE_INQUIRY_TIMEOUT", 15*time.Second),
		},
		Redis: Redis{
			URL:          os.Getenv("SLIPGATE_REDIS_URL"),
			PoolSize:     intEnv("SLIPGATE_REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("SLIPGATE_REDIS_MIN_IDLE", 2),
			DialTimeout:  durationEnv("SLIPGATE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("SLIPGATE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("SLIPGATE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		ReplayTTL: durationEnv("SLIPGATE_REPLAY_TTL", 24*time.Hour),
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
