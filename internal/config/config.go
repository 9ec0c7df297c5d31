package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Client contains the open-data portal parameters shared by every binary.
type Client struct {
	OpenDataBaseURL string
	RequestTimeout  time.Duration
	ProviderTimeout time.Duration
}

// API describes HTTP-layer configuration.
type API struct {
	Client
	BindAddr     string
	DefaultLimit int
	MaxLimit     int
}

// CLI holds configuration for the terminal client.
type CLI struct {
	Client
	DefaultLimit int
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	client, err := loadClient()
	if err != nil {
		return nil, err
	}

	c := &API{
		Client:       *client,
		BindAddr:     getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		DefaultLimit: getInt("SEARCH_LIMIT", 25),
		MaxLimit:     getInt("SEARCH_MAX_LIMIT", 50),
	}

	if c.DefaultLimit <= 0 {
		return nil, fmt.Errorf("SEARCH_LIMIT must be positive")
	}
	if c.MaxLimit <= 0 {
		return nil, fmt.Errorf("SEARCH_MAX_LIMIT must be positive")
	}
	if c.DefaultLimit > c.MaxLimit {
		return nil, fmt.Errorf("SEARCH_LIMIT cannot exceed SEARCH_MAX_LIMIT")
	}

	return c, nil
}

// LoadCLI builds a CLI config from environment variables.
func LoadCLI() (*CLI, error) {
	client, err := loadClient()
	if err != nil {
		return nil, err
	}

	c := &CLI{
		Client:       *client,
		DefaultLimit: getInt("SEARCH_LIMIT", 25),
	}

	if c.DefaultLimit <= 0 {
		return nil, fmt.Errorf("SEARCH_LIMIT must be positive")
	}

	return c, nil
}

func loadClient() (*Client, error) {
	c := &Client{
		OpenDataBaseURL: getEnv("OPENDATA_BASE_URL", "https://www.datos.gov.co"),
		RequestTimeout:  getDuration("OPENDATA_TIMEOUT", "20s"),
		ProviderTimeout: getDuration("PROVIDER_TIMEOUT", "15s"),
	}

	if c.RequestTimeout <= 0 {
		return nil, fmt.Errorf("OPENDATA_TIMEOUT must be positive")
	}
	if c.ProviderTimeout <= 0 {
		return nil, fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}
