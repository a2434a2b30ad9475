package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ProviderConfig holds everything needed to call the Pineapple API. It is
// built once at startup and passed into the provider client and submission
// pipeline constructors; nothing reads provider settings from the
// environment after startup.
type ProviderConfig struct {
	BaseURL            string
	APIToken           string
	APISecret          string
	SourceName         string
	QuickQuoteEndpoint string
	LeadEndpoint       string
	ConnectTimeout     time.Duration
	RequestTimeout     time.Duration
}

// LoadProviderConfig reads the provider settings from the environment.
func LoadProviderConfig() (*ProviderConfig, error) {
	cfg := &ProviderConfig{
		BaseURL:            getEnv("PROVIDER_BASE_URL", "http://gw-test.pineapple.co.za"),
		APIToken:           os.Getenv("PROVIDER_API_TOKEN"),
		APISecret:          os.Getenv("PROVIDER_API_SECRET"),
		SourceName:         getEnv("PROVIDER_SOURCE_NAME", "SureStrat"),
		QuickQuoteEndpoint: getEnv("PROVIDER_QUICK_QUOTE_ENDPOINT", "/api/v1/quote/quick-quote"),
		LeadEndpoint:       getEnv("PROVIDER_LEAD_ENDPOINT", "/users/motor_lead"),
		ConnectTimeout:     getEnvAsDuration("PROVIDER_CONNECT_TIMEOUT_SECONDS", 5*time.Second),
		RequestTimeout:     getEnvAsDuration("PROVIDER_REQUEST_TIMEOUT_SECONDS", 25*time.Second),
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("PROVIDER_BASE_URL is required")
	}
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("PROVIDER_API_TOKEN is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
