package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Telnyx   TelnyxConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	BaseURL         string   `envconfig:"BASE_URL" default:"http://localhost:8080"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds the embedded database configuration
type DatabaseConfig struct {
	Path string `envconfig:"DB_PATH" default:"./data/voiceai.db"`
}

// TelnyxConfig holds Telnyx API configuration
type TelnyxConfig struct {
	APIKey             string        `envconfig:"TELNYX_API_KEY"`
	ConnectionID       string        `envconfig:"TELNYX_CONNECTION_ID"`
	PhoneNumber        string        `envconfig:"TELNYX_PHONE_NUMBER"`
	AssistantID        string        `envconfig:"AI_ASSISTANT_ID"`
	MessagingProfileID string        `envconfig:"TELNYX_MESSAGING_PROFILE_ID"`
	TransferNumber     string        `envconfig:"TRANSFER_NUMBER"`
	APIBaseURL         string        `envconfig:"TELNYX_API_URL" default:"https://api.telnyx.com"`
	RequestTimeout     time.Duration `envconfig:"TELNYX_REQUEST_TIMEOUT" default:"15s"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration. Missing Telnyx credentials are fatal
// in production and a warning otherwise, so the API and stored records stay
// usable without a provider account during development.
func (c *Config) Validate() error {
	missing := []string{}
	if c.Telnyx.APIKey == "" {
		missing = append(missing, "TELNYX_API_KEY")
	}
	if c.Telnyx.ConnectionID == "" {
		missing = append(missing, "TELNYX_CONNECTION_ID")
	}
	if c.Telnyx.PhoneNumber == "" {
		missing = append(missing, "TELNYX_PHONE_NUMBER")
	}

	if len(missing) > 0 {
		if c.Server.Environment == "production" {
			return fmt.Errorf("missing required environment variables: %v", missing)
		}
		for _, key := range missing {
			log.Printf("Warning: missing env var %s", key)
		}
	}

	return nil
}

// Addr returns the server listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}
