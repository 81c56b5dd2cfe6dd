package config

import (
	"fmt"
	"os"
)

type Config struct {
	Port            string
	MongoDBURI      string
	MongoDBPassword string
	AMQPURL         string
	JWTSecret       string
	PaymentBaseURL  string
	PaymentKeyID    string
	PaymentSecret   string
	Environment     string
	LogLevel        string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnvWithDefault("PORT", "8080"),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		AMQPURL:         os.Getenv("AMQP_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		PaymentBaseURL:  os.Getenv("PAYMENT_BASE_URL"),
		PaymentKeyID:    os.Getenv("PAYMENT_KEY_ID"),
		PaymentSecret:   os.Getenv("PAYMENT_SECRET"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.PaymentBaseURL == "" {
		return nil, fmt.Errorf("PAYMENT_BASE_URL is required")
	}
	if cfg.PaymentKeyID == "" || cfg.PaymentSecret == "" {
		return nil, fmt.Errorf("PAYMENT_KEY_ID and PAYMENT_SECRET are required")
	}
	if cfg.IsProduction() && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
