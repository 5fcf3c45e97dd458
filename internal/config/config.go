// Package config handles application configuration loading and management.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/unifiedui/price-chat/internal/core/vault"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig
	LLM     LLMConfig
	Prices  PricesConfig
	Cache   CacheConfig
	DocDB   DocDBConfig
	Secrets SecretsConfig
	Vault   VaultConfig
	Log     LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host    string
	Port    int
	GinMode string
	// APIKey guards the HTTP API with a bearer token. Empty disables auth.
	APIKey string
	// CORSOrigins overrides the default allowed origins when set.
	CORSOrigins []string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LLMConfig holds the chat completion service configuration.
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// PricesConfig holds the price search service configuration.
type PricesConfig struct {
	BaseURL string
	APIKey  string
}

// CacheConfig holds cache-related configuration.
type CacheConfig struct {
	Type     string
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// DocDBConfig holds document database configuration.
type DocDBConfig struct {
	Type     string
	URI      string
	Database string
}

// SecretsConfig holds the key used to encrypt cached transcripts.
type SecretsConfig struct {
	EncryptionKey string
}

// VaultConfig selects where credentials missing from the environment are looked up.
type VaultConfig struct {
	Type        string
	SecretsFile string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read first if it exists.
func Load() (*Config, error) {
	return LoadFrom()
}

// LoadFrom loads configuration after reading the given .env files.
// Variables already present in the environment take precedence.
func LoadFrom(envFiles ...string) (*Config, error) {
	// Missing files are not an error
	_ = godotenv.Load(envFiles...)

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8085),
			GinMode:     getEnv("GIN_MODE", "release"),
			APIKey:      getEnv("SERVER_API_KEY", ""),
			CORSOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
		},
		LLM: LLMConfig{
			BaseURL: getEnv("LLM_BASE_URL", "https://api.mistral.ai/v1"),
			APIKey:  getEnvFirst([]string{"MISTRAL_API_KEY", "VITE_MISTRAL_API_KEY"}, ""),
			Model:   getEnv("LLM_MODEL", "mistral-large-latest"),
		},
		Prices: PricesConfig{
			BaseURL: getEnv("PRICES_BASE_URL", "https://losprecios.co"),
			APIKey:  getEnvFirst([]string{"LOSPRECIOS_API_KEY", "VITE_LOSPRECIOS_API_KEY"}, ""),
		},
		Cache: CacheConfig{
			Type:     getEnv("CACHE_TYPE", "redis"),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvAsInt("SESSION_TTL_SECONDS", 1800)) * time.Second,
		},
		DocDB: DocDBConfig{
			Type:     getEnv("DOCDB_TYPE", "mongodb"),
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "pricechat"),
		},
		Secrets: SecretsConfig{
			EncryptionKey: getEnv("SECRETS_ENCRYPTION_KEY", ""),
		},
		Vault: VaultConfig{
			Type:        getEnv("VAULT_TYPE", "dotenv"),
			SecretsFile: getEnv("VAULT_SECRETS_FILE", ".secrets.env"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// ResolveSecrets fills credentials left empty by the environment from the vault.
func (c *Config) ResolveSecrets(ctx context.Context, v vault.Vault) error {
	secrets := []struct {
		target *string
		key    string
	}{
		{&c.LLM.APIKey, "MISTRAL_API_KEY"},
		{&c.Prices.APIKey, "LOSPRECIOS_API_KEY"},
		{&c.Server.APIKey, "SERVER_API_KEY"},
		{&c.Secrets.EncryptionKey, "SECRETS_ENCRYPTION_KEY"},
	}

	for _, s := range secrets {
		value, err := vault.Resolve(ctx, v, *s.target, s.key)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", s.key, err)
		}
		*s.target = value
	}
	return nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFirst returns the first non-empty variable among keys.
func getEnvFirst(keys []string, defaultValue string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping empty items.
func getEnvAsList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
