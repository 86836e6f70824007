// Package config provides configuration management for Social Garden.
// It loads settings from environment variables with the GARDEN_ prefix
// and provides sensible defaults for all configuration options.
package config

import (
	"os"
	"strconv"
)

// Config holds all configuration settings for the Social Garden application.
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	AI       AIConfig
	Health   HealthConfig
	Security SecurityConfig
	Backup   BackupConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port int    // Server port (default: 7373)
	Host string // Server host (default: 127.0.0.1)
}

// StorageConfig contains database and storage configuration.
type StorageConfig struct {
	StorageEngine string // Storage engine type: sqlite, postgres (default: sqlite)
	DataPath      string // Path to data directory for sqlite (default: ./data)
	PostgresDSN   string // Postgres connection string, used when engine is postgres
}

// AIConfig contains AI collaborator provider configuration.
type AIConfig struct {
	Provider        string // Provider: ollama, openai, anthropic (default: ollama)
	OllamaURL       string // Ollama API URL (default: http://localhost:11434)
	OllamaModel     string // Ollama model name (default: qwen2.5:7b)
	OpenAIAPIKey    string // OpenAI API key
	OpenAIModel     string // OpenAI model name (default: gpt-4o-mini)
	AnthropicAPIKey string // Anthropic API key
	AnthropicModel  string // Anthropic model name (default: claude-haiku-4-5-20251001)
}

// HealthConfig contains relationship health evaluation settings.
type HealthConfig struct {
	ThresholdsPath string // Optional YAML file overriding cadence thresholds
}

// SecurityConfig contains security and authentication settings.
type SecurityConfig struct {
	SecurityMode string // Security mode: development, production (default: development)
	APIToken     string // API authentication token
}

// BackupConfig contains backup configuration.
type BackupConfig struct {
	BackupEnabled   bool   // Enable automatic backups (default: false)
	BackupInterval  string // Backup interval duration (default: 24h)
	BackupPath      string // Path to backup directory (default: ./backups)
	BackupVerify    bool   // Verify backups after creation (default: true)
	RetentionDaily  int    // Number of daily backups to keep (default: 7)
	RetentionWeekly int    // Number of weekly backups to keep (default: 4)
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. All environment variables use the GARDEN_ prefix.
func LoadConfig() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("GARDEN_PORT", 7373),
			Host: getEnv("GARDEN_HOST", "127.0.0.1"),
		},
		Storage: StorageConfig{
			StorageEngine: getEnv("GARDEN_STORAGE_ENGINE", "sqlite"),
			DataPath:      getEnv("GARDEN_DATA_PATH", "./data"),
			PostgresDSN:   getEnv("GARDEN_POSTGRES_DSN", ""),
		},
		AI: AIConfig{
			Provider:        getEnv("GARDEN_AI_PROVIDER", "ollama"),
			OllamaURL:       getEnv("GARDEN_OLLAMA_URL", "http://localhost:11434"),
			OllamaModel:     getEnv("GARDEN_OLLAMA_MODEL", "qwen2.5:7b"),
			OpenAIAPIKey:    getEnv("GARDEN_OPENAI_API_KEY", ""),
			OpenAIModel:     getEnv("GARDEN_OPENAI_MODEL", "gpt-4o-mini"),
			AnthropicAPIKey: getEnv("GARDEN_ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getEnv("GARDEN_ANTHROPIC_MODEL", "claude-haiku-4-5-20251001"),
		},
		Health: HealthConfig{
			ThresholdsPath: getEnv("GARDEN_CADENCE_THRESHOLDS", ""),
		},
		Security: SecurityConfig{
			SecurityMode: getEnv("GARDEN_SECURITY_MODE", "development"),
			APIToken:     getEnv("GARDEN_API_TOKEN", ""),
		},
		Backup: BackupConfig{
			BackupEnabled:   getEnvBool("GARDEN_BACKUP_ENABLED", false),
			BackupInterval:  getEnv("GARDEN_BACKUP_INTERVAL", "24h"),
			BackupPath:      getEnv("GARDEN_BACKUP_PATH", "./backups"),
			BackupVerify:    getEnvBool("GARDEN_BACKUP_VERIFY", true),
			RetentionDaily:  getEnvInt("GARDEN_BACKUP_RETENTION_DAILY", 7),
			RetentionWeekly: getEnvInt("GARDEN_BACKUP_RETENTION_WEEKLY", 4),
		},
	}, nil
}

// ProviderConfig maps the AI section onto the factory config for the
// configured provider.
func (c *Config) ProviderConfig() (provider, apiKey, model, baseURL string) {
	switch c.AI.Provider {
	case "openai":
		return "openai", c.AI.OpenAIAPIKey, c.AI.OpenAIModel, ""
	case "anthropic":
		return "anthropic", c.AI.AnthropicAPIKey, c.AI.AnthropicModel, ""
	default:
		return "ollama", "", c.AI.OllamaModel, c.AI.OllamaURL
	}
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value.
// If the environment variable exists but cannot be parsed as an integer,
// it returns the default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value.
// It recognizes "true", "1", "yes" as true and "false", "0", "no" as false.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch value {
		case "true", "1", "yes", "True", "TRUE", "Yes", "YES":
			return true
		case "false", "0", "no", "False", "FALSE", "No", "NO":
			return false
		}
	}
	return defaultValue
}
