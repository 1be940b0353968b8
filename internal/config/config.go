// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	JWTSecretKey string
	Environment  string

	// Persistence. SessionStore selects where conversations live:
	// "sqlite" (the database) or "file" (an owner-keyed JSON blob at
	// SessionsFilePath, for deployments without a backing store).
	DatabasePath     string
	SessionStore     string
	SessionsFilePath string

	// Generation provider.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	ChatModel     string

	// Edge proxy. When ProxyURL is set the server sends completions
	// through the proxy instead of calling the provider directly.
	ProxyURL          string
	ProxySharedSecret string

	// Email of the one account allowed to use the in-band admin
	// command channel.
	AdminEmail string

	// Prefix that marks a message as an admin command. Matched
	// case-sensitively against the raw message text.
	AdminCommandPrefix string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		JWTSecretKey:       getEnv("JWT_SECRET_KEY", ""),
		Environment:        env,
		DatabasePath:       getEnv("DATABASE_PATH", "venky_chat.db"),
		SessionStore:       getEnv("SESSION_STORE", "sqlite"),
		SessionsFilePath:   getEnv("SESSIONS_FILE_PATH", "venky_chat_sessions.json"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		ChatModel:          getEnv("CHAT_MODEL", "gpt-3.5-turbo"),
		ProxyURL:           getEnv("PROXY_URL", ""),
		ProxySharedSecret:  getEnv("PROXY_SHARED_SECRET", ""),
		AdminEmail:         getEnv("ADMIN_EMAIL", ""),
		AdminCommandPrefix: getEnv("ADMIN_COMMAND_PREFIX", "/set-prompt"),
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.OpenAIAPIKey == "" && cfg.ProxyURL == "" {
			missing = append(missing, "OPENAI_API_KEY or PROXY_URL")
		}
		if cfg.ProxyURL != "" && cfg.ProxySharedSecret == "" {
			missing = append(missing, "PROXY_SHARED_SECRET")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
