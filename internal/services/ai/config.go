// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

// FallbackReply is returned when the provider answers with an empty
// completion. An empty answer is a soft success, not a provider error.
const FallbackReply = "Sorry, I could not generate a response."

type Config struct {
	// LLM Configuration
	APIKey  string
	BaseURL string
	Model   string

	// Edge proxy configuration, used by the proxy-backed provider.
	ProxyURL          string
	ProxySharedSecret string

	// Performance Configuration
	Timeout time.Duration

	// Model Parameters
	Temperature float32
	MaxTokens   int
}

func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("CHAT_MODEL is required")
	}
	if c.APIKey == "" && c.ProxyURL == "" {
		return fmt.Errorf("either OPENAI_API_KEY or PROXY_URL is required")
	}
	if c.ProxyURL != "" && c.ProxySharedSecret == "" {
		return fmt.Errorf("PROXY_SHARED_SECRET is required when PROXY_URL is set")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Model:       "gpt-3.5-turbo",
		Timeout:     2 * time.Minute,
		Temperature: 0.7,
		MaxTokens:   1000,
	}
}
