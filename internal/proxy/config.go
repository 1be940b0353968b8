// File: internal/proxy/config.go
package proxy

import (
	"fmt"
	"time"
)

const defaultUpstreamURL = "https://api.openai.com/v1/chat/completions"

type Config struct {
	// SharedSecret authorizes callers. Compared against the bearer
	// token of every request.
	SharedSecret string

	// APIKey is the server-held provider credential. It is attached to
	// upstream requests and must never appear in logs or responses.
	APIKey string

	// UpstreamURL is the provider chat-completion endpoint.
	UpstreamURL string

	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

func (c *Config) Validate() error {
	if c.SharedSecret == "" {
		return fmt.Errorf("PROXY_SHARED_SECRET is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Model == "" {
		return fmt.Errorf("CHAT_MODEL is required")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		UpstreamURL: defaultUpstreamURL,
		Model:       "gpt-3.5-turbo",
		Temperature: 0.7,
		MaxTokens:   1000,
		Timeout:     2 * time.Minute,
	}
}
