// File: internal/proxy/handler.go
package proxy

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// Handler is the stateless forwarding function: it authorizes the
// caller with the shared secret, injects the real provider credential,
// forwards the transcript upstream, and relays the raw response.
type Handler struct {
	config *Config
	client *http.Client
}

func NewHandler(config *Config) (*Handler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Handler{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}, nil
}

type forwardRequest struct {
	Messages     []chatMessage `json:"messages"`
	SystemPrompt string        `json:"systemPrompt"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// upstreamRequest is the body forwarded to the provider.
type upstreamRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	authHeader := r.Header.Get("Authorization")
	expected := "Bearer " + h.config.SharedSecret
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(expected)) != 1 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req forwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	messages := make([]chatMessage, 0, len(req.Messages)+1)
	messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	messages = append(messages, req.Messages...)

	body, err := json.Marshal(upstreamRequest{
		Model:       h.config.Model,
		Messages:    messages,
		Temperature: h.config.Temperature,
		MaxTokens:   h.config.MaxTokens,
	})
	if err != nil {
		h.internalError(w, err)
		return
	}

	upstream, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.config.UpstreamURL, bytes.NewReader(body))
	if err != nil {
		h.internalError(w, err)
		return
	}
	upstream.Header.Set("Content-Type", "application/json")
	upstream.Header.Set("Authorization", "Bearer "+h.config.APIKey)

	resp, err := h.client.Do(upstream)
	if err != nil {
		// The transport error may embed the request URL but never the
		// credential; safe to log.
		h.internalError(w, err)
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		h.internalError(w, err)
		return
	}

	// Relay the provider's response body and status verbatim.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(data)
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	log.Printf("[Proxy] Forwarding failed: %v", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
