// File: internal/proxy/handler_test.go
package proxy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, upstreamURL string) *Handler {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SharedSecret = "shared-secret"
	cfg.APIKey = "real-provider-key"
	cfg.UpstreamURL = upstreamURL
	cfg.Timeout = 5 * time.Second

	h, err := NewHandler(cfg)
	require.NoError(t, err)
	return h
}

const validBody = `{"messages":[{"role":"user","content":"hi"}],"systemPrompt":"be helpful"}`

func TestProxyRejectsNonPost(t *testing.T) {
	upstreamCalls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
	}))
	defer upstream.Close()

	h := newTestHandler(t, upstream.URL)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, 0, upstreamCalls)
}

func TestProxyRejectsBadBearerToken(t *testing.T) {
	upstreamCalls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
	}))
	defer upstream.Close()

	h := newTestHandler(t, upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(validBody))
	req.Header.Set("Authorization", "Bearer wrong-secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, upstreamCalls)

	// Missing header entirely is also rejected.
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(validBody))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, upstreamCalls)
}

func TestProxyRejectsMalformedBody(t *testing.T) {
	h := newTestHandler(t, "http://unreachable.invalid")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer shared-secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProxyForwardsAndRelays(t *testing.T) {
	var gotAuth string
	var gotReq upstreamRequest
	upstreamCalls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls++
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	}))
	defer upstream.Close()

	h := newTestHandler(t, upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(validBody))
	req.Header.Set("Authorization", "Bearer shared-secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, upstreamCalls)
	assert.JSONEq(t, `{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`, rec.Body.String())

	// The server-held credential goes upstream, never the shared secret.
	assert.Equal(t, "Bearer real-provider-key", gotAuth)

	assert.Equal(t, "gpt-3.5-turbo", gotReq.Model)
	assert.InDelta(t, 0.7, gotReq.Temperature, 0.001)
	assert.Equal(t, 1000, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "be helpful", gotReq.Messages[0].Content)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
}

func TestProxyRelaysUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer upstream.Close()

	h := newTestHandler(t, upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(validBody))
	req.Header.Set("Authorization", "Bearer shared-secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":{"message":"rate limited"}}`, rec.Body.String())
}

func TestProxyUpstreamFailureIsGeneric500(t *testing.T) {
	h := newTestHandler(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(validBody))
	req.Header.Set("Authorization", "Bearer shared-secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// The credential never leaks into the response.
	assert.NotContains(t, rec.Body.String(), "real-provider-key")
}
