// File: internal/handlers/auth_handlers.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/venkyai/venky-chat/internal/ratelimit"
	"github.com/venkyai/venky-chat/internal/services/user_services"
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	AuthService *user_services.AuthService
	Limiter     *ratelimit.MemoryRateLimiter
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *user_services.AuthService, limiter *ratelimit.MemoryRateLimiter) *AuthHandler {
	return &AuthHandler{AuthService: service, Limiter: limiter}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registrations.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.AuthService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		field, status := classifyAuthError(err)
		writeFieldError(w, field, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

// Login validates user credentials, sets the auth cookie, and returns
// the account profile. Failures carry a field so the form can show the
// message next to the right input.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("Login error: %v", err)
		field, status := classifyAuthError(err)
		writeFieldError(w, field, err.Error(), status)
		return
	}

	// Successful login resets this client's attempt counter.
	if h.Limiter != nil {
		h.Limiter.RecordSuccess(ratelimit.GetClientIP(r))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, account)
}

// Logout clears the auth cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// classifyAuthError maps service errors to the form field they belong
// to and a status code.
func classifyAuthError(err error) (string, int) {
	switch {
	case errors.Is(err, user_services.ErrMalformedEmail):
		return "email", http.StatusBadRequest
	case errors.Is(err, user_services.ErrUnknownAccount):
		return "email", http.StatusUnauthorized
	case errors.Is(err, user_services.ErrEmailTaken):
		return "email", http.StatusConflict
	case errors.Is(err, user_services.ErrWrongPassword):
		return "password", http.StatusUnauthorized
	case errors.Is(err, user_services.ErrUsernameTaken):
		return "username", http.StatusConflict
	default:
		return "", http.StatusInternalServerError
	}
}
