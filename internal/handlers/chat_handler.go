// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/venkyai/venky-chat/internal/domain"
	"github.com/venkyai/venky-chat/internal/middleware"
	"github.com/venkyai/venky-chat/internal/repository/session"
	"github.com/venkyai/venky-chat/internal/services"
	"github.com/venkyai/venky-chat/internal/services/render"
)

type ChatHandler struct {
	ChatService *services.ChatService
}

func NewChatHandler(cs *services.ChatService) (*ChatHandler, error) {
	if cs == nil {
		return nil, errors.New("chat service is required")
	}
	return &ChatHandler{ChatService: cs}, nil
}

// messageDTO is a message plus its rendered HTML for display.
type messageDTO struct {
	domain.Message
	ContentHTML string `json:"content_html,omitempty"`
}

// sessionDTO is a session with display-ready messages.
type sessionDTO struct {
	domain.ChatSession
	Messages []messageDTO `json:"messages"`
}

func toSessionDTO(s domain.ChatSession) sessionDTO {
	messages := make([]messageDTO, 0, len(s.Messages))
	for _, msg := range s.Messages {
		dto := messageDTO{Message: msg}
		if msg.Sender == domain.SenderAssistant {
			dto.ContentHTML = render.Markdown(msg.Content)
		}
		messages = append(messages, dto)
	}
	return sessionDTO{ChatSession: s, Messages: messages}
}

// GetUserSessions returns all of the user's sessions, most recently
// updated first. Store failures degrade to an empty list.
func (h *ChatHandler) GetUserSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sessions := h.ChatService.GetUserSessions(r.Context(), userID)
	dtos := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, toSessionDTO(s))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateSession hands out a fresh empty session. Nothing is stored
// until the first exchange completes.
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionDTO(h.ChatService.NewSession()))
}

// GetSession returns one session by id.
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sess, err := h.ChatService.GetSession(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			writeError(w, "Session not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not retrieve session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toSessionDTO(*sess))
}

// DeleteSession removes one session by id.
func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.ChatService.DeleteSession(r.Context(), userID, mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrUnauthorizedAccess) {
			writeError(w, "Session not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not delete session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sendMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type sendMessageResponse struct {
	Session sessionDTO           `json:"session"`
	Outcome services.SendOutcome `json:"outcome"`
}

// SendMessage runs one exchange: the message is appended to the named
// session (or a fresh one when no session id is given) and answered.
// An admin command from the privileged account updates the system
// prompt instead of chatting.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, "Message cannot be empty", http.StatusBadRequest)
		return
	}

	var sess domain.ChatSession
	if req.SessionID == "" {
		sess = h.ChatService.NewSession()
	} else {
		found, err := h.ChatService.GetSession(r.Context(), userID, req.SessionID)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				writeError(w, "Session not found", http.StatusNotFound)
				return
			}
			writeError(w, "Could not retrieve session", http.StatusInternalServerError)
			return
		}
		sess = *found
	}

	updated, outcome, err := h.ChatService.SendMessage(r.Context(), userID, sess, req.Message)
	if err != nil {
		writeError(w, "Error processing chat: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		Session: toSessionDTO(updated),
		Outcome: outcome,
	})
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeFieldError attaches the form field an auth error belongs to.
func writeFieldError(w http.ResponseWriter, field, message string, status int) {
	if field == "" {
		writeError(w, message, status)
		return
	}
	writeJSON(w, status, map[string]string{"error": message, "field": field})
}
