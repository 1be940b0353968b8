// File: internal/repository/session/file_session_repository.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/venkyai/venky-chat/internal/domain"
)

// fileSessionRepository is the fallback store used when no database is
// configured: an owner-keyed map of user id to session list, serialized
// as a single JSON blob and loaded/saved wholesale on every operation.
type fileSessionRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileSessionRepository(path string) SessionRepository {
	return &fileSessionRepository{path: path}
}

func (r *fileSessionRepository) Save(_ context.Context, userID uint, session domain.ChatSession) error {
	if userID == 0 {
		return errors.New("invalid user ID")
	}
	if session.ID == "" {
		return errors.New("session ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.loadAll()
	key := strconv.FormatUint(uint64(userID), 10)
	sessions := all[key]

	replaced := false
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append([]domain.ChatSession{session}, sessions...)
	}
	all[key] = sessions

	return r.saveAll(all)
}

func (r *fileSessionRepository) FindByUserID(_ context.Context, userID uint) ([]domain.ChatSession, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := r.loadAll()[strconv.FormatUint(uint64(userID), 10)]
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

func (r *fileSessionRepository) FindByID(_ context.Context, userID uint, sessionID string) (*domain.ChatSession, error) {
	if userID == 0 || sessionID == "" {
		return nil, errors.New("invalid user or session ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.loadAll()[strconv.FormatUint(uint64(userID), 10)] {
		if s.ID == sessionID {
			found := s
			return &found, nil
		}
	}
	return nil, ErrSessionNotFound
}

func (r *fileSessionRepository) Delete(_ context.Context, userID uint, sessionID string) error {
	if userID == 0 || sessionID == "" {
		return errors.New("invalid user or session ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.loadAll()
	key := strconv.FormatUint(uint64(userID), 10)
	sessions := all[key]

	kept := sessions[:0]
	for _, s := range sessions {
		if s.ID != sessionID {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(sessions) {
		return ErrSessionNotFound
	}
	all[key] = kept

	return r.saveAll(all)
}

// loadAll reads the whole blob. Read failures fall back to an empty
// map so reads never interrupt the user flow.
func (r *fileSessionRepository) loadAll() map[string][]domain.ChatSession {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[FileSessionRepository] Error reading %s: %v", r.path, err)
		}
		return map[string][]domain.ChatSession{}
	}

	var all map[string][]domain.ChatSession
	if err := json.Unmarshal(data, &all); err != nil {
		log.Printf("[FileSessionRepository] Error parsing %s: %v", r.path, err)
		return map[string][]domain.ChatSession{}
	}
	if all == nil {
		all = map[string][]domain.ChatSession{}
	}
	return all
}

func (r *fileSessionRepository) saveAll(all map[string][]domain.ChatSession) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encoding session store: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		log.Printf("[FileSessionRepository] Error writing %s: %v", r.path, err)
		return fmt.Errorf("writing session store: %w", err)
	}
	return nil
}
