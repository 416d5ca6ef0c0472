package repository

import (
	"context"
	"sync"
	"time"

	"github.com/gpdecorators/site/internal/model"
)

// memorySessionRepository keeps sessions in process memory. Used when no
// DATABASE_URL is configured; sessions do not survive a restart.
type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]model.Session
}

// NewMemorySessionRepository returns an in-memory SessionRepository.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{sessions: make(map[string]model.Session)}
}

func (r *memorySessionRepository) Create(_ context.Context, s *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.Token] = *s
	return nil
}

func (r *memorySessionRepository) FindByToken(_ context.Context, token string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *memorySessionRepository) DeleteByToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func (r *memorySessionRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for token, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}
