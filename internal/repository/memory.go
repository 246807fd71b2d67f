package repository

import (
	"context"
	"sync"
	"time"

	"zippyhand/internal/models"
)

// MemorySessionRepository keeps sessions in process memory. It backs the
// failover wrapper so the admin surface stays usable during a Redis outage;
// sessions stored here do not survive a restart.
type MemorySessionRepository struct {
	sessions sync.Map
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{}
}

func (r *MemorySessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	val, ok := r.sessions.Load(token)
	if !ok {
		return nil, nil
	}
	session := val.(*models.Session)
	if session.Expired(time.Now()) {
		r.sessions.Delete(token)
		return nil, nil
	}
	return session, nil
}

func (r *MemorySessionRepository) Set(ctx context.Context, session *models.Session) error {
	r.sessions.Store(session.Token, session)
	return nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, token string) error {
	r.sessions.Delete(token)
	return nil
}
