package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
)

type sessionRepository struct {
	store *Store
}

func (r *sessionRepository) CreateSession(ctx context.Context, session *domain.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.sessions[session.ID] = *session
	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	session, ok := r.store.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepository) RevokeSession(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if session, ok := r.store.sessions[id]; ok {
		session.Revoked = true
		r.store.sessions[id] = session
	}
	return nil
}
