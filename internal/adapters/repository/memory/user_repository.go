package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.usernames[username]
	if !ok {
		return nil, nil
	}
	user := r.store.users[id]
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, taken := r.store.usernames[user.Username]; taken {
		return domain.ErrUsernameTaken
	}
	r.store.users[user.ID] = *user
	r.store.usernames[user.Username] = user.ID
	return nil
}
