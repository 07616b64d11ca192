package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
)

type postRepository struct {
	store *Store
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.postSeq++
	r.store.posts[post.ID] = storedPost{post: *post, seq: r.store.postSeq}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sp, ok := r.store.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return r.withAuthor(sp.post), nil
}

// List returns posts newest first; posts created at the same instant keep
// reverse insertion order.
func (r *postRepository) List(ctx context.Context) ([]*domain.Post, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	stored := make([]storedPost, 0, len(r.store.posts))
	for _, sp := range r.store.posts {
		stored = append(stored, sp)
	}
	sort.Slice(stored, func(i, j int) bool {
		if !stored[i].post.Created.Equal(stored[j].post.Created) {
			return stored[i].post.Created.After(stored[j].post.Created)
		}
		return stored[i].seq > stored[j].seq
	})

	posts := make([]*domain.Post, 0, len(stored))
	for _, sp := range stored {
		posts = append(posts, r.withAuthor(sp.post))
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	sp, ok := r.store.posts[post.ID]
	if !ok {
		return domain.ErrPostNotFound
	}
	sp.post.Title = post.Title
	sp.post.Body = post.Body
	r.store.posts[post.ID] = sp
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.store.posts, id)
	return nil
}

// withAuthor must be called with the store lock held.
func (r *postRepository) withAuthor(post domain.Post) *domain.Post {
	if user, ok := r.store.users[post.AuthorID]; ok {
		post.AuthorUsername = user.Username
	}
	return &post
}
