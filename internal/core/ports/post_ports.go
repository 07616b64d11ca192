package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
)

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	List(ctx context.Context) ([]*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostInput struct {
	Title string
	Body  string
}

type PostService interface {
	List(ctx context.Context) ([]*domain.Post, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	GetForAuthor(ctx context.Context, id, userID uuid.UUID) (*domain.Post, error)
	Create(ctx context.Context, authorID uuid.UUID, input PostInput) (*domain.Post, error)
	Update(ctx context.Context, id, userID uuid.UUID, input PostInput) (*domain.Post, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
