package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
)

type QuestionRepository interface {
	Save(ctx context.Context, question *domain.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	GetAll(ctx context.Context) ([]*domain.Question, error)
	ListPublished(ctx context.Context, now time.Time, limit int) ([]*domain.Question, error)
}

type CreateQuestionInput struct {
	QuestionText string
	PubDate      *time.Time
	Choices      []string
}

type PollService interface {
	Create(ctx context.Context, input CreateQuestionInput) (*domain.Question, error)
	Latest(ctx context.Context) ([]*domain.Question, error)
	Detail(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	Results(ctx context.Context, id uuid.UUID) (*domain.Question, error)
}
