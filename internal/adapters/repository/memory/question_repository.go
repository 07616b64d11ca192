package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
)

type questionRepository struct {
	store *Store
}

func (r *questionRepository) Save(ctx context.Context, question *domain.Question) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.questions[question.ID] = *copyQuestion(*question)
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	q, ok := r.store.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return copyQuestion(q), nil
}

func (r *questionRepository) GetAll(ctx context.Context) ([]*domain.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	questions := make([]*domain.Question, 0, len(r.store.questions))
	for _, q := range r.store.questions {
		questions = append(questions, copyQuestion(q))
	}
	sortNewestFirst(questions)
	return questions, nil
}

func (r *questionRepository) ListPublished(ctx context.Context, now time.Time, limit int) ([]*domain.Question, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var questions []*domain.Question
	for _, q := range r.store.questions {
		if q.Published(now) {
			questions = append(questions, copyQuestion(q))
		}
	}
	sortNewestFirst(questions)
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}

func sortNewestFirst(questions []*domain.Question) {
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].PubDate.After(questions[j].PubDate)
	})
}
