package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
)

type voteRepository struct {
	store *Store
}

// CastVote appends to the ledger and bumps the counter under one lock.
func (r *voteRepository) CastVote(ctx context.Context, vote *domain.Vote) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	q, ok := r.store.questions[vote.QuestionID]
	if !ok {
		return domain.ErrInvalidChoice
	}
	for i := range q.Choices {
		if q.Choices[i].ID == vote.ChoiceID {
			q.Choices[i].Votes++
			r.store.votes = append(r.store.votes, *vote)
			return nil
		}
	}
	return domain.ErrInvalidChoice
}

type tallyRepository struct {
	store *Store
}

func (r *tallyRepository) Recount(ctx context.Context, questionID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	q, ok := r.store.questions[questionID]
	if !ok {
		return domain.ErrQuestionNotFound
	}

	counts := make(map[uuid.UUID]int64)
	for _, v := range r.store.votes {
		if v.QuestionID == questionID {
			counts[v.ChoiceID]++
		}
	}
	for i := range q.Choices {
		q.Choices[i].Votes = counts[q.Choices[i].ID]
	}
	return nil
}
