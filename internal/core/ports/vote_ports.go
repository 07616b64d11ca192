package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
)

type VoteRepository interface {
	// CastVote records the vote and increments the choice tally atomically.
	// It returns domain.ErrInvalidChoice when the choice does not belong to
	// the question.
	CastVote(ctx context.Context, vote *domain.Vote) error
}

type VoteInput struct {
	QuestionID uuid.UUID
	ChoiceID   uuid.UUID
	VoterIP    string
}

type VoteService interface {
	Vote(ctx context.Context, input VoteInput) (*domain.Question, error)
}

// ResultsPublisher pushes updated question results to live subscribers.
type ResultsPublisher interface {
	PublishResults(ctx context.Context, question *domain.Question) error
}
