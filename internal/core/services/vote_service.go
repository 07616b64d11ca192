package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

type voteService struct {
	questionRepo ports.QuestionRepository
	voteRepo     ports.VoteRepository
	publisher    ports.ResultsPublisher
	now          func() time.Time
}

// NewVoteService wires the vote flow. publisher may be nil.
func NewVoteService(questionRepo ports.QuestionRepository, voteRepo ports.VoteRepository, publisher ports.ResultsPublisher) ports.VoteService {
	return &voteService{
		questionRepo: questionRepo,
		voteRepo:     voteRepo,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (s *voteService) Vote(ctx context.Context, input ports.VoteInput) (*domain.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, input.QuestionID)
	if err != nil {
		return nil, err
	}
	if !question.Published(s.now()) {
		return nil, domain.ErrQuestionNotFound
	}
	if !question.HasChoice(input.ChoiceID) {
		return nil, domain.ErrInvalidChoice
	}

	vote := &domain.Vote{
		ID:         uuid.New(),
		QuestionID: input.QuestionID,
		ChoiceID:   input.ChoiceID,
		VoterIP:    input.VoterIP,
		CreatedAt:  s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.voteRepo.CastVote(ctx, vote); err != nil {
		if errors.Is(err, domain.ErrInvalidChoice) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to cast vote: %w", err)
	}

	updated, err := s.questionRepo.GetByID(ctx, input.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload question: %w", err)
	}
	updated.ComputePercentages()

	if s.publisher != nil {
		if err := s.publisher.PublishResults(ctx, updated); err != nil {
			log.Warn().Err(err).Str("question_id", updated.ID.String()).Msg("failed to publish live results")
		}
	}

	return updated, nil
}
