package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

// LatestQuestionsLimit caps the index page.
const LatestQuestionsLimit = 5

type pollService struct {
	repo ports.QuestionRepository
	now  func() time.Time
}

func NewPollService(repo ports.QuestionRepository) ports.PollService {
	return &pollService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreateQuestionInput) (*domain.Question, error) {
	text := strings.TrimSpace(input.QuestionText)
	if text == "" {
		return nil, domain.NewValidationError("Question text is required.", nil)
	}

	questionID := uuid.New()
	pubDate := s.now()
	if input.PubDate != nil {
		pubDate = *input.PubDate
	}

	question := &domain.Question{
		ID:           questionID,
		QuestionText: text,
		PubDate:      pubDate.UTC().Truncate(time.Microsecond),
	}

	for _, choiceText := range input.Choices {
		choiceText = strings.TrimSpace(choiceText)
		if choiceText == "" {
			continue
		}
		question.Choices = append(question.Choices, domain.Choice{
			ID:         uuid.New(),
			QuestionID: questionID,
			ChoiceText: choiceText,
		})
	}

	if len(question.Choices) < 2 {
		return nil, domain.NewValidationError("At least two choices are required.", nil)
	}

	if err := s.repo.Save(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to save question: %w", err)
	}

	return question, nil
}

// Latest returns the most recently published questions, newest first.
func (s *pollService) Latest(ctx context.Context) ([]*domain.Question, error) {
	questions, err := s.repo.ListPublished(ctx, s.now(), LatestQuestionsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (s *pollService) Detail(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	return s.published(ctx, id)
}

func (s *pollService) Results(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	question, err := s.published(ctx, id)
	if err != nil {
		return nil, err
	}
	question.ComputePercentages()
	return question, nil
}

// published hides questions whose pub date is still ahead.
func (s *pollService) published(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	question, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if !question.Published(s.now()) {
		return nil, domain.ErrQuestionNotFound
	}
	return question, nil
}
