package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

type tallyService struct {
	questionRepo ports.QuestionRepository
	tallyRepo    ports.TallyRepository
}

func NewTallyService(questionRepo ports.QuestionRepository, tallyRepo ports.TallyRepository) ports.TallyService {
	return &tallyService{
		questionRepo: questionRepo,
		tallyRepo:    tallyRepo,
	}
}

// RecountAll rebuilds every question's choice counters from the vote
// ledger. Questions are recounted concurrently and all failures are
// reported together.
func (s *tallyService) RecountAll(ctx context.Context) error {
	questions, err := s.questionRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch all questions: %w", err)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(questions))

	for _, question := range questions {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if err := s.tallyRepo.Recount(ctx, id); err != nil {
				errChan <- fmt.Errorf("failed to recount question %s: %w", id, err)
			}
		}(question.ID)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
