// Package scheduler runs the vote tally recount on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

const defaultJobTimeout = 5 * time.Minute

type Scheduler struct {
	cron       *cron.Cron
	tally      ports.TallyService
	jobTimeout time.Duration
}

// New registers the recount job. spec accepts standard five field cron
// expressions and descriptors such as "@every 10m".
func New(spec string, tally ports.TallyService) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid vote tally schedule %q: %w", spec, err)
	}

	s := &Scheduler{
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		tally:      tally,
		jobTimeout: defaultJobTimeout,
	}
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("failed to schedule vote tally: %w", err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	log.Info().Msg("starting vote tally scheduler")
	s.cron.Start()
}

// Stop prevents new runs and waits for a running recount, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		log.Warn().Msg("vote tally still running at shutdown")
	}
}

// RunOnce recounts every question and logs the outcome.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	start := time.Now()
	if err := s.tally.RecountAll(ctx); err != nil {
		log.Error().Err(err).Msg("vote tally failed")
		return
	}
	log.Info().Dur("duration", time.Since(start)).Msg("vote tally completed")
}
