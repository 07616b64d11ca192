package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTally struct {
	calls atomic.Int32
}

func (c *countingTally) RecountAll(ctx context.Context) error {
	c.calls.Add(1)
	return nil
}

func TestNew_RejectsInvalidSchedule(t *testing.T) {
	_, err := New("every now and then", &countingTally{})
	assert.Error(t, err)
}

func TestScheduler_RunsJob(t *testing.T) {
	tally := &countingTally{}
	s, err := New("@every 1s", tally)
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return tally.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestScheduler_RunOnce(t *testing.T) {
	tally := &countingTally{}
	s, err := New("@hourly", tally)
	require.NoError(t, err)

	s.RunOnce()
	assert.Equal(t, int32(1), tally.calls.Load())
}
