package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/webapps/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/webapps/internal/core/domain"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

func TestPollService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewPollService(memory.NewStore().Questions())

	tests := []struct {
		name  string
		input ports.CreateQuestionInput
	}{
		{"missing text", ports.CreateQuestionInput{Choices: []string{"a", "b"}}},
		{"one choice", ports.CreateQuestionInput{QuestionText: "q", Choices: []string{"a"}}},
		{"blank choices do not count", ports.CreateQuestionInput{QuestionText: "q", Choices: []string{"a", " ", ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	q, err := svc.Create(ctx, ports.CreateQuestionInput{QuestionText: " What's new? ", Choices: []string{"Not much", "", "The sky"}})
	require.NoError(t, err)
	assert.Equal(t, "What's new?", q.QuestionText)
	require.Len(t, q.Choices, 2)
	assert.Equal(t, q.ID, q.Choices[0].QuestionID)
}

func TestPollService_LatestHidesFutureQuestions(t *testing.T) {
	ctx := context.Background()
	svc := NewPollService(memory.NewStore().Questions())
	now := time.Now()

	future := now.Add(24 * time.Hour)
	_, err := svc.Create(ctx, ports.CreateQuestionInput{QuestionText: "future", PubDate: &future, Choices: []string{"a", "b"}})
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		pub := now.Add(-time.Duration(i+1) * time.Hour)
		_, err := svc.Create(ctx, ports.CreateQuestionInput{QuestionText: fmt.Sprintf("past %d", i), PubDate: &pub, Choices: []string{"a", "b"}})
		require.NoError(t, err)
	}

	latest, err := svc.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, latest, LatestQuestionsLimit)
	assert.Equal(t, "past 0", latest[0].QuestionText)
	assert.Equal(t, "past 4", latest[4].QuestionText)
}

func TestPollService_DetailAndResults(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewPollService(store.Questions())

	future := time.Now().Add(time.Hour)
	hidden, err := svc.Create(ctx, ports.CreateQuestionInput{QuestionText: "later", PubDate: &future, Choices: []string{"a", "b"}})
	require.NoError(t, err)
	_, err = svc.Detail(ctx, hidden.ID)
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)
	_, err = svc.Results(ctx, hidden.ID)
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)

	_, err = svc.Detail(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrQuestionNotFound)

	q, err := svc.Create(ctx, ports.CreateQuestionInput{QuestionText: "now", Choices: []string{"a", "b"}})
	require.NoError(t, err)
	for _, choiceID := range []uuid.UUID{q.Choices[0].ID, q.Choices[0].ID, q.Choices[0].ID, q.Choices[1].ID} {
		require.NoError(t, store.Votes().CastVote(ctx, &domain.Vote{ID: uuid.New(), QuestionID: q.ID, ChoiceID: choiceID}))
	}

	results, err := svc.Results(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), results.TotalVotes())
	assert.InDelta(t, 75.0, results.Choices[0].Percentage, 0.001)
	assert.InDelta(t, 25.0, results.Choices[1].Percentage, 0.001)
}
