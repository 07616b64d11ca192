package domain

import (
	"time"

	"github.com/google/uuid"
)

type Question struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"question_text"`
	PubDate      time.Time `json:"pub_date"`
	Choices      []Choice  `json:"choices"`
}

type Choice struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	ChoiceText string    `json:"choice_text"`
	Votes      int64     `json:"votes"`
	Percentage float64   `json:"percentage"`
}

// WasPublishedRecently reports whether the question went public within the
// day before now. Questions dated in the future are not recent.
func (q *Question) WasPublishedRecently(now time.Time) bool {
	return !q.PubDate.After(now) && !q.PubDate.Before(now.Add(-24*time.Hour))
}

func (q *Question) Published(now time.Time) bool {
	return !q.PubDate.After(now)
}

func (q *Question) TotalVotes() int64 {
	var total int64
	for _, c := range q.Choices {
		total += c.Votes
	}
	return total
}

// ComputePercentages fills Choice.Percentage from the current vote counts.
func (q *Question) ComputePercentages() {
	total := q.TotalVotes()
	for i := range q.Choices {
		q.Choices[i].Percentage = 0
		if total > 0 {
			q.Choices[i].Percentage = float64(q.Choices[i].Votes) / float64(total) * 100
		}
	}
}

func (q *Question) HasChoice(id uuid.UUID) bool {
	for _, c := range q.Choices {
		if c.ID == id {
			return true
		}
	}
	return false
}
