package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is one row of the vote ledger. Choice.Votes is the running tally
// derived from it.
type Vote struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	ChoiceID   uuid.UUID `json:"choice_id"`
	VoterIP    string    `json:"voter_ip"`
	CreatedAt  time.Time `json:"created_at"`
}
