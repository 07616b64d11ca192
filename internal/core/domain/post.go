package domain

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Created        time.Time `json:"created"`
	AuthorID       uuid.UUID `json:"author_id"`
	AuthorUsername string    `json:"username"`
}
