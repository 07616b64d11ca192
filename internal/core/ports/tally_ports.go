package ports

import (
	"context"

	"github.com/google/uuid"
)

type TallyRepository interface {
	Recount(ctx context.Context, questionID uuid.UUID) error
}

type TallyService interface {
	RecountAll(ctx context.Context) error
}
