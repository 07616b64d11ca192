package ports

import "context"

type CalculatorService interface {
	Compute(ctx context.Context, code string) (string, error)
}
