package services

import (
	"context"

	"github.com/vncsmyrnk/webapps/internal/core/calc"
	"github.com/vncsmyrnk/webapps/internal/core/ports"
)

type calculatorService struct {
	evaluator *calc.Evaluator
}

func NewCalculatorService(maxLength int) ports.CalculatorService {
	return &calculatorService{
		evaluator: calc.NewEvaluator(maxLength),
	}
}

func (s *calculatorService) Compute(ctx context.Context, code string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, err := s.evaluator.Evaluate(code)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}
