package valuationmock

import (
	"context"

	domain "crelend-backend/internal/domain/valuation"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn           func(ctx context.Context, v *domain.Valuation) error
	GetByLoanIDFn      func(ctx context.Context, loanNumericID uint64) (*domain.Valuation, error)
	GetByValuationIDFn func(ctx context.Context, valuationID string) (*domain.Valuation, error)
}

func (m *Repo) Create(ctx context.Context, v *domain.Valuation) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, v)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanNumericID uint64) (*domain.Valuation, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanNumericID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByValuationID(ctx context.Context, valuationID string) (*domain.Valuation, error) {
	if m.GetByValuationIDFn != nil {
		return m.GetByValuationIDFn(ctx, valuationID)
	}
	return nil, context.Canceled
}
