package uow

import (
	"context"

	"crelend-backend/internal/domain/loan"
	"crelend-backend/internal/domain/valuation"
)

type Repos struct {
	Loans      loan.Repository
	Valuations valuation.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
