package valuation

import "context"

type Repository interface {
	// Create a new valuation (DB uniqueness ensures at most one per loan)
	Create(ctx context.Context, v *Valuation) error

	// Get valuation by the loan's numeric ID
	GetByLoanID(ctx context.Context, loanID uint64) (*Valuation, error)

	// Get by public valuation_id
	GetByValuationID(ctx context.Context, valuationID string) (*Valuation, error)
}
