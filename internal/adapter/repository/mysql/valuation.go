package mysql

import (
	"context"

	valuationDomain "crelend-backend/internal/domain/valuation"

	"gorm.io/gorm"
)

type ValuationRepository struct{ db *gorm.DB }

func NewValuationRepository(db *gorm.DB) *ValuationRepository {
	return &ValuationRepository{db: db}
}

// Tx helper (optional) — bind this repo to a transaction when needed.
func (r *ValuationRepository) Tx(ctx context.Context, fn func(repo *ValuationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ValuationRepository{db: tx})
	})
}

func (r *ValuationRepository) Create(ctx context.Context, v *valuationDomain.Valuation) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *ValuationRepository) GetByLoanID(ctx context.Context, loanNumericID uint64) (*valuationDomain.Valuation, error) {
	var out valuationDomain.Valuation
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		First(&out)
	return &out, res.Error
}

func (r *ValuationRepository) GetByValuationID(ctx context.Context, valuationID string) (*valuationDomain.Valuation, error) {
	var out valuationDomain.Valuation
	res := r.db.WithContext(ctx).
		Where("valuation_id = ?", valuationID).
		First(&out)
	return &out, res.Error
}
