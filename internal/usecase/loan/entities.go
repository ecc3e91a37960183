package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateLoanInput struct {
	BorrowerName     string          `json:"borrower_name"`
	BorrowerEmail    string          `json:"borrower_email"`
	BorrowerPhone    string          `json:"borrower_phone"`
	PropertyType     string          `json:"property_type"`
	PropertySizeSqft int64           `json:"property_size_sqft"`
	PropertyAgeYears int64           `json:"property_age_years"`
	PropertyAddress  string          `json:"property_address"`
	Amount           decimal.Decimal `json:"amount"`
}

// UpdateLoanInput rewrites the editable fields wholesale; partial updates are
// the caller's job (read, modify, send back).
type UpdateLoanInput = CreateLoanInput

type ValuationDTO struct {
	ValuationID    string          `json:"valuation_id"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	LTVRatio       decimal.Decimal `json:"ltv_ratio"`
	Decision       string          `json:"decision"`
	ValuedAt       time.Time       `json:"valued_at"`
	Methodology    string          `json:"methodology,omitempty"`
}

type LoanDTO struct {
	LoanID           string          `json:"loan_id"`
	BorrowerName     string          `json:"borrower_name"`
	BorrowerEmail    string          `json:"borrower_email"`
	BorrowerPhone    string          `json:"borrower_phone,omitempty"`
	PropertyType     string          `json:"property_type"`
	PropertySizeSqft int64           `json:"property_size_sqft"`
	PropertyAgeYears int64           `json:"property_age_years"`
	PropertyAddress  string          `json:"property_address,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Valuation        *ValuationDTO   `json:"valuation,omitempty"`
}
