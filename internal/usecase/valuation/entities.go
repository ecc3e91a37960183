package valuation

import (
	"time"

	"github.com/shopspring/decimal"
)

type ValuationDTO struct {
	ValuationID    string          `json:"valuation_id"`
	LoanID         string          `json:"loan_id"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	LTVRatio       decimal.Decimal `json:"ltv_ratio"`
	Decision       string          `json:"decision"`
	ValuedAt       time.Time       `json:"valued_at"`
	Methodology    string          `json:"methodology,omitempty"`
	LoanStatus     string          `json:"loan_status"`
}
