package valuation

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

var (
	ErrNotFound      = errors.New("valuation not found")
	ErrAlreadyExists = errors.New("loan already has a valuation")
)

// Table: valuations. The unique index on loan_id is the store-level guarantee
// of at most one valuation per loan; the orchestrator's guard backstops it.
type Valuation struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ValuationID string `gorm:"column:valuation_id;type:char(32);not null;uniqueIndex:ux_valuations_valuation_id" json:"valuation_id"`
	// FK to loans.id (numeric)
	LoanID uint64 `gorm:"column:loan_id;not null;uniqueIndex:ux_valuations_loan" json:"-"`

	EstimatedValue decimal.Decimal `gorm:"column:estimated_value;type:decimal(18,2);not null" json:"estimated_value"`
	LTVRatio       decimal.Decimal `gorm:"column:ltv_ratio;type:decimal(6,2);not null" json:"ltv_ratio"`
	Decision       Decision        `gorm:"column:decision;type:enum('approved','rejected');not null" json:"decision"`
	ValuedAt       time.Time       `gorm:"column:valued_at;not null" json:"valued_at"`
	Methodology    string          `gorm:"column:methodology;type:text" json:"methodology,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Valuation) TableName() string { return "valuations" }
