package decision

import (
	"errors"
	"fmt"

	valuationDomain "crelend-backend/internal/domain/valuation"

	"github.com/shopspring/decimal"
)

// DefaultThresholdPct is the LTV percentage at or below which a loan is approved.
const DefaultThresholdPct = 75

var ErrInvalidInput = errors.New("invalid decision input")

type Outcome struct {
	// LTVRatio is a percentage rounded half-up to 2 decimal places.
	LTVRatio decimal.Decimal
	Decision valuationDomain.Decision
}

// Engine is a pure loan-to-value calculator. It holds no per-request state;
// construct once and share.
type Engine struct {
	threshold decimal.Decimal
}

func NewEngine(thresholdPct decimal.Decimal) *Engine {
	return &Engine{threshold: thresholdPct}
}

func NewDefaultEngine() *Engine {
	return NewEngine(decimal.NewFromInt(DefaultThresholdPct))
}

// Decide computes ltv = loanAmount / propertyValue * 100 (2dp, half-up) and
// approves iff ltv <= threshold. Deterministic: same inputs, same outcome.
func (e *Engine) Decide(loanAmount, propertyValue decimal.Decimal) (Outcome, error) {
	if propertyValue.LessThanOrEqual(decimal.Zero) {
		return Outcome{}, fmt.Errorf("%w: property value must be greater than zero", ErrInvalidInput)
	}
	if loanAmount.IsNegative() {
		return Outcome{}, fmt.Errorf("%w: loan amount cannot be negative", ErrInvalidInput)
	}

	ltv := loanAmount.Div(propertyValue).Mul(decimal.NewFromInt(100)).Round(2)

	d := valuationDomain.DecisionRejected
	if ltv.LessThanOrEqual(e.threshold) {
		d = valuationDomain.DecisionApproved
	}
	return Outcome{LTVRatio: ltv, Decision: d}, nil
}
