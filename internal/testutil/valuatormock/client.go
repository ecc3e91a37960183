package valuatormock

import (
	"context"

	"crelend-backend/internal/adapter/valuator"
	"crelend-backend/internal/domain/loan"
)

// Client is a function-backed mock for the valuation calculator call.
type Client struct {
	RequestValuationFn func(ctx context.Context, propertyType loan.PropertyType, sizeSqft, ageYears int64) (*valuator.Result, error)
}

func (m *Client) RequestValuation(ctx context.Context, propertyType loan.PropertyType, sizeSqft, ageYears int64) (*valuator.Result, error) {
	if m.RequestValuationFn != nil {
		return m.RequestValuationFn(ctx, propertyType, sizeSqft, ageYears)
	}
	return nil, context.Canceled
}
