package valuator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crelend-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
)

const DefaultTimeout = 5 * time.Second

// Failure taxonomy. The orchestrator treats all of these as "valuation
// failed"; callers may still tell them apart with errors.Is.
var (
	ErrTimeout     = errors.New("valuation service timed out")
	ErrRejected    = errors.New("valuation service rejected the request")
	ErrUnreachable = errors.New("valuation service unreachable")
)

type Breakdown struct {
	BaseValue          decimal.Decimal `json:"base_value"`
	DepreciationFactor decimal.Decimal `json:"depreciation_factor"`
	FinalValue         decimal.Decimal `json:"final_value"`
}

type Result struct {
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	ValuationDate  time.Time       `json:"valuation_date"`
	Methodology    string          `json:"methodology"`
	Breakdown      Breakdown       `json:"breakdown"`
}

type valuateRequest struct {
	PropertyType loan.PropertyType `json:"property_type"`
	SizeSqft     int64             `json:"size_sqft"`
	AgeYears     int64             `json:"age_years"`
}

type errorPayload struct {
	Detail string `json:"detail"`
}

// Client calls the external property valuation calculator. It is stateless
// and safe for concurrent use; construct once and share.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// RequestValuation asks the calculator for an estimate. The calculator is the
// validation authority for numeric ranges; no re-validation happens here.
func (c *Client) RequestValuation(ctx context.Context, propertyType loan.PropertyType, sizeSqft, ageYears int64) (*Result, error) {
	body, err := json.Marshal(valuateRequest{
		PropertyType: propertyType,
		SizeSqft:     sizeSqft,
		AgeYears:     ageYears,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/valuate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransportErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", ErrRejected, remoteDetail(resp))
	}

	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode valuation response: %w", err)
	}
	return &out, nil
}

// HealthCheck reports whether the calculator answers its health endpoint.
// Never returns an error; meant for operational tooling only.
func (c *Client) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func classifyTransportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

func remoteDetail(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var p errorPayload
	if err := json.Unmarshal(raw, &p); err == nil && p.Detail != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, p.Detail)
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
