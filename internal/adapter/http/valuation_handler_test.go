package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"crelend-backend/internal/adapter/valuator"
	domain "crelend-backend/internal/domain/loan"
	"crelend-backend/internal/domain/uow"
	domainValuation "crelend-backend/internal/domain/valuation"
	"crelend-backend/internal/testutil/loanmock"
	"crelend-backend/internal/testutil/uowmock"
	"crelend-backend/internal/testutil/valuationmock"
	"crelend-backend/internal/testutil/valuatormock"
	"crelend-backend/internal/usecase/decision"
	valuationUC "crelend-backend/internal/usecase/valuation"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// minimal single-loan UoW for handler tests
func loanUoW(l *domain.Loan, v *domainValuation.Valuation) *uowmock.UoW {
	repos := func() uow.Repos {
		return uow.Repos{
			Loans: &loanmock.Repo{
				GetByLoanIDFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
					if l == nil || l.LoanID != loanID {
						return nil, gorm.ErrRecordNotFound
					}
					return l, nil
				},
				SaveFn: func(ctx context.Context, got *domain.Loan) error { *l = *got; return nil },
			},
			Valuations: &valuationmock.Repo{
				GetByLoanIDFn: func(ctx context.Context, id uint64) (*domainValuation.Valuation, error) {
					if v == nil || v.LoanID != id {
						return nil, gorm.ErrRecordNotFound
					}
					return v, nil
				},
				CreateFn: func(ctx context.Context, got *domainValuation.Valuation) error {
					cp := *got
					v = &cp
					return nil
				},
			},
		}
	}
	return &uowmock.UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos())
		},
		WithinLoanTxFn: func(ctx context.Context, loanID string, fn func(r uow.Repos, got *domain.Loan) error) error {
			if l == nil || l.LoanID != loanID {
				return gorm.ErrRecordNotFound
			}
			return fn(repos(), l)
		},
	}
}

func newValuationHandler(l *domain.Loan, v *domainValuation.Valuation, client valuationUC.Valuator) *ValuationHandler {
	uc := valuationUC.NewUsecase(client, decision.NewDefaultEngine(), loanUoW(l, v), 15*time.Minute)
	return NewValuationHandler(uc)
}

func valuationCtx(e *echo.Echo, method, loanID string, rec *httptest.ResponseRecorder) echo.Context {
	req := httptest.NewRequest(method, "/loans/"+loanID+"/valuation", nil)
	c := e.NewContext(req, rec)
	c.SetPath("/loans/:loan_id/valuation")
	c.SetParamNames("loan_id")
	c.SetParamValues(loanID)
	return c
}

func draftLoan() *domain.Loan {
	return &domain.Loan{
		ID:               42,
		LoanID:           strings.Repeat("a", 32),
		PropertyType:     domain.PropertyOffice,
		PropertySizeSqft: 10000,
		PropertyAgeYears: 5,
		Amount:           decimal.NewFromInt(1_000_000),
		Status:           domain.StatusDraft,
		StatusUpdatedAt:  time.Now().UTC(),
	}
}

func okValuator() *valuatormock.Client {
	return &valuatormock.Client{
		RequestValuationFn: func(ctx context.Context, pt domain.PropertyType, size, age int64) (*valuator.Result, error) {
			return &valuator.Result{
				EstimatedValue: decimal.NewFromInt(1_710_000),
				ValuationDate:  time.Now().UTC(),
				Methodology:    "Base rate with age depreciation",
			}, nil
		},
	}
}

func TestRequestValuation_OK(t *testing.T) {
	e := newEchoWithValidator()
	l := draftLoan()
	h := newValuationHandler(l, nil, okValuator())

	rec := httptest.NewRecorder()
	c := valuationCtx(e, stdhttp.MethodPost, l.LoanID, rec)

	if err := h.RequestValuation(c); err != nil {
		t.Fatalf("RequestValuation error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body)
	}
	var dto valuationUC.ValuationDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if dto.Decision != "approved" || dto.LoanStatus != "APPROVED" {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	if !dto.LTVRatio.Equal(decimal.RequireFromString("58.48")) {
		t.Fatalf("ltv = %s, want 58.48", dto.LTVRatio)
	}
}

func TestRequestValuation_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	h := newValuationHandler(nil, nil, okValuator())

	rec := httptest.NewRecorder()
	c := valuationCtx(e, stdhttp.MethodPost, strings.Repeat("f", 32), rec)

	if err := h.RequestValuation(c); err != nil {
		t.Fatalf("RequestValuation error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestRequestValuation_Conflict(t *testing.T) {
	e := newEchoWithValidator()
	l := draftLoan()
	l.Status = domain.StatusPendingValuation
	h := newValuationHandler(l, nil, okValuator())

	rec := httptest.NewRecorder()
	c := valuationCtx(e, stdhttp.MethodPost, l.LoanID, rec)

	if err := h.RequestValuation(c); err != nil {
		t.Fatalf("RequestValuation error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409, body=%s", rec.Code, rec.Body)
	}
}

func TestRequestValuation_RemoteFailureStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"timeout maps to 504", valuator.ErrTimeout, stdhttp.StatusGatewayTimeout},
		{"rejection maps to 502", valuator.ErrRejected, stdhttp.StatusBadGateway},
		{"unreachable maps to 502", valuator.ErrUnreachable, stdhttp.StatusBadGateway},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			e := newEchoWithValidator()
			l := draftLoan()
			client := &valuatormock.Client{
				RequestValuationFn: func(ctx context.Context, pt domain.PropertyType, size, age int64) (*valuator.Result, error) {
					return nil, tt.err
				},
			}
			h := newValuationHandler(l, nil, client)

			rec := httptest.NewRecorder()
			c := valuationCtx(e, stdhttp.MethodPost, l.LoanID, rec)

			if err := h.RequestValuation(c); err != nil {
				t.Fatalf("RequestValuation error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d, body=%s", rec.Code, tt.wantCode, rec.Body)
			}
			// the failed attempt must leave the loan retryable
			if l.Status != domain.StatusDraft {
				t.Fatalf("loan status = %s, want DRAFT", l.Status)
			}
		})
	}
}

func TestGetValuation_OK(t *testing.T) {
	e := newEchoWithValidator()
	l := draftLoan()
	l.Status = domain.StatusApproved
	v := &domainValuation.Valuation{
		ValuationID:    strings.Repeat("b", 32),
		LoanID:         l.ID,
		EstimatedValue: decimal.NewFromInt(1_710_000),
		LTVRatio:       decimal.RequireFromString("58.48"),
		Decision:       domainValuation.DecisionApproved,
		ValuedAt:       time.Now().UTC(),
	}
	h := newValuationHandler(l, v, okValuator())

	rec := httptest.NewRecorder()
	c := valuationCtx(e, stdhttp.MethodGet, l.LoanID, rec)

	if err := h.GetValuation(c); err != nil {
		t.Fatalf("GetValuation error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body)
	}
}

func TestRevertStale_OK(t *testing.T) {
	e := newEchoWithValidator()
	l := draftLoan()
	l.Status = domain.StatusPendingValuation
	l.StatusUpdatedAt = time.Now().UTC().Add(-time.Hour)
	h := newValuationHandler(l, nil, okValuator())

	rec := httptest.NewRecorder()
	c := valuationCtx(e, stdhttp.MethodPost, l.LoanID, rec)

	if err := h.RevertStale(c); err != nil {
		t.Fatalf("RevertStale error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body)
	}
	if l.Status != domain.StatusDraft {
		t.Fatalf("loan status = %s, want DRAFT", l.Status)
	}
}

func TestRevertStale_FreshConflict(t *testing.T) {
	e := newEchoWithValidator()
	l := draftLoan()
	l.Status = domain.StatusPendingValuation
	l.StatusUpdatedAt = time.Now().UTC()
	h := newValuationHandler(l, nil, okValuator())

	rec := httptest.NewRecorder()
	c := valuationCtx(e, stdhttp.MethodPost, l.LoanID, rec)

	if err := h.RevertStale(c); err != nil {
		t.Fatalf("RevertStale error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409, body=%s", rec.Code, rec.Body)
	}
}
