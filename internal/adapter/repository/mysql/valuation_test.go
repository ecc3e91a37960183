package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "crelend-backend/internal/domain/valuation"
	"crelend-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SQLite-safe shadow of the valuations table (no ENUM), unique loan_id kept.
type valuationSQLite struct {
	ID             uint64          `gorm:"column:id;primaryKey"`
	ValuationID    string          `gorm:"column:valuation_id;size:32;uniqueIndex:ux_valuations_valuation_id"`
	LoanID         uint64          `gorm:"column:loan_id;uniqueIndex:ux_valuations_loan"`
	EstimatedValue decimal.Decimal `gorm:"column:estimated_value;type:numeric"`
	LTVRatio       decimal.Decimal `gorm:"column:ltv_ratio;type:numeric"`
	Decision       string          `gorm:"column:decision;type:text"`
	ValuedAt       time.Time       `gorm:"column:valued_at"`
	Methodology    string          `gorm:"column:methodology"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
}

func (valuationSQLite) TableName() string { return "valuations" }

func openValuationTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&valuationSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeValuation(valuationID string, loanNumericID uint64) *domain.Valuation {
	return &domain.Valuation{
		ValuationID:    valuationID,
		LoanID:         loanNumericID,
		EstimatedValue: decimal.NewFromInt(1_710_000),
		LTVRatio:       decimal.RequireFromString("58.48"),
		Decision:       domain.DecisionApproved,
		ValuedAt:       time.Now().UTC(),
		Methodology:    "Base rate ($180/sqft) with 5.0% age depreciation",
	}
}

func TestValuation_CreateAndGet(t *testing.T) {
	db := openValuationTestDB(t)
	repo := NewValuationRepository(db)
	ctx := context.Background()

	vid := id.NewID32()
	v := makeValuation(vid, 42)
	if err := repo.Create(ctx, v); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byLoan, err := repo.GetByLoanID(ctx, 42)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if byLoan.ValuationID != vid || byLoan.Decision != domain.DecisionApproved {
		t.Errorf("unexpected valuation: %+v", byLoan)
	}
	if !byLoan.LTVRatio.Equal(decimal.RequireFromString("58.48")) {
		t.Errorf("ltv round-trip mismatch: %s", byLoan.LTVRatio)
	}

	byID, err := repo.GetByValuationID(ctx, vid)
	if err != nil {
		t.Fatalf("GetByValuationID: %v", err)
	}
	if byID.LoanID != 42 {
		t.Errorf("unexpected valuation: %+v", byID)
	}
}

func TestValuation_OnePerLoan(t *testing.T) {
	db := openValuationTestDB(t)
	repo := NewValuationRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeValuation(id.NewID32(), 7)); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	// unique index on loan_id must reject the duplicate
	if err := repo.Create(ctx, makeValuation(id.NewID32(), 7)); err == nil {
		t.Fatal("second valuation for the same loan must fail")
	}

	var n int64
	if err := db.Model(&valuationSQLite{}).Where("loan_id = ?", 7).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("valuation count = %d, want 1", n)
	}
}

func TestValuation_GetByLoanID_NotFound(t *testing.T) {
	db := openValuationTestDB(t)
	repo := NewValuationRepository(db)
	ctx := context.Background()

	if _, err := repo.GetByLoanID(ctx, 999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
