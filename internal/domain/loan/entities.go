package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusDraft             Status = "DRAFT"
	StatusPendingValuation  Status = "PENDING_VALUATION"
	StatusApproved          Status = "APPROVED"
	StatusRejected          Status = "REJECTED"
)

type PropertyType string

const (
	PropertyMultifamily PropertyType = "MULTIFAMILY"
	PropertyRetail      PropertyType = "RETAIL"
	PropertyOffice      PropertyType = "OFFICE"
	PropertyIndustrial  PropertyType = "INDUSTRIAL"
)

func (p PropertyType) Valid() bool {
	switch p {
	case PropertyMultifamily, PropertyRetail, PropertyOffice, PropertyIndustrial:
		return true
	}
	return false
}

var (
	ErrNotFound     = errors.New("loan not found")
	ErrInvalidState = errors.New("loan is not in a state that allows this operation")
	ErrValidation   = errors.New("invalid loan input")
)

type Loan struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID string `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`

	BorrowerName  string `gorm:"size:255" json:"borrower_name"`
	BorrowerEmail string `gorm:"size:255" json:"borrower_email"`
	BorrowerPhone string `gorm:"size:32" json:"borrower_phone,omitempty"`

	PropertyType     PropertyType `gorm:"type:enum('MULTIFAMILY','RETAIL','OFFICE','INDUSTRIAL')" json:"property_type"`
	PropertySizeSqft int64        `gorm:"column:property_size_sqft" json:"property_size_sqft"`
	PropertyAgeYears int64        `gorm:"column:property_age_years" json:"property_age_years"`
	PropertyAddress  string       `gorm:"type:text" json:"property_address,omitempty"`

	Amount decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`

	Status          Status    `gorm:"type:enum('DRAFT','PENDING_VALUATION','APPROVED','REJECTED');default:'DRAFT';index:idx_loans_status" json:"status"`
	StatusUpdatedAt time.Time `gorm:"autoCreateTime" json:"status_updated_at"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Editable reports whether borrower/property/amount fields may still change.
// Only draft loans are editable; everything past DRAFT is frozen.
func (l *Loan) Editable() bool { return l.Status == StatusDraft }
