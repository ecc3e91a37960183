package loan

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	domainLoan "crelend-backend/internal/domain/loan"
	"crelend-backend/internal/domain/uow"
	domainValuation "crelend-backend/internal/domain/valuation"
	"crelend-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Usecase struct {
	loanRepo      domainLoan.Repository
	valuationRepo domainValuation.Repository
	uow           uow.UnitOfWork
}

func NewUsecase(loans domainLoan.Repository, valuations domainValuation.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{loanRepo: loans, valuationRepo: valuations, uow: tx}
}

func validateInput(in CreateLoanInput) error {
	if in.BorrowerName == "" {
		return fmt.Errorf("%w: borrower name is required", domainLoan.ErrValidation)
	}
	if _, err := mail.ParseAddress(in.BorrowerEmail); err != nil {
		return fmt.Errorf("%w: borrower email is malformed", domainLoan.ErrValidation)
	}
	if !domainLoan.PropertyType(in.PropertyType).Valid() {
		return fmt.Errorf("%w: unknown property type %q", domainLoan.ErrValidation, in.PropertyType)
	}
	if in.PropertySizeSqft <= 0 {
		return fmt.Errorf("%w: property size must be greater than 0", domainLoan.ErrValidation)
	}
	if in.PropertyAgeYears < 0 {
		return fmt.Errorf("%w: property age cannot be negative", domainLoan.ErrValidation)
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: loan amount must be greater than 0", domainLoan.ErrValidation)
	}
	return nil
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	l := &domainLoan.Loan{
		LoanID:           id.NewID32(),
		BorrowerName:     in.BorrowerName,
		BorrowerEmail:    in.BorrowerEmail,
		BorrowerPhone:    in.BorrowerPhone,
		PropertyType:     domainLoan.PropertyType(in.PropertyType),
		PropertySizeSqft: in.PropertySizeSqft,
		PropertyAgeYears: in.PropertyAgeYears,
		PropertyAddress:  in.PropertyAddress,
		Amount:           in.Amount,
		Status:           domainLoan.StatusDraft,
		StatusUpdatedAt:  time.Now().UTC(),
	}

	if err := u.loanRepo.Create(ctx, l); err != nil {
		return nil, err
	}
	return toDTO(l, nil), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.loanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	v, err := u.valuationRepo.GetByLoanID(ctx, l.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		v = nil
	}
	return toDTO(l, v), nil
}

func (u *Usecase) List(ctx context.Context) ([]LoanDTO, error) {
	loans, err := u.loanRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		l := &loans[i]
		v, err := u.valuationRepo.GetByLoanID(ctx, l.ID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			v = nil
		}
		out = append(out, *toDTO(l, v))
	}
	return out, nil
}

// Update rewrites the editable fields. Only DRAFT loans may change; anything
// past DRAFT is frozen.
func (u *Usecase) Update(ctx context.Context, loanID string, in UpdateLoanInput) (*LoanDTO, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if !l.Editable() {
			return fmt.Errorf("%w: loan %s is %s", domainLoan.ErrInvalidState, l.LoanID, l.Status)
		}
		l.BorrowerName = in.BorrowerName
		l.BorrowerEmail = in.BorrowerEmail
		l.BorrowerPhone = in.BorrowerPhone
		l.PropertyType = domainLoan.PropertyType(in.PropertyType)
		l.PropertySizeSqft = in.PropertySizeSqft
		l.PropertyAgeYears = in.PropertyAgeYears
		l.PropertyAddress = in.PropertyAddress
		l.Amount = in.Amount
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l, nil)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// Delete soft-deletes a DRAFT loan. Draft loans never have valuations, so
// there is nothing to cascade in practice.
func (u *Usecase) Delete(ctx context.Context, loanID string) error {
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if !l.Editable() {
			return fmt.Errorf("%w: loan %s is %s", domainLoan.ErrInvalidState, l.LoanID, l.Status)
		}
		return r.Loans.Delete(ctx, l)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainLoan.ErrNotFound
	}
	return err
}

func toDTO(l *domainLoan.Loan, v *domainValuation.Valuation) *LoanDTO {
	dto := &LoanDTO{
		LoanID:           l.LoanID,
		BorrowerName:     l.BorrowerName,
		BorrowerEmail:    l.BorrowerEmail,
		BorrowerPhone:    l.BorrowerPhone,
		PropertyType:     string(l.PropertyType),
		PropertySizeSqft: l.PropertySizeSqft,
		PropertyAgeYears: l.PropertyAgeYears,
		PropertyAddress:  l.PropertyAddress,
		Amount:           l.Amount,
		Status:           string(l.Status),
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
	if v != nil {
		dto.Valuation = &ValuationDTO{
			ValuationID:    v.ValuationID,
			EstimatedValue: v.EstimatedValue,
			LTVRatio:       v.LTVRatio,
			Decision:       string(v.Decision),
			ValuedAt:       v.ValuedAt,
			Methodology:    v.Methodology,
		}
	}
	return dto
}
