package valuation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"crelend-backend/internal/adapter/valuator"
	domainLoan "crelend-backend/internal/domain/loan"
	"crelend-backend/internal/domain/uow"
	domainValuation "crelend-backend/internal/domain/valuation"
	"crelend-backend/internal/usecase/decision"
	"crelend-backend/pkg/id"

	"gorm.io/gorm"
)

// ErrNotStale guards the manual revert: a loan must sit in PENDING_VALUATION
// longer than the configured age before it may be unstuck.
var ErrNotStale = errors.New("loan has not been pending long enough to revert")

// Valuator is the outbound call to the external calculator; *valuator.Client
// satisfies it.
type Valuator interface {
	RequestValuation(ctx context.Context, propertyType domainLoan.PropertyType, sizeSqft, ageYears int64) (*valuator.Result, error)
}

type Usecase struct {
	valuator Valuator
	engine   *decision.Engine
	uow      uow.UnitOfWork

	// How old a PENDING_VALUATION status must be before RevertStale touches it.
	staleAfter time.Duration
}

func NewUsecase(v Valuator, e *decision.Engine, tx uow.UnitOfWork, staleAfter time.Duration) *Usecase {
	return &Usecase{valuator: v, engine: e, uow: tx, staleAfter: staleAfter}
}

// RequestValuation drives a loan from DRAFT to APPROVED/REJECTED.
//
// Phase 1 commits PENDING_VALUATION under a row lock so a concurrent
// duplicate request fails the guard instead of racing the remote call.
// Phase 2 calls the calculator and the decision engine with no locks held.
// Phase 3 writes the valuation and the terminal status in one transaction.
// Any failure after phase 1 reverts the loan to DRAFT (best effort) and
// surfaces the original error, which makes the request safely retryable.
func (u *Usecase) RequestValuation(ctx context.Context, loanID string) (*ValuationDTO, error) {
	if u.uow == nil {
		return nil, domainLoan.ErrInvalidState
	}

	var snap domainLoan.Loan
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusDraft {
			if l.Status == domainLoan.StatusPendingValuation {
				return fmt.Errorf("%w: valuation already requested for loan %s", domainLoan.ErrInvalidState, l.LoanID)
			}
			return fmt.Errorf("%w: valuation already completed for loan %s (%s)", domainLoan.ErrInvalidState, l.LoanID, l.Status)
		}

		if _, err := r.Valuations.GetByLoanID(ctx, l.ID); err == nil {
			return domainValuation.ErrAlreadyExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		l.Status = domainLoan.StatusPendingValuation
		l.StatusUpdatedAt = time.Now().UTC()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		snap = *l
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}

	res, err := u.valuator.RequestValuation(ctx, snap.PropertyType, snap.PropertySizeSqft, snap.PropertyAgeYears)
	if err != nil {
		u.revertToDraft(ctx, loanID)
		return nil, fmt.Errorf("valuation service failure: %w", err)
	}

	outcome, err := u.engine.Decide(snap.Amount, res.EstimatedValue)
	if err != nil {
		u.revertToDraft(ctx, loanID)
		return nil, err
	}

	final := domainLoan.StatusRejected
	if outcome.Decision == domainValuation.DecisionApproved {
		final = domainLoan.StatusApproved
	}

	var dto *ValuationDTO
	err = u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusPendingValuation {
			return fmt.Errorf("%w: loan %s moved to %s mid-flight", domainLoan.ErrInvalidState, l.LoanID, l.Status)
		}

		v := &domainValuation.Valuation{
			ValuationID:    id.NewID32(),
			LoanID:         l.ID,
			EstimatedValue: res.EstimatedValue,
			LTVRatio:       outcome.LTVRatio,
			Decision:       outcome.Decision,
			ValuedAt:       res.ValuationDate.UTC(),
			Methodology:    res.Methodology,
		}
		if err := r.Valuations.Create(ctx, v); err != nil {
			return err
		}

		l.Status = final
		l.StatusUpdatedAt = time.Now().UTC()
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto = toDTO(v, l)
		return nil
	})
	if err != nil {
		u.revertToDraft(ctx, loanID)
		return nil, err
	}
	return dto, nil
}

// Get returns the persisted valuation for a loan.
func (u *Usecase) Get(ctx context.Context, loanID string) (*ValuationDTO, error) {
	var dto *ValuationDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainLoan.ErrNotFound
			}
			return err
		}
		v, err := r.Valuations.GetByLoanID(ctx, l.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainValuation.ErrNotFound
			}
			return err
		}
		dto = toDTO(v, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// RevertStale unsticks a loan left in PENDING_VALUATION by a failed rollback
// (the double-failure case). It refuses to touch loans that are not pending,
// not old enough, or that already have a valuation row.
func (u *Usecase) RevertStale(ctx context.Context, loanID string) error {
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusPendingValuation {
			return fmt.Errorf("%w: loan %s is %s", domainLoan.ErrInvalidState, l.LoanID, l.Status)
		}
		if time.Since(l.StatusUpdatedAt) < u.staleAfter {
			return ErrNotStale
		}
		if _, err := r.Valuations.GetByLoanID(ctx, l.ID); err == nil {
			// Outcome exists but the loan never got its terminal status:
			// the recoverable inconsistency. Do not discard the valuation.
			return domainValuation.ErrAlreadyExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		l.Status = domainLoan.StatusDraft
		l.StatusUpdatedAt = time.Now().UTC()
		return r.Loans.Save(ctx, l)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainLoan.ErrNotFound
	}
	return err
}

// revertToDraft is the compensating transition. Best effort: a failure here
// leaves the loan stuck in PENDING_VALUATION until RevertStale picks it up.
// Runs detached from the request context so a remote-call timeout cannot
// also cancel the compensating write.
func (u *Usecase) revertToDraft(ctx context.Context, loanID string) {
	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := u.uow.WithinLoanTx(rbCtx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusPendingValuation {
			return nil
		}
		l.Status = domainLoan.StatusDraft
		l.StatusUpdatedAt = time.Now().UTC()
		return r.Loans.Save(rbCtx, l)
	})
	if err != nil {
		log.Printf("valuation rollback failed for loan %s: %v (loan left PENDING_VALUATION)", loanID, err)
	}
}

func toDTO(v *domainValuation.Valuation, l *domainLoan.Loan) *ValuationDTO {
	return &ValuationDTO{
		ValuationID:    v.ValuationID,
		LoanID:         l.LoanID,
		EstimatedValue: v.EstimatedValue,
		LTVRatio:       v.LTVRatio,
		Decision:       string(v.Decision),
		ValuedAt:       v.ValuedAt,
		Methodology:    v.Methodology,
		LoanStatus:     string(l.Status),
	}
}
