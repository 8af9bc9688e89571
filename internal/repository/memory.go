package repository

import (
	"context"
	"sync"
	"time"

	"github.com/workpay/lending-engine/internal/domain"
	customError "github.com/workpay/lending-engine/pkg/errors"
)

// MemoryLoanRepository is a mutex-guarded in-memory ledger. One lock spans
// the scan-and-append, so concurrent appends for the same employee see
// exactly one winner.
type MemoryLoanRepository struct {
	mu                   sync.Mutex
	loans                []*domain.LoanRecord
	advanceRepaymentDays int
}

func NewMemoryLoanRepository(advanceRepaymentDays int) *MemoryLoanRepository {
	return &MemoryLoanRepository{advanceRepaymentDays: advanceRepaymentDays}
}

func (r *MemoryLoanRepository) Append(ctx context.Context, loan *domain.LoanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.loans {
		if existing.EmployeeID == loan.EmployeeID && domain.IsActiveStatus(existing.Status) {
			return customError.WrapActiveLoanExists(loan.EmployeeID)
		}
	}

	prepareForInsert(loan, time.Now(), r.advanceRepaymentDays)

	stored := *loan
	r.loans = append(r.loans, &stored)

	return nil
}

func (r *MemoryLoanRepository) List(ctx context.Context) ([]*domain.LoanRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]*domain.LoanRecord, len(r.loans))
	for i, loan := range r.loans {
		copied := *loan
		snapshot[i] = &copied
	}

	return snapshot, nil
}

func (r *MemoryLoanRepository) ListDueBefore(ctx context.Context, cutoff time.Time) ([]*domain.LoanRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	due := []*domain.LoanRecord{}
	for _, loan := range r.loans {
		if domain.IsActiveStatus(loan.Status) && loan.ExpectedRepaymentDate.Before(cutoff) {
			copied := *loan
			due = append(due, &copied)
		}
	}

	return due, nil
}
