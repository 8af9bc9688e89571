package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/workpay/lending-engine/internal/domain"
)

// LoanRepository is the loan ledger. The ledger is append-only and enforces
// the single-active-loan invariant at insert time: for any employee at most
// one record may be in an active status (approved or disbursed).
type LoanRepository interface {
	// Append inserts a new loan record. It fails with ErrActiveLoanExists
	// when the employee already has an active loan; the check and the insert
	// are atomic with respect to concurrent appends for the same employee.
	Append(ctx context.Context, loan *domain.LoanRecord) error

	// List returns all loan records in insertion order.
	List(ctx context.Context) ([]*domain.LoanRecord, error)

	// ListDueBefore returns active loans whose expected repayment date is
	// before the given cutoff.
	ListDueBefore(ctx context.Context, cutoff time.Time) ([]*domain.LoanRecord, error)
}

// prepareForInsert fills the ledger-owned fields of a candidate record.
// Personal-loan callers always supply an explicit term-based repayment date;
// the day-count default only ever applies to advances.
func prepareForInsert(loan *domain.LoanRecord, now time.Time, advanceRepaymentDays int) {
	if loan.ID == uuid.Nil {
		loan.ID = uuid.New()
	}
	loan.CreatedAt = now

	if loan.DisbursementDate.IsZero() {
		year, month, day := now.Date()
		loan.DisbursementDate = time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	}
	if loan.ExpectedRepaymentDate.IsZero() {
		loan.ExpectedRepaymentDate = loan.DisbursementDate.AddDate(0, 0, advanceRepaymentDays)
	}
	if loan.Status == "" {
		loan.Status = domain.LoanStatusApproved
	}
}
