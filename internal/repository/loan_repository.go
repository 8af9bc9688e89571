package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/workpay/lending-engine/internal/domain"
	customError "github.com/workpay/lending-engine/pkg/errors"
)

type loanRepository struct {
	db                   *sqlx.DB
	advanceRepaymentDays int
}

// NewLoanRepository returns a Postgres-backed loan ledger.
func NewLoanRepository(db *sqlx.DB, advanceRepaymentDays int) LoanRepository {
	return &loanRepository{db: db, advanceRepaymentDays: advanceRepaymentDays}
}

func (r *loanRepository) Append(ctx context.Context, loan *domain.LoanRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	defer tx.Rollback()

	// Serialize check-then-append per employee. An advisory lock covers the
	// no-rows case, which a plain SELECT ... FOR UPDATE would not lock.
	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, loan.EmployeeID); err != nil {
		return customError.WrapDatabaseError(err)
	}

	var hasActive bool
	activeQuery := `
		SELECT EXISTS (
			SELECT 1 FROM loans
			WHERE employee_id = $1 AND status IN ('approved', 'disbursed')
		)
	`
	if err = tx.GetContext(ctx, &hasActive, activeQuery, loan.EmployeeID); err != nil {
		return customError.WrapDatabaseError(err)
	}
	if hasActive {
		return customError.WrapActiveLoanExists(loan.EmployeeID)
	}

	prepareForInsert(loan, time.Now(), r.advanceRepaymentDays)

	insertQuery := `
		INSERT INTO loans (id, employee_id, loan_type, amount, interest_rate, loan_term_months,
			disbursement_date, expected_repayment_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.ExecContext(ctx, insertQuery,
		loan.ID,
		loan.EmployeeID,
		loan.LoanType,
		loan.Amount,
		loan.InterestRate,
		loan.LoanTermMonths,
		loan.DisbursementDate,
		loan.ExpectedRepaymentDate,
		loan.Status,
		loan.CreatedAt,
	)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	if err = tx.Commit(); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

func (r *loanRepository) List(ctx context.Context) ([]*domain.LoanRecord, error) {
	query := `
		SELECT id, employee_id, loan_type, amount, interest_rate, loan_term_months,
			disbursement_date, expected_repayment_date, status, created_at
		FROM loans
		ORDER BY seq
	`

	loans := []*domain.LoanRecord{}
	if err := r.db.SelectContext(ctx, &loans, query); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return loans, nil
}

func (r *loanRepository) ListDueBefore(ctx context.Context, cutoff time.Time) ([]*domain.LoanRecord, error) {
	query := `
		SELECT id, employee_id, loan_type, amount, interest_rate, loan_term_months,
			disbursement_date, expected_repayment_date, status, created_at
		FROM loans
		WHERE status IN ('approved', 'disbursed') AND expected_repayment_date < $1
		ORDER BY expected_repayment_date
	`

	loans := []*domain.LoanRecord{}
	if err := r.db.SelectContext(ctx, &loans, query, cutoff); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return loans, nil
}
