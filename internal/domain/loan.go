package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanTypeSalaryAdvance = "salary_advance"
	LoanTypePersonalLoan  = "personal_loan"
)

const (
	LoanStatusApproved  = "approved"
	LoanStatusDisbursed = "disbursed"
	LoanStatusRepaid    = "repaid"
	LoanStatusDefaulted = "defaulted"
)

// IsActiveStatus reports whether a status blocks new loans for the employee.
func IsActiveStatus(status string) bool {
	return status == LoanStatusApproved || status == LoanStatusDisbursed
}

// LoanRecord is one row in the loan ledger. The ledger is append-only:
// employee_id repeats across history and created_at is set once at insert.
type LoanRecord struct {
	ID                    uuid.UUID       `json:"id" db:"id"`
	EmployeeID            string          `json:"employee_id" db:"employee_id"`
	LoanType              string          `json:"loan_type" db:"loan_type"`
	Amount                decimal.Decimal `json:"amount" db:"amount"`
	InterestRate          decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	LoanTermMonths        int             `json:"loan_term_months" db:"loan_term_months"`
	DisbursementDate      time.Time       `json:"disbursement_date" db:"disbursement_date"`
	ExpectedRepaymentDate time.Time       `json:"expected_repayment_date" db:"expected_repayment_date"`
	Status                string          `json:"status" db:"status"`
	CreatedAt             time.Time       `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type AdvanceRequest struct {
	EmployeeID      string          `json:"employee_id" validate:"required"`
	GrossSalary     decimal.Decimal `json:"gross_salary" validate:"dgt"`
	PayFrequency    string          `json:"pay_frequency" validate:"required"`
	RequestedAmount decimal.Decimal `json:"requested_advance_amount"`
}

type AdvanceResponse struct {
	Eligible       bool                `json:"advance_eligible"`
	Message        string              `json:"advance_message"`
	ApprovedAmount *decimal.Decimal    `json:"approved_advance_amount,omitempty"`
	Details        *EligibilityDetails `json:"eligibility_details"`
}

type LoanRequest struct {
	EmployeeID     string          `json:"employee_id" validate:"required"`
	Principal      decimal.Decimal `json:"loan_amount" validate:"dgt"`
	AnnualRate     decimal.Decimal `json:"annual_interest_rate" validate:"dgte,dlte"`
	LoanTermMonths int             `json:"loan_term_months" validate:"gt=0"`
}

type LoanResponse struct {
	TotalRepayable int64                `json:"total_repayable_amount"`
	Schedule       []*AmortizationEntry `json:"amortization_schedule"`
	Loan           *LoanRecord          `json:"loan"`
}
