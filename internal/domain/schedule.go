package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmortizationEntry is one payment period of a personal loan schedule.
// Entries are fully determined by principal/rate/term/start date and carry
// no persisted identity. Money fields are rounded to 2 decimal places.
type AmortizationEntry struct {
	PaymentNumber    int             `json:"payment_number"`
	PaymentDate      time.Time       `json:"payment_date"`
	BeginningBalance decimal.Decimal `json:"beginning_balance"`
	MonthlyPayment   decimal.Decimal `json:"monthly_payment"`
	InterestPaid     decimal.Decimal `json:"interest_paid"`
	PrincipalPaid    decimal.Decimal `json:"principal_paid"`
	EndingBalance    decimal.Decimal `json:"ending_balance"`
}
