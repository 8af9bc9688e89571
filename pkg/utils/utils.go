package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	customError "github.com/workpay/lending-engine/pkg/errors"
)

var one = decimal.NewFromInt(1)
var twelve = decimal.NewFromInt(12)

// PeriodsPerMonth maps a pay-frequency label to the number of pay periods
// per month. Labels are matched case-insensitively, no fuzzy matching.
func PeriodsPerMonth(frequency string) (int64, error) {
	switch strings.ToLower(frequency) {
	case "weekly":
		return 4, nil
	case "bi-weekly":
		return 2, nil
	case "semi-monthly":
		return 2, nil
	case "monthly":
		return 1, nil
	default:
		return 0, customError.WrapUnsupportedPayFrequency(frequency)
	}
}

// MaxEligibleAdvance derives the maximum advance from gross salary and pay
// frequency: floor(monthlyGross * limitRate). Truncation is intentional and
// load-bearing; rounding would disagree at boundary values.
func MaxEligibleAdvance(grossSalary decimal.Decimal, frequency string, limitRate decimal.Decimal) (int64, error) {
	periods, err := PeriodsPerMonth(frequency)
	if err != nil {
		return 0, err
	}

	monthlyGross := grossSalary.Mul(decimal.NewFromInt(periods))
	return monthlyGross.Mul(limitRate).Floor().IntPart(), nil
}

// ValidateLoanTerms checks the shared preconditions of the repayable-total
// and amortization calculations.
func ValidateLoanTerms(principal decimal.Decimal, annualRate decimal.Decimal, termMonths int) error {
	if !principal.IsPositive() {
		return customError.WrapInvalidInput(customError.ErrInvalidPrincipal)
	}
	if annualRate.IsNegative() {
		return customError.WrapInvalidInput(customError.ErrInvalidInterestRate)
	}
	if termMonths <= 0 {
		return customError.WrapInvalidInput(customError.ErrInvalidLoanTerm)
	}
	return nil
}

// TotalRepayable computes the total amount owed on a fixed-term loan with
// monthly compounding: principal * (1 + annualRate/12)^termMonths, truncated
// to a whole amount.
func TotalRepayable(principal decimal.Decimal, annualRate decimal.Decimal, termMonths int) (int64, error) {
	if err := ValidateLoanTerms(principal, annualRate, termMonths); err != nil {
		return 0, err
	}

	monthlyFactor := one.Add(annualRate.Div(twelve))
	total := principal.Mul(monthlyFactor.Pow(decimal.NewFromInt(int64(termMonths))))

	return total.IntPart(), nil
}

// MonthlyPayment returns the constant payment of a fixed-rate annuity:
// P * [i(1+i)^n] / [(1+i)^n - 1], with i the monthly rate and n the term in
// months. A zero rate degenerates to straight principal/term.
func MonthlyPayment(principal decimal.Decimal, monthlyRate decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if monthlyRate.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(termMonths))), nil
	}

	factor := one.Add(monthlyRate).Pow(decimal.NewFromInt(int64(termMonths)))
	denominator := factor.Sub(one)
	if denominator.IsZero() {
		return decimal.Zero, customError.WrapCalculationDegenerate(customError.ErrCalculationDegenerate)
	}

	return principal.Mul(monthlyRate).Mul(factor).Div(denominator), nil
}

// AddMonthsClamped advances a date by whole calendar months keeping the same
// day-of-month, clamped to the last day when the target month is shorter.
// time.AddDate would overflow instead (Jan 31 + 1 month = Mar 3).
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	anchor := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := time.Date(anchor.Year(), anchor.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(anchor.Year(), anchor.Month(), day, 0, 0, 0, 0, t.Location())
}
