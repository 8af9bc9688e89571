package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/workpay/lending-engine/internal/config"
	"github.com/workpay/lending-engine/internal/domain"
	"github.com/workpay/lending-engine/internal/repository"
	customError "github.com/workpay/lending-engine/pkg/errors"
	"github.com/workpay/lending-engine/pkg/utils"
)

const loansCacheKey = "loans:all"

var twelve = decimal.NewFromInt(12)

type LendingService struct {
	loanRepo repository.LoanRepository
	redis    *redis.Client
	config   *config.Config
}

func NewLendingService(
	loanRepo repository.LoanRepository,
	redis *redis.Client,
	config *config.Config,
) *LendingService {
	return &LendingService{
		loanRepo: loanRepo,
		redis:    redis,
		config:   config,
	}
}

// CheckEligibility runs the advance eligibility rules against a request.
// It is pure: no ledger interaction, no side effects.
//
// The first three rules run unconditionally so the verdict can report more
// than one problem per call. The advance-limit rule only runs once both the
// salary and frequency checks pass, because the limit is undefined before
// then.
func (s *LendingService) CheckEligibility(grossSalary decimal.Decimal, payFrequency string, requestedAmount decimal.Decimal) *domain.EligibilityDetails {
	details := &domain.EligibilityDetails{
		IsEligible:        true,
		SalaryCheck:       true,
		PayFrequencyCheck: true,
		AmountCheck:       true,
		AdvanceLimitCheck: true,
		FailedCriteria:    []string{},
	}

	currency := s.config.Business.Currency
	minSalary := s.config.GetMinimumSalary()

	if grossSalary.LessThan(minSalary) {
		details.SalaryCheck = false
		details.AddFailure(fmt.Sprintf(
			"Minimum salary requirement not met. Required: %s %s, Your salary: %s %s",
			currency, minSalary.StringFixed(2), currency, grossSalary.StringFixed(2)))
	}

	if _, err := utils.PeriodsPerMonth(payFrequency); err != nil {
		details.PayFrequencyCheck = false
		details.AddFailure(fmt.Sprintf(
			"Unsupported pay frequency %q. Supported frequencies are: weekly, bi-weekly, semi-monthly, monthly",
			payFrequency))
	}

	if !requestedAmount.IsPositive() {
		details.AmountCheck = false
		details.AddFailure("Requested advance amount must be greater than 0")
	}

	if details.SalaryCheck && details.PayFrequencyCheck {
		maxAdvance, err := utils.MaxEligibleAdvance(grossSalary, payFrequency, s.config.GetAdvanceLimitRate())
		if err == nil {
			maxEligible := decimal.NewFromInt(maxAdvance)
			details.MaxEligibleAdvance = &maxEligible

			if requestedAmount.GreaterThan(maxEligible) {
				details.AdvanceLimitCheck = false
				details.AddFailure(fmt.Sprintf(
					"Requested amount exceeds maximum eligible advance. Maximum allowed: %s %s, Requested: %s %s",
					currency, maxEligible.StringFixed(2), currency, requestedAmount.StringFixed(2)))
			}
		}
	}

	return details
}

// RequestAdvance evaluates eligibility and, when eligible, records the
// salary advance in the ledger. A losing race on the single-active-loan
// invariant downgrades the response to not-eligible rather than surfacing a
// transport error.
func (s *LendingService) RequestAdvance(ctx context.Context, request *domain.AdvanceRequest) (*domain.AdvanceResponse, error) {
	details := s.CheckEligibility(request.GrossSalary, request.PayFrequency, request.RequestedAmount)

	response := &domain.AdvanceResponse{
		Eligible: details.IsEligible,
		Details:  details,
	}

	if !details.IsEligible {
		response.Message = "Not eligible for salary advance. See details below."
		return response, nil
	}

	today := startOfDay(time.Now())
	loan := &domain.LoanRecord{
		EmployeeID:            request.EmployeeID,
		LoanType:              domain.LoanTypeSalaryAdvance,
		Amount:                request.RequestedAmount,
		InterestRate:          decimal.Zero,
		LoanTermMonths:        0,
		DisbursementDate:      today,
		ExpectedRepaymentDate: today.AddDate(0, 0, s.config.Business.AdvanceRepaymentDays),
		Status:                domain.LoanStatusApproved,
	}

	if err := s.loanRepo.Append(ctx, loan); err != nil {
		if errors.Is(err, customError.ErrActiveLoanExists) {
			var bizErr *customError.BusinessError
			message := err.Error()
			if errors.As(err, &bizErr) {
				message = bizErr.Message
			}
			details.AddFailure(message)
			response.Eligible = false
			response.Message = message
			return response, nil
		}
		return nil, err
	}

	s.invalidateLoansCache(ctx)

	approved := request.RequestedAmount
	response.ApprovedAmount = &approved
	response.Message = "Eligible for salary advance."

	return response, nil
}

// RequestLoan computes the repayable total and the amortization schedule,
// then records the personal loan. Both calculations run before any ledger
// mutation, so a calculation failure never leaves the ledger changed.
func (s *LendingService) RequestLoan(ctx context.Context, request *domain.LoanRequest) (*domain.LoanResponse, error) {
	totalRepayable, err := utils.TotalRepayable(request.Principal, request.AnnualRate, request.LoanTermMonths)
	if err != nil {
		return nil, err
	}

	today := startOfDay(time.Now())
	schedule, err := s.BuildSchedule(request.Principal, request.AnnualRate, request.LoanTermMonths, today)
	if err != nil {
		return nil, err
	}

	loan := &domain.LoanRecord{
		EmployeeID:            request.EmployeeID,
		LoanType:              domain.LoanTypePersonalLoan,
		Amount:                request.Principal,
		InterestRate:          request.AnnualRate,
		LoanTermMonths:        request.LoanTermMonths,
		DisbursementDate:      today,
		ExpectedRepaymentDate: utils.AddMonthsClamped(today, request.LoanTermMonths),
		Status:                domain.LoanStatusApproved,
	}

	if err := s.loanRepo.Append(ctx, loan); err != nil {
		return nil, err
	}

	s.invalidateLoansCache(ctx)

	return &domain.LoanResponse{
		TotalRepayable: totalRepayable,
		Schedule:       schedule,
		Loan:           loan,
	}, nil
}

// BuildSchedule generates the per-month payment breakdown for a personal
// loan: constant annuity payment, except the final period which pays off the
// exact remaining balance so the schedule terminates at zero. Entry fields
// are rounded to 2 decimal places; the running balance is not, to avoid
// compounding rounding error across periods.
func (s *LendingService) BuildSchedule(principal decimal.Decimal, annualRate decimal.Decimal, termMonths int, startDate time.Time) ([]*domain.AmortizationEntry, error) {
	if err := utils.ValidateLoanTerms(principal, annualRate, termMonths); err != nil {
		return nil, err
	}

	monthlyRate := annualRate.Div(twelve)
	monthlyPayment, err := utils.MonthlyPayment(principal, monthlyRate, termMonths)
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.AmortizationEntry, 0, termMonths)
	balance := principal

	for period := 1; period <= termMonths; period++ {
		beginning := balance
		interestPaid := beginning.Mul(monthlyRate)

		var principalPaid, payment decimal.Decimal
		if period == termMonths {
			// Force the last payment to clear the exact remaining balance.
			principalPaid = beginning
			payment = beginning.Add(interestPaid)
		} else {
			principalPaid = monthlyPayment.Sub(interestPaid)
			payment = monthlyPayment
		}

		balance = beginning.Sub(principalPaid)
		if balance.IsNegative() {
			balance = decimal.Zero
		}

		entries = append(entries, &domain.AmortizationEntry{
			PaymentNumber:    period,
			PaymentDate:      utils.AddMonthsClamped(startDate, period-1),
			BeginningBalance: beginning.Round(2),
			MonthlyPayment:   payment.Round(2),
			InterestPaid:     interestPaid.Round(2),
			PrincipalPaid:    principalPaid.Round(2),
			EndingBalance:    balance.Round(2),
		})
	}

	return entries, nil
}

// ListLoans returns the ledger snapshot in insertion order, served from the
// Redis cache when warm. Cache trouble is never fatal, the repository is the
// source of truth.
func (s *LendingService) ListLoans(ctx context.Context) ([]*domain.LoanRecord, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, loansCacheKey).Result(); err == nil {
			var loans []*domain.LoanRecord
			if err := json.Unmarshal([]byte(cached), &loans); err == nil {
				return loans, nil
			}
		}
	}

	loans, err := s.loanRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(loans); err == nil {
			if err := s.redis.Set(ctx, loansCacheKey, payload, s.config.GetCacheTTL()).Err(); err != nil {
				log.Warn().Err(err).Msg("failed to cache loans snapshot")
			}
		}
	}

	return loans, nil
}

func (s *LendingService) invalidateLoansCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, loansCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate loans cache")
	}
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
