package domain

import "github.com/shopspring/decimal"

// EligibilityDetails is the per-criterion verdict for an advance request.
// It is a transient value: nothing here is persisted.
//
// MaxEligibleAdvance is only populated when both the salary and the
// pay-frequency checks pass; until then no advance limit is defined and
// AdvanceLimitCheck stays true (unevaluated), so a request failing on
// frequency is not additionally penalized for exceeding an undefined limit.
type EligibilityDetails struct {
	IsEligible         bool             `json:"is_eligible"`
	SalaryCheck        bool             `json:"salary_check"`
	PayFrequencyCheck  bool             `json:"pay_frequency_check"`
	AmountCheck        bool             `json:"amount_check"`
	AdvanceLimitCheck  bool             `json:"advance_limit_check"`
	MaxEligibleAdvance *decimal.Decimal `json:"max_eligible_advance"`
	FailedCriteria     []string         `json:"failed_criteria"`
}

// AddFailure marks the verdict ineligible and records the reason.
// Reasons keep rule-evaluation order.
func (e *EligibilityDetails) AddFailure(reason string) {
	e.IsEligible = false
	e.FailedCriteria = append(e.FailedCriteria, reason)
}
