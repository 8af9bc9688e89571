package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/workpay/lending-engine/pkg/errors"
)

func TestPeriodsPerMonth(t *testing.T) {
	tests := []struct {
		name      string
		frequency string
		expected  int64
		wantErr   bool
	}{
		{name: "weekly", frequency: "weekly", expected: 4},
		{name: "bi-weekly", frequency: "bi-weekly", expected: 2},
		{name: "semi-monthly", frequency: "semi-monthly", expected: 2},
		{name: "monthly", frequency: "monthly", expected: 1},
		{name: "case insensitive", frequency: "Bi-Weekly", expected: 2},
		{name: "uppercase", frequency: "MONTHLY", expected: 1},
		{name: "unsupported label", frequency: "fortnightly", wantErr: true},
		{name: "empty label", frequency: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periods, err := PeriodsPerMonth(tt.frequency)
			if tt.wantErr {
				assert.ErrorIs(t, err, customError.ErrUnsupportedPayFrequency)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, periods)
		})
	}
}

func TestMaxEligibleAdvance(t *testing.T) {
	half := decimal.NewFromFloat(0.5)

	tests := []struct {
		name      string
		gross     decimal.Decimal
		frequency string
		expected  int64
	}{
		{
			name:      "monthly salary",
			gross:     decimal.NewFromInt(3000000),
			frequency: "monthly",
			expected:  1500000, // 3,000,000 * 0.5
		},
		{
			name:      "weekly salary normalized to monthly",
			gross:     decimal.NewFromInt(750000),
			frequency: "weekly",
			expected:  1500000, // 750,000 * 4 * 0.5
		},
		{
			name:      "bi-weekly salary",
			gross:     decimal.NewFromInt(1000000),
			frequency: "bi-weekly",
			expected:  1000000,
		},
		{
			name:      "fractional result truncates, never rounds",
			gross:     decimal.NewFromInt(333333),
			frequency: "monthly",
			expected:  166666, // 166,666.5 floors to 166,666
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, err := MaxEligibleAdvance(tt.gross, tt.frequency, half)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, limit)
		})
	}

	t.Run("propagates unsupported frequency", func(t *testing.T) {
		_, err := MaxEligibleAdvance(decimal.NewFromInt(3000000), "daily", half)
		assert.ErrorIs(t, err, customError.ErrUnsupportedPayFrequency)
	})
}

func TestTotalRepayable(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		term      int
		expected  int64
		wantErr   error
	}{
		{
			name:      "twelve percent over a year",
			principal: decimal.NewFromInt(1200000),
			rate:      decimal.NewFromFloat(0.12),
			term:      12,
			expected:  1352190, // 1,200,000 * (1.01)^12, truncated
		},
		{
			name:      "zero rate returns principal",
			principal: decimal.NewFromInt(500000),
			rate:      decimal.Zero,
			term:      6,
			expected:  500000,
		},
		{
			name:      "non-positive principal rejected",
			principal: decimal.Zero,
			rate:      decimal.NewFromFloat(0.1),
			term:      12,
			wantErr:   customError.ErrInvalidPrincipal,
		},
		{
			name:      "negative rate rejected",
			principal: decimal.NewFromInt(100000),
			rate:      decimal.NewFromFloat(-0.01),
			term:      12,
			wantErr:   customError.ErrInvalidInterestRate,
		},
		{
			name:      "non-positive term rejected",
			principal: decimal.NewFromInt(100000),
			rate:      decimal.NewFromFloat(0.1),
			term:      0,
			wantErr:   customError.ErrInvalidLoanTerm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := TotalRepayable(tt.principal, tt.rate, tt.term)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, total)
		})
	}
}

func TestTotalRepayable_Monotonic(t *testing.T) {
	principal := decimal.NewFromInt(2000000)

	t.Run("never decreases with rate", func(t *testing.T) {
		previous := int64(0)
		for _, rate := range []float64{0, 0.05, 0.10, 0.15, 0.25, 0.50, 1.0} {
			total, err := TotalRepayable(principal, decimal.NewFromFloat(rate), 24)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, total, previous, "rate %v", rate)
			previous = total
		}
	})

	t.Run("never decreases with term", func(t *testing.T) {
		previous := int64(0)
		for term := 1; term <= 60; term++ {
			total, err := TotalRepayable(principal, decimal.NewFromFloat(0.12), term)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, total, previous, "term %d", term)
			previous = total
		}
	})
}

func TestMonthlyPayment(t *testing.T) {
	t.Run("standard annuity", func(t *testing.T) {
		payment, err := MonthlyPayment(decimal.NewFromInt(1200000), decimal.NewFromFloat(0.01), 12)
		require.NoError(t, err)
		assert.True(t, payment.Round(2).Equal(decimal.NewFromFloat(106618.55)),
			"expected 106618.55, got %s", payment.Round(2))
	})

	t.Run("zero rate splits principal evenly", func(t *testing.T) {
		payment, err := MonthlyPayment(decimal.NewFromInt(1200000), decimal.Zero, 12)
		require.NoError(t, err)
		assert.True(t, payment.Equal(decimal.NewFromInt(100000)))
	})
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "plain month step",
			start:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "jan 31 clamps to leap february",
			start:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "jan 31 clamps to short february",
			start:    time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "crosses year boundary",
			start:    time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC),
			months:   3,
			expected: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "zero months keeps the date",
			start:    time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
			months:   0,
			expected: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddMonthsClamped(tt.start, tt.months))
		})
	}
}
