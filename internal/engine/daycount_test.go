package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credofin/credit-engine/internal/domain"
	pkgerrors "github.com/credofin/credit-engine/pkg/errors"
)

func TestInterestFor_SingleRate(t *testing.T) {
	principal := decimal.NewFromInt(100000)

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		rates    domain.RateTimeline
		expected string
	}{
		{
			name:  "leap year January at 12%",
			start: date(2024, time.January, 1),
			end:   date(2024, time.February, 1),
			rates: domain.RateTimeline{
				{AnnualPercent: decimal.NewFromInt(12), EffectiveDate: date(2024, time.January, 1)},
			},
			// 100000 * 0.12 / 366 * 31
			expected: "1016.39",
		},
		{
			name:  "non-leap year January at 12%",
			start: date(2023, time.January, 1),
			end:   date(2023, time.February, 1),
			rates: domain.RateTimeline{
				{AnnualPercent: decimal.NewFromInt(12), EffectiveDate: date(2023, time.January, 1)},
			},
			// 100000 * 0.12 / 365 * 31
			expected: "1019.18",
		},
		{
			name:  "rate entry effective before the range",
			start: date(2024, time.March, 1),
			end:   date(2024, time.April, 1),
			rates: domain.RateTimeline{
				{AnnualPercent: decimal.NewFromInt(12), EffectiveDate: date(2020, time.January, 1)},
			},
			// 100000 * 0.12 / 366 * 31
			expected: "1016.39",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InterestFor(principal, tt.start, tt.end, tt.rates)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.Round(2).String())
		})
	}
}

func TestInterestFor_SplitsAtRateChange(t *testing.T) {
	principal := decimal.NewFromInt(100000)
	rates := domain.RateTimeline{
		{AnnualPercent: decimal.NewFromInt(12), EffectiveDate: date(2024, time.January, 1)},
		{AnnualPercent: decimal.NewFromInt(15), EffectiveDate: date(2024, time.January, 16)},
	}

	got, err := InterestFor(principal, date(2024, time.January, 1), date(2024, time.February, 1), rates)
	require.NoError(t, err)

	// 15 days at 12% plus 16 days at 15%, both over 366:
	// 100000*0.12/366*15 + 100000*0.15/366*16 = 491.80 + 655.74
	assert.Equal(t, "1147.54", got.Round(2).String())
}

func TestInterestFor_EmptyRange(t *testing.T) {
	rates := domain.RateTimeline{
		{AnnualPercent: decimal.NewFromInt(12), EffectiveDate: date(2024, time.January, 1)},
	}

	got, err := InterestFor(decimal.NewFromInt(100000), date(2024, time.March, 1), date(2024, time.March, 1), rates)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestInterestFor_NoApplicableRate(t *testing.T) {
	rates := domain.RateTimeline{
		{AnnualPercent: decimal.NewFromInt(12), EffectiveDate: date(2024, time.June, 1)},
	}

	_, err := InterestFor(decimal.NewFromInt(100000), date(2024, time.January, 1), date(2024, time.February, 1), rates)
	assert.ErrorIs(t, err, pkgerrors.ErrNoApplicableRate)
}
