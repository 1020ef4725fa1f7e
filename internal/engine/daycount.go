package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/credofin/credit-engine/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// InterestFor accrues simple daily interest on principal over [start, end),
// splitting the range at every rate-change boundary. Each sub-range uses
// actual day counts over a 365- or 366-day year, judged by the calendar year
// of the sub-range start. No compounding within the range.
func InterestFor(principal decimal.Decimal, start, end time.Time, rates domain.RateTimeline) (decimal.Decimal, error) {
	total := decimal.Zero
	if !end.After(start) {
		return total, nil
	}

	current := start
	for current.Before(end) {
		rate, err := rates.RateAt(current)
		if err != nil {
			return decimal.Zero, err
		}

		subEnd := end
		if next, ok := rates.NextChangeAfter(current); ok && next.Before(end) {
			subEnd = next
		}

		days := decimal.NewFromInt(int64(daysBetween(current, subEnd)))
		yearDays := decimal.NewFromInt(int64(YearDays(current)))

		total = total.Add(principal.Mul(rate).Div(hundred).Div(yearDays).Mul(days))
		current = subEnd
	}

	return total, nil
}
