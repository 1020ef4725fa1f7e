package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/credofin/credit-engine/pkg/errors"
)

// RateEntry is one interest rate regime. AnnualPercent is the annual rate in
// percent units (12.0 means 12%). The entry is in force from EffectiveDate
// until the next entry's EffectiveDate, or indefinitely for the last entry.
type RateEntry struct {
	AnnualPercent decimal.Decimal `json:"annual_percent" db:"annual_percent"`
	EffectiveDate time.Time       `json:"effective_date" db:"effective_date"`
}

// RateTimeline is an ordered, non-overlapping sequence of rate entries,
// sorted ascending by effective date.
type RateTimeline []RateEntry

// Validate checks ordering. An empty timeline is valid here; whether it is
// acceptable depends on the calculation window and is checked by RateAt.
func (t RateTimeline) Validate() error {
	for i := 1; i < len(t); i++ {
		if !t[i].EffectiveDate.After(t[i-1].EffectiveDate) {
			return errors.ErrRateTimelineUnsorted
		}
	}
	return nil
}

// RateAt returns the annual percent rate in force at date: the latest entry
// with EffectiveDate <= date. A missing rate is an explicit error, never a
// silent 0%.
func (t RateTimeline) RateAt(date time.Time) (decimal.Decimal, error) {
	found := -1
	for i, e := range t {
		if e.EffectiveDate.After(date) {
			break
		}
		found = i
	}
	if found < 0 {
		return decimal.Zero, errors.WrapNoApplicableRate(date)
	}
	return t[found].AnnualPercent, nil
}

// NextChangeAfter returns the earliest effective date strictly after date,
// or false if the current regime runs indefinitely.
func (t RateTimeline) NextChangeAfter(date time.Time) (time.Time, bool) {
	for _, e := range t {
		if e.EffectiveDate.After(date) {
			return e.EffectiveDate, true
		}
	}
	return time.Time{}, false
}
