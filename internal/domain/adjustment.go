package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AdjustmentTypeDisbursement = "disbursement"
	AdjustmentTypePrepayment   = "prepayment"
)

// AdjustmentEntry is a signed out-of-schedule change to outstanding
// principal: positive increases it (additional disbursement), negative
// reduces it (early repayment).
type AdjustmentEntry struct {
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	EffectiveDate time.Time       `json:"effective_date" db:"effective_date"`
	Type          string          `json:"type" db:"type"`
}

// AdjustmentTimeline is an ordered sequence of principal adjustments.
type AdjustmentTimeline []AdjustmentEntry

// NetWithin sums adjustments effective in the half-open window (start, end].
func (t AdjustmentTimeline) NetWithin(start, end time.Time) decimal.Decimal {
	net := decimal.Zero
	for _, e := range t {
		if e.EffectiveDate.After(start) && !e.EffectiveDate.After(end) {
			net = net.Add(e.Amount)
		}
	}
	return net
}

// NetAt sums adjustments effective exactly at date. Used for adjustments
// landing on the credit start date, which no period window covers.
func (t AdjustmentTimeline) NetAt(date time.Time) decimal.Decimal {
	net := decimal.Zero
	for _, e := range t {
		if e.EffectiveDate.Equal(date) {
			net = net.Add(e.Amount)
		}
	}
	return net
}
