package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/credofin/credit-engine/internal/domain"
	"github.com/credofin/credit-engine/pkg/errors"
)

// RecalculateFrom regenerates the unpaid remainder of a schedule as of
// fromDate. Payments with status "paid" and a due date before fromDate are
// treated as settled: their principal is subtracted and the term shrinks by
// their count. The result is a fresh schedule for the remaining periods
// only; already-paid periods are never re-emitted.
//
// With no paid history and fromDate equal to the credit's start date this
// reproduces the original schedule exactly.
func RecalculateFrom(credit *domain.Credit, rates domain.RateTimeline, adjustments domain.AdjustmentTimeline, fromDate time.Time, payments []domain.Payment) ([]domain.ScheduleItem, error) {
	paidPrincipal := decimal.Zero
	paidCount := 0
	for _, p := range payments {
		if p.Status == domain.PaymentStatusPaid && p.DueDate.Before(fromDate) {
			paidPrincipal = paidPrincipal.Add(p.PaidPrincipal)
			paidCount++
		}
	}

	if paidCount >= credit.TermMonths {
		return nil, errors.WrapInvalidPaymentHistory("all periods already paid, nothing to recalculate")
	}
	if paidPrincipal.GreaterThanOrEqual(credit.Principal) {
		return nil, errors.WrapInvalidPaymentHistory("paid principal exceeds credit principal")
	}

	derived := *credit
	derived.Principal = credit.Principal.Sub(paidPrincipal)
	derived.StartDate = fromDate
	derived.TermMonths = credit.TermMonths - paidCount
	// Paid periods consume deferment slots first.
	derived.DefermentMonths = credit.DefermentMonths - paidCount
	if derived.DefermentMonths < 0 {
		derived.DefermentMonths = 0
	}

	return Generate(&derived, rates, adjustments)
}
