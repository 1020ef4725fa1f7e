// Package engine is the amortization schedule engine. Every function is a
// pure computation over its arguments: no I/O, no shared state, safe for
// concurrent use. Callers materialize the credit, its rate timeline and its
// adjustments before invoking it, and own all persistence and logging.
package engine

import (
	"github.com/shopspring/decimal"

	"github.com/credofin/credit-engine/internal/domain"
	"github.com/credofin/credit-engine/pkg/errors"
)

var monthsPerYear = decimal.NewFromInt(12)

// Generate produces the complete payment schedule for a credit. All
// validation happens before the first period is generated; no partial
// schedule is ever returned.
func Generate(credit *domain.Credit, rates domain.RateTimeline, adjustments domain.AdjustmentTimeline) ([]domain.ScheduleItem, error) {
	if err := validate(credit, rates); err != nil {
		return nil, err
	}

	// Classic methods fix the rate once, from the entry in force at the
	// start date.
	startRate, err := rates.RateAt(credit.StartDate)
	if err != nil {
		return nil, err
	}
	monthlyRate := monthlyRateOf(startRate)

	var levelPayment decimal.Decimal
	if credit.Method == domain.ClassicAnnuity {
		levelPayment = AnnuityPayment(credit.Principal, monthlyRate, credit.TermMonths)
	}

	var constPrincipal decimal.Decimal
	if credit.Method == domain.ClassicDifferentiated {
		constPrincipal = credit.Principal.Div(decimal.NewFromInt(int64(credit.TermMonths)))
	}

	remaining := credit.Principal
	if credit.Method.IsFloating() {
		remaining = remaining.Add(adjustments.NetAt(credit.StartDate))
	}

	items := make([]domain.ScheduleItem, 0, credit.TermMonths)
	prevDate := credit.StartDate

	for period := 1; period <= credit.TermMonths; period++ {
		dueDate := DueDate(credit.StartDate, period, credit.PaymentDay)

		// Floating methods apply principal adjustments falling inside the
		// period window before interest accrues on the balance.
		if credit.Method.IsFloating() {
			remaining = remaining.Add(adjustments.NetWithin(prevDate, dueDate))
		}

		var interest decimal.Decimal
		if credit.Method.IsFloating() {
			interest, err = InterestFor(remaining, prevDate, dueDate, rates)
			if err != nil {
				return nil, err
			}
		} else {
			interest = remaining.Mul(monthlyRate)
		}

		var principalDue decimal.Decimal
		switch {
		case period <= credit.DefermentMonths:
			// Deferment: interest accrues, no principal is due.
			principalDue = decimal.Zero
		case period == credit.TermMonths:
			// Balloon correction: the final period always clears the
			// outstanding balance exactly, absorbing accumulated rounding.
			principalDue = remaining
		default:
			remainingTerm := credit.TermMonths - period + 1
			switch credit.Method {
			case domain.ClassicAnnuity:
				principalDue = levelPayment.Sub(interest)
			case domain.ClassicDifferentiated:
				principalDue = constPrincipal
			case domain.FloatingAnnuity:
				// The payment is recomputed from the rate in force at the
				// period start and the remaining term. It jumps when the
				// rate changes; no smoothing.
				periodRate, rerr := rates.RateAt(prevDate)
				if rerr != nil {
					return nil, rerr
				}
				payment := AnnuityPayment(remaining, monthlyRateOf(periodRate), remainingTerm)
				principalDue = payment.Sub(interest)
			case domain.FloatingDifferentiated:
				principalDue = remaining.Div(decimal.NewFromInt(int64(remainingTerm)))
			}
		}

		// Money is rounded once, at emission. RemainingBalance stays exact
		// because the rounded principal is what gets subtracted.
		principalDue = principalDue.Round(2)
		interest = interest.Round(2)
		remaining = remaining.Sub(principalDue)

		items = append(items, domain.ScheduleItem{
			CreditID:         credit.CreditID,
			PeriodNumber:     period,
			DueDate:          dueDate,
			PrincipalDue:     principalDue,
			InterestDue:      interest,
			TotalDue:         principalDue.Add(interest),
			RemainingBalance: remaining.Round(2),
			Status:           domain.ScheduleStatusPending,
		})
		prevDate = dueDate
	}

	return items, nil
}

func validate(credit *domain.Credit, rates domain.RateTimeline) error {
	if credit.TermMonths <= 0 || !credit.Principal.IsPositive() {
		return errors.WrapInvalidTermOrPrincipal(credit.TermMonths, credit.Principal.String())
	}
	if credit.PaymentDay < 1 || credit.PaymentDay > 31 {
		return errors.WrapInvalidPaymentDay(credit.PaymentDay)
	}
	if credit.DefermentMonths < 0 || credit.DefermentMonths >= credit.TermMonths {
		return errors.WrapInvalidTermOrPrincipal(credit.TermMonths, credit.Principal.String())
	}
	return rates.Validate()
}

func monthlyRateOf(annualPercent decimal.Decimal) decimal.Decimal {
	return annualPercent.Div(hundred).Div(monthsPerYear)
}

// Totals aggregates a schedule for the response envelope.
func Totals(items []domain.ScheduleItem) domain.ScheduleTotals {
	var t domain.ScheduleTotals
	for _, item := range items {
		t.TotalPrincipal = t.TotalPrincipal.Add(item.PrincipalDue)
		t.TotalInterest = t.TotalInterest.Add(item.InterestDue)
		t.TotalDue = t.TotalDue.Add(item.TotalDue)
	}
	return t
}
