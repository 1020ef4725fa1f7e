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

func TestRecalculateFrom_RoundTrip(t *testing.T) {
	// Zero paid payments and fromDate == startDate must reproduce the
	// original schedule exactly.
	for _, method := range []domain.CalculationMethod{
		domain.ClassicAnnuity,
		domain.ClassicDifferentiated,
		domain.FloatingAnnuity,
		domain.FloatingDifferentiated,
	} {
		t.Run(string(method), func(t *testing.T) {
			credit := testCredit(method)
			rates := singleRate(12, credit.StartDate)

			original, err := Generate(credit, rates, nil)
			require.NoError(t, err)

			recalculated, err := RecalculateFrom(credit, rates, nil, credit.StartDate, nil)
			require.NoError(t, err)

			require.Len(t, recalculated, len(original))
			for i := range original {
				assert.Equal(t, original[i].DueDate, recalculated[i].DueDate)
				assert.True(t, original[i].PrincipalDue.Equal(recalculated[i].PrincipalDue))
				assert.True(t, original[i].InterestDue.Equal(recalculated[i].InterestDue))
				assert.True(t, original[i].RemainingBalance.Equal(recalculated[i].RemainingBalance))
			}
		})
	}
}

func TestRecalculateFrom_PaidHistory(t *testing.T) {
	credit := testCredit(domain.ClassicDifferentiated)
	rates := singleRate(12, credit.StartDate)

	paid := decimal.NewFromInt(10000)
	payments := []domain.Payment{
		{PeriodNumber: 1, Status: domain.PaymentStatusPaid, DueDate: date(2024, time.February, 1), PaidAmount: decimal.NewFromInt(11200), PaidPrincipal: paid},
		{PeriodNumber: 2, Status: domain.PaymentStatusPaid, DueDate: date(2024, time.March, 1), PaidAmount: decimal.NewFromInt(11100), PaidPrincipal: paid},
		{PeriodNumber: 3, Status: domain.PaymentStatusPaid, DueDate: date(2024, time.April, 1), PaidAmount: decimal.NewFromInt(11000), PaidPrincipal: paid},
		// Pending payments and payments due on/after fromDate are ignored.
		{PeriodNumber: 4, Status: domain.PaymentStatusPending, DueDate: date(2024, time.May, 1), PaidPrincipal: paid},
	}

	fromDate := date(2024, time.May, 1)
	items, err := RecalculateFrom(credit, rates, nil, fromDate, payments)
	require.NoError(t, err)

	// 3 paid periods: derived credit has principal 90000 over 9 months.
	require.Len(t, items, 9)
	assert.Equal(t, 1, items[0].PeriodNumber)
	assert.Equal(t, date(2024, time.June, 1), items[0].DueDate)
	assert.Equal(t, "10000.00", items[0].PrincipalDue.StringFixed(2))
	// First remaining period accrues on the reduced balance.
	assert.Equal(t, "900.00", items[0].InterestDue.StringFixed(2))

	assertScheduleInvariants(t, items, decimal.NewFromInt(90000))
}

func TestRecalculateFrom_DefermentConsumed(t *testing.T) {
	credit := testCredit(domain.ClassicDifferentiated)
	credit.DefermentMonths = 2
	rates := singleRate(12, credit.StartDate)

	payments := []domain.Payment{
		{PeriodNumber: 1, Status: domain.PaymentStatusPaid, DueDate: date(2024, time.February, 1), PaidPrincipal: decimal.Zero},
		{PeriodNumber: 2, Status: domain.PaymentStatusPaid, DueDate: date(2024, time.March, 1), PaidPrincipal: decimal.Zero},
		{PeriodNumber: 3, Status: domain.PaymentStatusPaid, DueDate: date(2024, time.April, 1), PaidPrincipal: decimal.NewFromInt(10000)},
	}

	items, err := RecalculateFrom(credit, rates, nil, date(2024, time.May, 1), payments)
	require.NoError(t, err)

	// Both deferment slots were consumed by the paid history: the remaining
	// schedule starts repaying principal immediately.
	require.Len(t, items, 9)
	assert.True(t, items[0].PrincipalDue.IsPositive())
}

func TestRecalculateFrom_InvalidHistory(t *testing.T) {
	credit := testCredit(domain.ClassicDifferentiated)
	rates := singleRate(12, credit.StartDate)

	overpaid := []domain.Payment{
		{PeriodNumber: 1, Status: domain.PaymentStatusPaid, DueDate: date(2024, time.February, 1), PaidPrincipal: decimal.NewFromInt(120000)},
	}
	_, err := RecalculateFrom(credit, rates, nil, date(2024, time.March, 1), overpaid)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidPaymentHistory)

	allPaid := make([]domain.Payment, 12)
	for i := range allPaid {
		allPaid[i] = domain.Payment{
			PeriodNumber:  i + 1,
			Status:        domain.PaymentStatusPaid,
			DueDate:       date(2024, time.February, 1).AddDate(0, i, 0),
			PaidPrincipal: decimal.NewFromInt(1000),
		}
	}
	_, err = RecalculateFrom(credit, rates, nil, date(2026, time.January, 1), allPaid)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidPaymentHistory)
}
