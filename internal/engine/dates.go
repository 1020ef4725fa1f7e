package engine

import "time"

// DueDate maps a 1-based period number to its due date: paymentDay in the
// month periodNumber months after the start date's month. When paymentDay
// does not exist in the target month (31 in April, 29-31 in February) the
// date is clamped to the last day of that month.
func DueDate(startDate time.Time, periodNumber, paymentDay int) time.Time {
	year, month, _ := startDate.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, startDate.Location())
	first = first.AddDate(0, periodNumber, 0)

	lastDay := first.AddDate(0, 1, -1).Day()
	day := paymentDay
	if day > lastDay {
		day = lastDay
	}

	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, startDate.Location())
}

// YearDays returns 366 if t falls in a leap year, else 365.
func YearDays(t time.Time) int {
	y := t.Year()
	if y%4 != 0 {
		return 365
	}
	if y%100 != 0 {
		return 366
	}
	if y%400 == 0 {
		return 366
	}
	return 365
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
