// Package calendar projects balances forward from accounts, recurring items and transfers.
// Everything here is pure: the same input always yields the same calendar.
package calendar

import (
	"fmt"
	"time"

	"github.com/Dan9191/cashflow-forecaster/internal/models"
)

// semiMonthlyOffset is the distance in days between the two semi-monthly occurrences
const semiMonthlyOffset = 15

// Expand returns the occurrences of a rule anchored at anchor that fall in [start, end],
// ascending and without duplicates. Anchors before start still set the phase.
func Expand(anchor models.Date, freq models.Frequency, start, end models.Date) []models.Date {
	if anchor.IsZero() || end.Before(start) {
		return nil
	}

	switch freq {
	case models.OneTime:
		if anchor.Before(start) || anchor.After(end) {
			return nil
		}
		return []models.Date{anchor}
	case models.Weekly:
		return expandDays(anchor, 7, start, end)
	case models.Biweekly:
		return expandDays(anchor, 14, start, end)
	case models.SemiMonthly:
		return expandSemiMonthly(anchor, start, end)
	case models.Monthly:
		return expandMonths(anchor, 1, start, end)
	case models.Quarterly:
		return expandMonths(anchor, 3, start, end)
	case models.Annually:
		return expandMonths(anchor, 12, start, end)
	}
	panic(fmt.Sprintf("calendar: unhandled frequency %d", int(freq)))
}

func expandDays(anchor models.Date, step int, start, end models.Date) []models.Date {
	first := anchor
	if anchor.Before(start) {
		// jump straight to the first occurrence on or after start
		gap := anchor.DaysUntil(start)
		first = anchor.AddDays((gap + step - 1) / step * step)
	}

	var out []models.Date
	for d := first; !d.After(end); d = d.AddDays(step) {
		if !d.Before(start) {
			out = append(out, d)
		}
	}
	return out
}

func expandMonths(anchor models.Date, step int, start, end models.Date) []models.Date {
	n := 0
	if anchor.Before(start) {
		// one period early so clamped dates near the window edge are not skipped
		n = anchor.MonthsUntil(start)/step - 1
		if n < 0 {
			n = 0
		}
	}

	var out []models.Date
	for ; ; n++ {
		d := anchor.AddMonthsClamped(n * step)
		if d.After(end) {
			break
		}
		if !d.Before(start) {
			out = append(out, d)
		}
	}
	return out
}

func expandSemiMonthly(anchor models.Date, start, end models.Date) []models.Date {
	m := 0
	if anchor.Before(start) {
		m = anchor.MonthsUntil(start) - 1
		if m < 0 {
			m = 0
		}
	}

	var out []models.Date
	for ; ; m++ {
		month := models.NewDate(anchor.Year(), anchor.Month()+time.Month(m), 1)
		if month.After(end) {
			break
		}
		first := models.MonthDay(month.Year(), month.Month(), anchor.Day())
		second := models.MonthDay(month.Year(), month.Month(), anchor.Day()+semiMonthlyOffset)
		for i, d := range []models.Date{first, second} {
			if i == 1 && d.Equal(first) {
				continue
			}
			if d.Before(anchor) || d.Before(start) || d.After(end) {
				continue
			}
			out = append(out, d)
		}
	}
	return out
}
