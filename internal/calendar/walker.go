package calendar

import (
	"fmt"
	"sort"

	"github.com/Dan9191/cashflow-forecaster/internal/models"
)

// Walk applies events to running account balances one day at a time and returns one
// CalendarDay per day of [start, end]. Events outside the window are ignored.
func Walk(accounts []models.Account, events []models.CashEvent, start, end models.Date) ([]models.CalendarDay, error) {
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}
	if start.IsZero() || end.IsZero() {
		return nil, invalid("window", "start and end dates are required")
	}
	if end.Before(start) {
		return nil, invalid("window", "end %s is before start %s", end, start)
	}

	running := make(map[string]models.Money, len(accounts))
	spendable := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		running[a.ID] = a.Balance
		spendable[a.ID] = a.IsSpendable
	}

	sorted := make([]models.CashEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	i := 0
	for i < len(sorted) && sorted[i].Date.Before(start) {
		i++
	}

	days := make([]models.CalendarDay, 0, start.DaysUntil(end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		day := models.CalendarDay{Date: d}

		for ; i < len(sorted) && sorted[i].Date.Equal(d); i++ {
			ev := sorted[i]
			if _, ok := running[ev.AccountID]; !ok {
				return nil, fmt.Errorf("event %q on %s references unknown account %q", ev.Label, ev.Date, ev.AccountID)
			}
			running[ev.AccountID] += ev.Delta

			switch ev.Kind {
			case models.EventIncome:
				day.Income = append(day.Income, ev)
			case models.EventBill:
				day.Bills = append(day.Bills, ev)
			default:
				day.Transfers = append(day.Transfers, ev)
			}
		}

		day.AccountBalances = make(map[string]models.Money, len(running))
		for _, a := range accounts {
			bal := running[a.ID]
			day.AccountBalances[a.ID] = bal
			if spendable[a.ID] {
				day.Balance += bal
			}
		}
		days = append(days, day)
	}
	return days, nil
}
