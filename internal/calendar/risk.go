package calendar

import (
	"github.com/Dan9191/cashflow-forecaster/internal/models"
)

// MinCollisionBills is how many distinct bills must share a day to count as a collision
const MinCollisionBills = 2

// RiskSummary describes the dangerous points of a projected calendar.
// A balance equal to the buffer is not a breach, and a balance of exactly zero is not an overdraft.
type RiskSummary struct {
	LowestBalance     models.Money  `json:"lowest_balance"`
	LowestBalanceDate models.Date   `json:"lowest_balance_date"`
	FirstBufferBreach models.Date   `json:"first_buffer_breach"`
	FirstOverdraft    models.Date   `json:"first_overdraft"`
	CollisionDays     []models.Date `json:"collision_days"`
	DaysBelowBuffer   int           `json:"days_below_buffer"`
}

// HasOverdraft reports whether any day went below zero
func (r RiskSummary) HasOverdraft() bool { return !r.FirstOverdraft.IsZero() }

// HasBufferBreach reports whether any day went below the safety buffer
func (r RiskSummary) HasBufferBreach() bool { return !r.FirstBufferBreach.IsZero() }

// Analyze scans the days once. Only the spendable aggregate is considered.
func Analyze(days []models.CalendarDay, buffer models.Money) RiskSummary {
	summary := RiskSummary{CollisionDays: []models.Date{}}
	for i, day := range days {
		if i == 0 || day.Balance < summary.LowestBalance {
			summary.LowestBalance = day.Balance
			summary.LowestBalanceDate = day.Date
		}
		if day.Balance < buffer {
			summary.DaysBelowBuffer++
			if summary.FirstBufferBreach.IsZero() {
				summary.FirstBufferBreach = day.Date
			}
		}
		if day.Balance < 0 && summary.FirstOverdraft.IsZero() {
			summary.FirstOverdraft = day.Date
		}
		if distinctBills(day.Bills) >= MinCollisionBills {
			summary.CollisionDays = append(summary.CollisionDays, day.Date)
		}
	}
	return summary
}

func distinctBills(bills []models.CashEvent) int {
	if len(bills) < 2 {
		return len(bills)
	}
	anonymous := 0
	seen := make(map[string]bool, len(bills))
	for _, b := range bills {
		if b.SourceID == "" {
			anonymous++
			continue
		}
		seen[b.SourceID] = true
	}
	return len(seen) + anonymous
}
