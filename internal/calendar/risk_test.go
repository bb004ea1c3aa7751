package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dan9191/cashflow-forecaster/internal/models"
)

func balances(start string, values ...models.Money) []models.CalendarDay {
	days := make([]models.CalendarDay, len(values))
	for i, v := range values {
		days[i] = models.CalendarDay{Date: d(start).AddDays(i), Balance: v}
	}
	return days
}

func TestAnalyze_LowestFirstOccurrence(t *testing.T) {
	summary := Analyze(balances("2024-01-01", 500, 200, 300, 200, 900), 0)

	assert.Equal(t, models.Money(200), summary.LowestBalance)
	assert.Equal(t, d("2024-01-02"), summary.LowestBalanceDate)
	assert.False(t, summary.HasOverdraft())
	assert.False(t, summary.HasBufferBreach())
}

func TestAnalyze_Boundaries(t *testing.T) {
	// exactly the buffer is not a breach, exactly zero is not an overdraft
	summary := Analyze(balances("2024-01-01", 1000, 100, 0, 99, -1), 100)

	assert.Equal(t, d("2024-01-03"), summary.FirstBufferBreach)
	assert.Equal(t, d("2024-01-05"), summary.FirstOverdraft)
	assert.Equal(t, 3, summary.DaysBelowBuffer)
	assert.Equal(t, models.Money(-1), summary.LowestBalance)
}

func TestAnalyze_CollisionDays(t *testing.T) {
	days := balances("2024-01-01", 0, 0, 0)
	days[0].Bills = []models.CashEvent{{SourceID: "rent"}, {SourceID: "phone"}}
	// two events from the same bill are one bill
	days[1].Bills = []models.CashEvent{{SourceID: "rent"}, {SourceID: "rent"}}
	days[2].Bills = []models.CashEvent{{SourceID: "rent"}}

	summary := Analyze(days, 0)
	assert.Equal(t, []models.Date{d("2024-01-01")}, summary.CollisionDays)
}

func TestAnalyze_Empty(t *testing.T) {
	summary := Analyze(nil, 100)
	assert.Equal(t, models.Money(0), summary.LowestBalance)
	assert.True(t, summary.LowestBalanceDate.IsZero())
	assert.Empty(t, summary.CollisionDays)
}
