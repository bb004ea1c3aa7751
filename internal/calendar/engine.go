package calendar

import (
	"time"

	"github.com/Dan9191/cashflow-forecaster/internal/models"
)

const (
	// DefaultDays is the projection length when none is requested
	DefaultDays = 90
	// MaxDays bounds the projection window
	MaxDays = 365
)

// Input is an immutable request for one projection. Today is explicit so results are reproducible.
type Input struct {
	Records
	Today        models.Date
	Days         int
	SafetyBuffer models.Money
	Currency     string
}

// TodayIn resolves "today" for a timezone name, falling back to UTC for empty or unknown names
func TodayIn(now time.Time, timezone string) models.Date {
	loc := time.UTC
	if timezone != "" {
		if l, err := time.LoadLocation(timezone); err == nil {
			loc = l
		}
	}
	return models.Today(now, loc)
}

// Projection is the computed calendar plus its risk summary
type Projection struct {
	Days             []models.CalendarDay `json:"days"`
	LowestBalance    models.Money         `json:"lowest_balance"`
	LowestBalanceDay models.Date          `json:"lowest_balance_day"`
	Currency         string               `json:"currency"`
	SafetyBuffer     models.Money         `json:"safety_buffer"`
	SafeToSpend      models.Money         `json:"safe_to_spend"`
	DebtTotal        models.Money         `json:"debt_total"`
	Risk             RiskSummary          `json:"risk"`

	// kept so scenarios can re-walk the same baseline
	today    models.Date
	start    models.Date
	end      models.Date
	accounts []models.Account
	events   []models.CashEvent
}

// Project expands, walks and analyzes one user's records over Days days starting today
func Project(in Input) (*Projection, error) {
	if len(in.Accounts) == 0 {
		return nil, ErrNoAccounts
	}
	if in.Today.IsZero() {
		return nil, invalid("today", "a reference date is required")
	}
	days := in.Days
	if days == 0 {
		days = DefaultDays
	}
	if days < 1 || days > MaxDays {
		return nil, invalid("days", "must be between 1 and %d", MaxDays)
	}
	if in.SafetyBuffer < 0 {
		return nil, invalid("safety_buffer", "must not be negative")
	}

	start := in.Today
	end := start.AddDays(days - 1)

	events, err := Normalize(in.Records, start, end)
	if err != nil {
		return nil, err
	}
	walked, err := Walk(in.Accounts, events, start, end)
	if err != nil {
		return nil, err
	}
	risk := Analyze(walked, in.SafetyBuffer)

	p := &Projection{
		Days:             walked,
		LowestBalance:    risk.LowestBalance,
		LowestBalanceDay: risk.LowestBalanceDate,
		Currency:         in.Currency,
		SafetyBuffer:     in.SafetyBuffer,
		Risk:             risk,
		today:            in.Today,
		start:            start,
		end:              end,
		accounts:         append([]models.Account(nil), in.Accounts...),
		events:           events,
	}
	if room := risk.LowestBalance - in.SafetyBuffer; room > 0 {
		p.SafeToSpend = room
	}
	last := walked[len(walked)-1]
	for _, a := range in.Accounts {
		if !a.IsSpendable && last.AccountBalances[a.ID] < 0 {
			p.DebtTotal += -last.AccountBalances[a.ID]
		}
	}
	return p, nil
}

// Window returns the first and last projected day
func (p *Projection) Window() (models.Date, models.Date) {
	return p.start, p.end
}

// Summarize returns monthly-equivalent totals of active recurring items
func Summarize(bills, income []models.RecurringItem, currency string) models.MonthlySummary {
	s := models.MonthlySummary{Currency: currency}
	for _, b := range bills {
		if b.IsActive {
			s.Bills += b.Frequency.MonthlyEquivalent(b.Amount.Abs())
		}
	}
	for _, i := range income {
		if i.IsActive {
			s.Income += i.Frequency.MonthlyEquivalent(i.Amount.Abs())
		}
	}
	s.NetBalance = s.Income - s.Bills
	return s
}
