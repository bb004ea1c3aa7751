package calendar

import (
	"fmt"

	"github.com/Dan9191/cashflow-forecaster/internal/models"
)

// Hypothetical is an expense being considered, one-off or recurring
type Hypothetical struct {
	Name      string           `json:"name"`
	Amount    float64          `json:"amount"`
	Date      models.Date      `json:"date"`
	Frequency models.Frequency `json:"frequency"`
	AccountID string           `json:"account_id,omitempty"`
}

// ScenarioResult compares the scenario timeline with the baseline
type ScenarioResult struct {
	CanAfford        bool         `json:"can_afford"`
	LowestBalance    models.Money `json:"lowest_balance"`
	PreviousLowest   models.Money `json:"previous_lowest"`
	LowestDate       models.Date  `json:"lowest_date"`
	CausesOverdraft  bool         `json:"causes_overdraft"`
	CausesLowBalance bool         `json:"causes_low_balance"`
	FirstProblemDay  models.Date  `json:"first_problem_day"`
	ImpactSummary    string       `json:"impact_summary"`
}

// PreviewDay is one row of the baseline/scenario comparison
type PreviewDay struct {
	Date            models.Date  `json:"date"`
	BaselineBalance models.Money `json:"baseline_balance"`
	ScenarioBalance models.Money `json:"scenario_balance"`
	Delta           models.Money `json:"delta"`
}

// ScenarioOutcome is the answer to "can I afford this"
type ScenarioOutcome struct {
	ID                 string         `json:"id,omitempty"`
	Scenario           Hypothetical   `json:"scenario"`
	Result             ScenarioResult `json:"result"`
	Preview            []PreviewDay   `json:"preview"`
	NextAffordableDate models.Date    `json:"next_affordable_date"`
}

// ApplyScenario re-walks the baseline with the hypothetical expense injected.
// Invalid input is rejected with a ValidationError before anything is computed.
func (p *Projection) ApplyScenario(h Hypothetical) (*ScenarioOutcome, error) {
	amount, err := models.MoneyFromFloat(h.Amount)
	if err != nil {
		return nil, invalid("amount", "%v", err)
	}
	if amount <= 0 {
		return nil, invalid("amount", "must be greater than zero")
	}
	if h.Date.IsZero() {
		return nil, invalid("date", "is required")
	}
	if h.Date.Before(p.today) {
		return nil, invalid("date", "%s is in the past (today is %s)", h.Date, p.today)
	}
	if h.Date.After(p.end) {
		return nil, invalid("date", "%s is beyond the projection window ending %s", h.Date, p.end)
	}
	if !h.Frequency.Valid() {
		return nil, invalid("frequency", "unknown frequency")
	}
	accountID, err := p.scenarioAccount(h.AccountID)
	if err != nil {
		return nil, err
	}
	if h.Name == "" {
		h.Name = "Scenario"
	}

	days, risk, err := p.overlay(h, amount, accountID, h.Date)
	if err != nil {
		return nil, err
	}

	result := ScenarioResult{
		CanAfford:        !risk.HasOverdraft(),
		LowestBalance:    risk.LowestBalance,
		PreviousLowest:   p.LowestBalance,
		LowestDate:       risk.LowestBalanceDate,
		CausesOverdraft:  risk.HasOverdraft(),
		CausesLowBalance: risk.LowestBalance < p.SafetyBuffer,
		FirstProblemDay:  risk.FirstOverdraft,
	}
	result.ImpactSummary = p.impactSummary(result, risk)

	preview := make([]PreviewDay, len(days))
	for i, day := range days {
		base := p.Days[i].Balance
		preview[i] = PreviewDay{
			Date:            day.Date,
			BaselineBalance: base,
			ScenarioBalance: day.Balance,
			Delta:           day.Balance - base,
		}
	}

	outcome := &ScenarioOutcome{
		Scenario: h,
		Result:   result,
		Preview:  preview,
	}
	if !result.CanAfford {
		next, err := p.nextAffordableDate(h, amount, accountID)
		if err != nil {
			return nil, err
		}
		outcome.NextAffordableDate = next
	}
	return outcome, nil
}

func (p *Projection) scenarioAccount(id string) (string, error) {
	if id == "" {
		def, _ := DefaultAccount(p.accounts)
		return def.ID, nil
	}
	for _, a := range p.accounts {
		if a.ID == id {
			return id, nil
		}
	}
	return "", invalid("account_id", "account %q does not exist", id)
}

// overlay walks the baseline events plus the hypothetical starting on date
func (p *Projection) overlay(h Hypothetical, amount models.Money, accountID string, date models.Date) ([]models.CalendarDay, RiskSummary, error) {
	dates := Expand(date, h.Frequency, p.start, p.end)
	events := make([]models.CashEvent, 0, len(p.events)+len(dates))
	events = append(events, p.events...)
	for _, d := range dates {
		events = append(events, models.CashEvent{
			Date:      d,
			AccountID: accountID,
			Delta:     -amount,
			Kind:      models.EventBill,
			Label:     h.Name,
			Category:  "scenario",
			SourceID:  "scenario",
		})
	}

	days, err := Walk(p.accounts, events, p.start, p.end)
	if err != nil {
		return nil, RiskSummary{}, err
	}
	return days, Analyze(days, p.SafetyBuffer), nil
}

// nextAffordableDate tries each later baseline income day as the new start date
func (p *Projection) nextAffordableDate(h Hypothetical, amount models.Money, accountID string) (models.Date, error) {
	for _, day := range p.Days {
		if !day.Date.After(h.Date) || !day.HasIncome() {
			continue
		}
		_, risk, err := p.overlay(h, amount, accountID, day.Date)
		if err != nil {
			return models.Date{}, err
		}
		if !risk.HasOverdraft() {
			return day.Date, nil
		}
	}
	return models.Date{}, nil
}

func (p *Projection) impactSummary(r ScenarioResult, risk RiskSummary) string {
	lowest := fmt.Sprintf("%s on %s", r.LowestBalance.Format(p.Currency), humanDate(r.LowestDate))
	switch {
	case r.CausesOverdraft:
		return fmt.Sprintf("Not affordable: your balance goes negative on %s. Lowest balance would be %s.",
			humanDate(r.FirstProblemDay), lowest)
	case r.CausesLowBalance:
		return fmt.Sprintf("Affordable, but your balance drops below your %s safety buffer on %s. Lowest balance would be %s.",
			p.SafetyBuffer.Format(p.Currency), humanDate(risk.FirstBufferBreach), lowest)
	default:
		return fmt.Sprintf("Affordable. Lowest balance would be %s, above your safety buffer.", lowest)
	}
}

func humanDate(d models.Date) string {
	if d.IsZero() {
		return "an unknown date"
	}
	return d.Time().Format("Jan 2, 2006")
}
