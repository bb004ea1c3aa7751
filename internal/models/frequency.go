package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Frequency is how often a bill, income or transfer recurs
type Frequency int

const (
	OneTime Frequency = iota
	Weekly
	Biweekly
	SemiMonthly
	Monthly
	Quarterly
	Annually
)

type frequencyInfo struct {
	code  string
	label string
	// occurrences per year, used for monthly-equivalent totals
	perYear int64
}

var frequencies = [...]frequencyInfo{
	OneTime:     {code: "one-time", label: "One time", perYear: 0},
	Weekly:      {code: "weekly", label: "Weekly", perYear: 52},
	Biweekly:    {code: "biweekly", label: "Every 2 weeks", perYear: 26},
	SemiMonthly: {code: "semi-monthly", label: "Twice a month", perYear: 24},
	Monthly:     {code: "monthly", label: "Monthly", perYear: 12},
	Quarterly:   {code: "quarterly", label: "Quarterly", perYear: 4},
	Annually:    {code: "annually", label: "Yearly", perYear: 1},
}

// aliases seen in stored rows and request bodies
var frequencyAliases = map[string]Frequency{
	"once":         OneTime,
	"one_time":     OneTime,
	"onetime":      OneTime,
	"bi-weekly":    Biweekly,
	"fortnightly":  Biweekly,
	"semimonthly":  SemiMonthly,
	"semi_monthly": SemiMonthly,
	"yearly":       Annually,
	"annual":       Annually,
}

// Frequencies lists every frequency in declaration order
func Frequencies() []Frequency {
	return []Frequency{OneTime, Weekly, Biweekly, SemiMonthly, Monthly, Quarterly, Annually}
}

// Valid reports whether f is one of the declared frequencies
func (f Frequency) Valid() bool {
	return f >= OneTime && f <= Annually
}

// ParseFrequency maps a stored or submitted code to a Frequency
func ParseFrequency(s string) (Frequency, error) {
	code := strings.ToLower(strings.TrimSpace(s))
	for i, info := range frequencies {
		if info.code == code {
			return Frequency(i), nil
		}
	}
	if f, ok := frequencyAliases[code]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown frequency %q", s)
}

// String returns the wire code, e.g. "semi-monthly"
func (f Frequency) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Frequency(%d)", int(f))
	}
	return frequencies[f].code
}

// Label returns the human readable name
func (f Frequency) Label() string {
	if !f.Valid() {
		return "Unknown"
	}
	return frequencies[f].label
}

// IsRecurring is false only for one-time items
func (f Frequency) IsRecurring() bool {
	return f != OneTime
}

// MonthlyEquivalent converts a per-occurrence amount to an average monthly amount.
// One-time amounts contribute nothing.
func (f Frequency) MonthlyEquivalent(amount Money) Money {
	if !f.Valid() || f == OneTime {
		return 0
	}
	perYear := decimal.NewFromInt(frequencies[f].perYear)
	monthly := amount.Decimal().Mul(perYear).Div(decimal.NewFromInt(12))
	return MoneyFromDecimal(monthly)
}

// MarshalJSON encodes the wire code
func (f Frequency) MarshalJSON() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("unknown frequency %d", int(f))
	}
	return json.Marshal(f.String())
}

// UnmarshalJSON decodes a wire code or alias; empty means one-time
func (f *Frequency) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid frequency: %w", err)
	}
	if s == "" {
		*f = OneTime
		return nil
	}
	parsed, err := ParseFrequency(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
