package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MinorUnits is the number of minor units per major unit (cents per dollar)
const MinorUnits = 100

// Money is an amount in minor units of the display currency.
// Arithmetic stays in integers; decimal is used only at the boundaries.
type Money int64

// MoneyFromDecimal rounds d to the nearest minor unit
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money(d.Shift(2).Round(0).IntPart())
}

// MoneyFromFloat converts a major-unit float, rejecting NaN and infinities
func MoneyFromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("amount must be finite")
	}
	if math.Abs(f) >= 1e15 {
		return 0, fmt.Errorf("amount exceeds maximum (1e15)")
	}
	return MoneyFromDecimal(decimal.NewFromFloat(f)), nil
}

// ParseMoney parses a major-unit decimal string such as "1200.50"
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return MoneyFromDecimal(d), nil
}

// Decimal returns the amount in major units
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// Float64 returns the amount in major units as a float, for display only
func (m Money) Float64() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

// Abs returns the magnitude
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// String formats the amount with two decimals
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// Format renders the amount for people, e.g. "-$1,200.00" or "1,200.00 EUR"
func (m Money) Format(currency string) string {
	digits := m.Abs().Decimal().StringFixed(2)
	whole, frac, _ := strings.Cut(digits, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	number := b.String() + "." + frac

	sign := ""
	if m < 0 {
		sign = "-"
	}
	if symbol, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		return sign + symbol + number
	}
	if currency == "" {
		return sign + number
	}
	return sign + number + " " + strings.ToUpper(currency)
}

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "$",
	"AUD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
}

// MarshalJSON encodes the amount as a JSON number in major units
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string in major units
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*m = 0
		return nil
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
