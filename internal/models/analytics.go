package models

// MonthlySummary represents monthly-equivalent income and bill totals
type MonthlySummary struct {
	Income     Money  `json:"income"`
	Bills      Money  `json:"bills"`
	NetBalance Money  `json:"net_balance"`
	Currency   string `json:"currency"`
}
