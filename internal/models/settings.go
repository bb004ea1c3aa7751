package models

// SafetySettings holds the user's forecasting preferences
type SafetySettings struct {
	SafetyBuffer *Money `json:"safety_buffer"` // nil means "use the configured default"
	Timezone     string `json:"timezone"`      // IANA name; empty means the configured default
	Currency     string `json:"currency"`
}

// Snapshot is everything the forecaster needs about one user, read in one go
type Snapshot struct {
	UserID    int64           `json:"user_id"`
	Accounts  []Account       `json:"accounts"`
	Bills     []RecurringItem `json:"bills"`
	Income    []RecurringItem `json:"income"`
	Transfers []Transfer      `json:"transfers"`
	Invoices  []Invoice       `json:"invoices"`
	Settings  SafetySettings  `json:"settings"`
}
