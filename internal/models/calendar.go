package models

// EventKind is the direction and origin of a cash event
type EventKind string

const (
	EventBill        EventKind = "bill"
	EventIncome      EventKind = "income"
	EventTransferIn  EventKind = "transfer_in"
	EventTransferOut EventKind = "transfer_out"
)

// IsInflow reports whether events of this kind add money
func (k EventKind) IsInflow() bool {
	return k == EventIncome || k == EventTransferIn
}

// CashEvent is one dated balance change on one account. Delta is signed.
type CashEvent struct {
	Date      Date      `json:"date"`
	AccountID string    `json:"account_id"`
	Delta     Money     `json:"amount"`
	Kind      EventKind `json:"kind"`
	Label     string    `json:"label"`
	Category  string    `json:"category,omitempty"`
	SourceID  string    `json:"source_id"`
}

// CalendarDay is the end-of-day state of one projected day
type CalendarDay struct {
	Date            Date             `json:"date"`
	Balance         Money            `json:"balance"` // Spendable accounts only
	AccountBalances map[string]Money `json:"account_balances"`
	Income          []CashEvent      `json:"income"`
	Bills           []CashEvent      `json:"bills"`
	Transfers       []CashEvent      `json:"transfers"`
}

// HasIncome reports whether any income lands on the day
func (d CalendarDay) HasIncome() bool {
	return len(d.Income) > 0
}
