package models

// ItemKind tells bills from income
type ItemKind string

const (
	ItemBill   ItemKind = "bill"
	ItemIncome ItemKind = "income"
)

// RecurringItem is a bill or an income source. Amount is a magnitude; the sign comes from Kind.
type RecurringItem struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Kind      ItemKind  `json:"kind"`
	Name      string    `json:"name"`
	Amount    Money     `json:"amount"`
	Frequency Frequency `json:"frequency"`
	// AnchorDate is the due date (bills) or next payment date (income)
	AnchorDate Date   `json:"anchor_date"`
	AccountID  string `json:"account_id,omitempty"`
	Category   string `json:"category,omitempty"`
	IsActive   bool   `json:"is_active"`
	InvoiceID  string `json:"invoice_id,omitempty"` // Income only
}
