package models

// InvoiceStatus is the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Invoice is money a client is expected to pay on DueDate
type Invoice struct {
	ID         string        `json:"id"`
	UserID     int64         `json:"user_id"`
	ClientName string        `json:"client_name"`
	Amount     Money         `json:"amount"`
	DueDate    Date          `json:"due_date"`
	AccountID  string        `json:"account_id,omitempty"`
	Status     InvoiceStatus `json:"status"`
}

// IsOutstanding reports whether the invoice is still expected to be paid
func (i Invoice) IsOutstanding() bool {
	return i.Status == InvoiceSent || i.Status == InvoiceDraft
}
