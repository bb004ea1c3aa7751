package models

// Transfer moves money between two accounts of the same user
type Transfer struct {
	ID            string    `json:"id"`
	UserID        int64     `json:"user_id"`
	FromAccountID string    `json:"from_account_id"`
	ToAccountID   string    `json:"to_account_id"`
	Amount        Money     `json:"amount"`
	Date          Date      `json:"date"`
	Frequency     Frequency `json:"frequency"`
	Description   string    `json:"description,omitempty"`
	IsActive      bool      `json:"is_active"`
}
