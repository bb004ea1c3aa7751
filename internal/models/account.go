package models

import "fmt"

// AccountKind classifies an account for aggregation
type AccountKind string

const (
	AccountChecking   AccountKind = "checking"
	AccountSavings    AccountKind = "savings"
	AccountCreditCard AccountKind = "credit_card"
	AccountOther      AccountKind = "other"
)

// ParseAccountKind maps a stored kind to an AccountKind
func ParseAccountKind(s string) (AccountKind, error) {
	switch AccountKind(s) {
	case AccountChecking, AccountSavings, AccountCreditCard, AccountOther:
		return AccountKind(s), nil
	case "credit-card", "credit":
		return AccountCreditCard, nil
	case "":
		return AccountOther, nil
	}
	return "", fmt.Errorf("unknown account kind %q", s)
}

// Account represents a bank account or credit card. Its balance is day 0 of every projection.
type Account struct {
	ID          string      `json:"id"`
	UserID      int64       `json:"user_id"`
	Name        string      `json:"name"`
	Balance     Money       `json:"balance"`
	Currency    string      `json:"currency"`
	Kind        AccountKind `json:"kind"`
	IsSpendable bool        `json:"is_spendable"` // Credit cards are tracked as debt, not spendable cash
	CreditCard  *CreditCard `json:"credit_card,omitempty"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
}

// CreditCard holds the optional card-specific fields of an account
type CreditCard struct {
	Limit             Money   `json:"limit"`
	APR               float64 `json:"apr"`
	MinPaymentPercent float64 `json:"min_payment_percent"`
	PaymentDueDay     int     `json:"payment_due_day"`
}

// AvailableCredit returns the unused part of the card limit.
// Card balances are stored as negative amounts owed.
func (a Account) AvailableCredit() Money {
	if a.CreditCard == nil {
		return 0
	}
	return a.CreditCard.Limit + a.Balance
}
