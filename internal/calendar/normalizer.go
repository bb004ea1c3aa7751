package calendar

import (
	"github.com/Dan9191/cashflow-forecaster/internal/models"
)

// Records are the raw rows of one user that produce cash events
type Records struct {
	Accounts  []models.Account
	Bills     []models.RecurringItem
	Income    []models.RecurringItem
	Transfers []models.Transfer
	Invoices  []models.Invoice
}

// DefaultAccount returns the account that takes items without an explicit account:
// the first spendable account, else the first account.
func DefaultAccount(accounts []models.Account) (models.Account, bool) {
	for _, a := range accounts {
		if a.IsSpendable {
			return a, true
		}
	}
	if len(accounts) > 0 {
		return accounts[0], true
	}
	return models.Account{}, false
}

// Normalize expands every active record into dated cash events inside [start, end].
// Events come out grouped by source (bills, income, invoices, transfers), not by date.
func Normalize(in Records, start, end models.Date) ([]models.CashEvent, error) {
	def, ok := DefaultAccount(in.Accounts)
	if !ok {
		return nil, ErrNoAccounts
	}
	known := make(map[string]bool, len(in.Accounts))
	for _, a := range in.Accounts {
		known[a.ID] = true
	}
	resolve := func(field, id string) (string, error) {
		if id == "" {
			return def.ID, nil
		}
		if !known[id] {
			return "", invalid(field, "account %q does not exist", id)
		}
		return id, nil
	}

	var events []models.CashEvent

	for _, bill := range in.Bills {
		evs, err := itemEvents(bill, models.EventBill, resolve, start, end)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
	}

	// Invoices already represented by an income row are not counted again
	linked := make(map[string]bool)
	for _, inc := range in.Income {
		if inc.InvoiceID != "" {
			linked[inc.InvoiceID] = true
		}
		evs, err := itemEvents(inc, models.EventIncome, resolve, start, end)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
	}

	for _, inv := range in.Invoices {
		if linked[inv.ID] || !inv.IsOutstanding() || inv.Amount.Abs() == 0 {
			continue
		}
		if inv.DueDate.Before(start) || inv.DueDate.After(end) {
			continue
		}
		accountID, err := resolve("account_id", inv.AccountID)
		if err != nil {
			return nil, err
		}
		events = append(events, models.CashEvent{
			Date:      inv.DueDate,
			AccountID: accountID,
			Delta:     inv.Amount.Abs(),
			Kind:      models.EventIncome,
			Label:     "Invoice: " + inv.ClientName,
			Category:  "invoice",
			SourceID:  inv.ID,
		})
	}

	for _, tr := range in.Transfers {
		evs, err := transferEvents(tr, known, start, end)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
	}

	return events, nil
}

func itemEvents(item models.RecurringItem, kind models.EventKind, resolve func(string, string) (string, error), start, end models.Date) ([]models.CashEvent, error) {
	magnitude := item.Amount.Abs()
	if !item.IsActive || magnitude == 0 {
		return nil, nil
	}
	accountID, err := resolve("account_id", item.AccountID)
	if err != nil {
		return nil, err
	}

	delta := magnitude
	if kind == models.EventBill {
		delta = -magnitude
	}

	dates := Expand(item.AnchorDate, item.Frequency, start, end)
	events := make([]models.CashEvent, 0, len(dates))
	for _, d := range dates {
		events = append(events, models.CashEvent{
			Date:      d,
			AccountID: accountID,
			Delta:     delta,
			Kind:      kind,
			Label:     item.Name,
			Category:  item.Category,
			SourceID:  item.ID,
		})
	}
	return events, nil
}

func transferEvents(tr models.Transfer, known map[string]bool, start, end models.Date) ([]models.CashEvent, error) {
	if !tr.IsActive {
		return nil, nil
	}
	if tr.FromAccountID == tr.ToAccountID {
		return nil, invalid("to_account_id", "transfer %s must move money between two different accounts", tr.ID)
	}
	if !known[tr.FromAccountID] {
		return nil, invalid("from_account_id", "account %q does not exist", tr.FromAccountID)
	}
	if !known[tr.ToAccountID] {
		return nil, invalid("to_account_id", "account %q does not exist", tr.ToAccountID)
	}
	magnitude := tr.Amount.Abs()
	if magnitude == 0 {
		return nil, nil
	}

	label := tr.Description
	if label == "" {
		label = "Transfer"
	}

	dates := Expand(tr.Date, tr.Frequency, start, end)
	events := make([]models.CashEvent, 0, 2*len(dates))
	for _, d := range dates {
		events = append(events,
			models.CashEvent{Date: d, AccountID: tr.FromAccountID, Delta: -magnitude, Kind: models.EventTransferOut, Label: label, SourceID: tr.ID},
			models.CashEvent{Date: d, AccountID: tr.ToAccountID, Delta: magnitude, Kind: models.EventTransferIn, Label: label, SourceID: tr.ID},
		)
	}
	return events, nil
}
