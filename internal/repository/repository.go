package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/cashflow-forecaster/internal/models"
	"github.com/lib/pq"
)

// ErrEmailTaken is returned when registering an email that already exists
var ErrEmailTaken = errors.New("email already registered")

// ErrUserNotFound is returned when no user matches
var ErrUserNotFound = errors.New("user not found")

// uniqueViolation is the Postgres SQLSTATE for duplicate keys
const uniqueViolation = "23505"

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO cashflow.users (username, email, password_hash, alerts_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.AlertsOn).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, alerts_enabled, created_at, updated_at
		FROM cashflow.users
		WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.AlertsOn, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListAlertUsers returns users with alerts enabled who have not been alerted on the given day
func (r *Repository) ListAlertUsers(ctx context.Context, day models.Date) ([]models.User, error) {
	query := `
		SELECT id, username, email, alerts_enabled, created_at, updated_at
		FROM cashflow.users
		WHERE alerts_enabled AND last_alert_on IS DISTINCT FROM $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, day.Time())
	if err != nil {
		return nil, fmt.Errorf("failed to list alert users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.AlertsOn, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// MarkAlerted records that the given users were alerted on day
func (r *Repository) MarkAlerted(ctx context.Context, userIDs []int64, day models.Date) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := `UPDATE cashflow.users SET last_alert_on = $2, updated_at = CURRENT_TIMESTAMP WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(userIDs), day.Time()); err != nil {
		return fmt.Errorf("failed to mark users alerted: %w", err)
	}
	return nil
}

// LoadSnapshot reads every record the forecaster needs for one user inside a read-only transaction
func (r *Repository) LoadSnapshot(ctx context.Context, userID int64) (*models.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	snap := &models.Snapshot{UserID: userID}
	if snap.Accounts, err = loadAccounts(ctx, tx, userID); err != nil {
		return nil, err
	}
	if snap.Bills, err = loadItems(ctx, tx, "bills", models.ItemBill, userID); err != nil {
		return nil, err
	}
	if snap.Income, err = loadItems(ctx, tx, "income", models.ItemIncome, userID); err != nil {
		return nil, err
	}
	if snap.Transfers, err = loadTransfers(ctx, tx, userID); err != nil {
		return nil, err
	}
	if snap.Invoices, err = loadInvoices(ctx, tx, userID); err != nil {
		return nil, err
	}
	if snap.Settings, err = loadSettings(ctx, tx, userID); err != nil {
		return nil, err
	}
	return snap, nil
}

func loadAccounts(ctx context.Context, tx *sql.Tx, userID int64) ([]models.Account, error) {
	query := `
		SELECT id, user_id, name, balance::text, currency, kind, is_spendable,
		       credit_limit::text, apr, min_payment_percent, payment_due_day,
		       created_at, updated_at
		FROM cashflow.accounts
		WHERE user_id = $1
		ORDER BY sort_order, created_at, id`
	rows, err := tx.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var (
			a               models.Account
			balance, kind   string
			creditLimit     sql.NullString
			apr, minPayment sql.NullFloat64
			paymentDueDay   sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &balance, &a.Currency, &kind, &a.IsSpendable,
			&creditLimit, &apr, &minPayment, &paymentDueDay, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		if a.Balance, err = models.ParseMoney(balance); err != nil {
			return nil, fmt.Errorf("account %s: %w", a.ID, err)
		}
		if a.Kind, err = models.ParseAccountKind(kind); err != nil {
			return nil, fmt.Errorf("account %s: %w", a.ID, err)
		}
		if a.Kind == models.AccountCreditCard {
			cc, err := scanCreditCard(creditLimit, apr, minPayment, paymentDueDay)
			if err != nil {
				return nil, fmt.Errorf("account %s: %w", a.ID, err)
			}
			a.CreditCard = cc
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func scanCreditCard(limit sql.NullString, apr, minPayment sql.NullFloat64, dueDay sql.NullInt64) (*models.CreditCard, error) {
	cc := &models.CreditCard{
		APR:               apr.Float64,
		MinPaymentPercent: minPayment.Float64,
		PaymentDueDay:     int(dueDay.Int64),
	}
	if limit.Valid {
		m, err := models.ParseMoney(limit.String)
		if err != nil {
			return nil, err
		}
		cc.Limit = m
	}
	return cc, nil
}

// loadItems reads bills or income; both tables share the same shape
func loadItems(ctx context.Context, tx *sql.Tx, table string, kind models.ItemKind, userID int64) ([]models.RecurringItem, error) {
	invoiceColumn := "NULL::text"
	if kind == models.ItemIncome {
		invoiceColumn = "invoice_id"
	}
	query := fmt.Sprintf(`
		SELECT id, user_id, name, amount::text, frequency, anchor_date, account_id, category, is_active, %s
		FROM cashflow.%s
		WHERE user_id = $1
		ORDER BY anchor_date, id`, invoiceColumn, pq.QuoteIdentifier(table))
	rows, err := tx.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	var items []models.RecurringItem
	for rows.Next() {
		var (
			item                         models.RecurringItem
			amount, freq                 string
			anchor                       time.Time
			accountID, category, invoice sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &amount, &freq, &anchor,
			&accountID, &category, &item.IsActive, &invoice); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		item.Kind = kind
		if item.Amount, err = models.ParseMoney(amount); err != nil {
			return nil, fmt.Errorf("%s %s: %w", table, item.ID, err)
		}
		if item.Frequency, err = models.ParseFrequency(freq); err != nil {
			return nil, fmt.Errorf("%s %s: %w", table, item.ID, err)
		}
		item.AnchorDate = models.DateOf(anchor, time.UTC)
		item.AccountID = accountID.String
		item.Category = category.String
		item.InvoiceID = invoice.String
		items = append(items, item)
	}
	return items, rows.Err()
}

func loadTransfers(ctx context.Context, tx *sql.Tx, userID int64) ([]models.Transfer, error) {
	query := `
		SELECT t.id, t.user_id, t.from_account_id, t.to_account_id, t.amount::text,
		       t.transfer_date, t.frequency, t.description, t.is_active
		FROM cashflow.transfers t
		JOIN cashflow.accounts src ON src.id = t.from_account_id AND src.user_id = t.user_id
		JOIN cashflow.accounts dst ON dst.id = t.to_account_id AND dst.user_id = t.user_id
		WHERE t.user_id = $1
		ORDER BY t.transfer_date, t.id`
	rows, err := tx.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var (
			tr           models.Transfer
			amount, freq string
			date         time.Time
			description  sql.NullString
		)
		if err := rows.Scan(&tr.ID, &tr.UserID, &tr.FromAccountID, &tr.ToAccountID, &amount,
			&date, &freq, &description, &tr.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		if tr.Amount, err = models.ParseMoney(amount); err != nil {
			return nil, fmt.Errorf("transfer %s: %w", tr.ID, err)
		}
		if tr.Frequency, err = models.ParseFrequency(freq); err != nil {
			return nil, fmt.Errorf("transfer %s: %w", tr.ID, err)
		}
		tr.Date = models.DateOf(date, time.UTC)
		tr.Description = description.String
		transfers = append(transfers, tr)
	}
	return transfers, rows.Err()
}

func loadInvoices(ctx context.Context, tx *sql.Tx, userID int64) ([]models.Invoice, error) {
	query := `
		SELECT id, user_id, client_name, amount::text, due_date, account_id, status
		FROM cashflow.invoices
		WHERE user_id = $1 AND status IN ('draft', 'sent')
		ORDER BY due_date, id`
	rows, err := tx.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var (
			inv       models.Invoice
			amount    string
			due       time.Time
			accountID sql.NullString
		)
		if err := rows.Scan(&inv.ID, &inv.UserID, &inv.ClientName, &amount, &due, &accountID, &inv.Status); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		if inv.Amount, err = models.ParseMoney(amount); err != nil {
			return nil, fmt.Errorf("invoice %s: %w", inv.ID, err)
		}
		inv.DueDate = models.DateOf(due, time.UTC)
		inv.AccountID = accountID.String
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func loadSettings(ctx context.Context, tx *sql.Tx, userID int64) (models.SafetySettings, error) {
	var (
		settings           models.SafetySettings
		buffer             sql.NullString
		timezone, currency sql.NullString
	)
	query := `
		SELECT safety_buffer::text, timezone, currency
		FROM cashflow.user_settings
		WHERE user_id = $1`
	err := tx.QueryRowContext(ctx, query, userID).Scan(&buffer, &timezone, &currency)
	if err == sql.ErrNoRows {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to load settings: %w", err)
	}
	if buffer.Valid {
		m, err := models.ParseMoney(buffer.String)
		if err != nil {
			return settings, fmt.Errorf("settings: %w", err)
		}
		settings.SafetyBuffer = &m
	}
	settings.Timezone = timezone.String
	settings.Currency = currency.String
	return settings, nil
}
