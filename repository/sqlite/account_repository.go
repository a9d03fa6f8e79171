// Package sqlite stores ledger accounts in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ledger/models"
)

const accountColumns = `id, name, username, balance, credential_hash, contact, created_at, updated_at`

// queryable is satisfied by both *sql.DB and *sql.Tx
type queryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// AccountRepository implements the AccountRepository interface on SQLite
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a repository running statements outside any transaction
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{q: db}
}

func newAccountRepositoryWithTx(tx *sql.Tx) *AccountRepository {
	return &AccountRepository{q: tx}
}

func scanAccount(row scanner) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Username,
		&account.Balance,
		&account.CredentialHash,
		&account.Contact,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, record *models.AccountRecord) (*models.Account, error) {
	query := `
		INSERT INTO accounts (name, username, balance, credential_hash, contact)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.q.ExecContext(ctx, query,
		record.Name,
		record.Username,
		record.Balance,
		record.CredentialHash,
		record.Contact,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account %q: %w", record.Username, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read new account id: %w", err)
	}

	account, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("account %d vanished after insert", id)
	}

	return account, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

	account, err := scanAccount(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}

	return account, nil
}

// GetByIDsForUpdate reads the given accounts. SQLite has no row locks; the
// transaction already holds the database write lock from BEGIN IMMEDIATE.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, ids ...int64) (map[int64]*models.Account, error) {
	accounts := make(map[int64]*models.Account, len(ids))
	if len(ids) == 0 {
		return accounts, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id IN (` + placeholders + `) ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts %v: %w", ids, err)
	}
	defer rows.Close()

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts[account.ID] = account
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// List returns the summary view of every account ordered by ID
func (r *AccountRepository) List(ctx context.Context) ([]models.AccountSummary, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, username FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.AccountSummary{}
	for rows.Next() {
		var summary models.AccountSummary
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Username); err != nil {
			return nil, fmt.Errorf("failed to scan account summary: %w", err)
		}
		accounts = append(accounts, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// Update replaces every writable field of an account
func (r *AccountRepository) Update(ctx context.Context, id int64, record *models.AccountRecord) (*models.Account, error) {
	query := `
		UPDATE accounts
		SET name = ?, username = ?, balance = ?, credential_hash = ?, contact = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := r.q.ExecContext(ctx, query,
		record.Name,
		record.Username,
		record.Balance,
		record.CredentialHash,
		record.Contact,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update account %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

// UpdateBalance sets an account's balance
func (r *AccountRepository) UpdateBalance(ctx context.Context, id int64, newBalance int64) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE accounts SET balance = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		newBalance, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("account %d not found", id)
	}

	return nil
}

// Delete removes an account and returns its prior state
func (r *AccountRepository) Delete(ctx context.Context, id int64) (*models.Account, error) {
	account, err := r.GetByID(ctx, id)
	if err != nil || account == nil {
		return nil, err
	}

	if _, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete account %d: %w", id, err)
	}

	return account, nil
}
