package repository

import (
	"context"
	"errors"
	"fmt"

	"ledger/database"
	"ledger/models"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, name, username, balance, credential_hash, contact, created_at, updated_at`

// AccountRepository implements the AccountRepository interface on PostgreSQL
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
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
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query,
		record.Name,
		record.Username,
		record.Balance,
		record.CredentialHash,
		record.Contact,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create account %q: %w", record.Username, err)
	}

	return account, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}

	return account, nil
}

// GetByIDsForUpdate reads the given accounts holding row locks until the
// transaction ends. Rows are locked in ascending ID order so that two
// transfers over the same pair in opposite directions cannot deadlock.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, ids ...int64) (map[int64]*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts %v: %w", ids, err)
	}
	defer rows.Close()

	accounts := make(map[int64]*models.Account, len(ids))
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
	query := `SELECT id, name, username FROM accounts ORDER BY id`

	rows, err := r.q.Query(ctx, query)
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
		SET name = $1, username = $2, balance = $3, credential_hash = $4, contact = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query,
		record.Name,
		record.Username,
		record.Balance,
		record.CredentialHash,
		record.Contact,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account %d: %w", id, err)
	}

	return account, nil
}

// UpdateBalance sets an account's balance
func (r *AccountRepository) UpdateBalance(ctx context.Context, id int64, newBalance int64) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, newBalance, id)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %d not found", id)
	}

	return nil
}

// Delete removes an account and returns its prior state
func (r *AccountRepository) Delete(ctx context.Context, id int64) (*models.Account, error) {
	query := `DELETE FROM accounts WHERE id = $1 RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete account %d: %w", id, err)
	}

	return account, nil
}
