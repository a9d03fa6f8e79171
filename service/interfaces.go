package service

import (
	"context"

	"ledger/events"
	"ledger/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// Create inserts a new account and returns it with its assigned ID
	Create(ctx context.Context, record *models.AccountRecord) (*models.Account, error)

	// GetByID retrieves an account by ID, returning nil if it does not exist
	GetByID(ctx context.Context, id int64) (*models.Account, error)

	// GetByIDsForUpdate reads the given accounts and locks them for the rest of
	// the transaction. Missing IDs are absent from the result.
	GetByIDsForUpdate(ctx context.Context, ids ...int64) (map[int64]*models.Account, error)

	// List returns the summary view of every account ordered by ID
	List(ctx context.Context) ([]models.AccountSummary, error)

	// Update replaces every writable field, returning nil if the account does not exist
	Update(ctx context.Context, id int64, record *models.AccountRecord) (*models.Account, error)

	// UpdateBalance sets an account's balance
	UpdateBalance(ctx context.Context, id int64, newBalance int64) error

	// Delete removes an account and returns its prior state, or nil if it does not exist
	Delete(ctx context.Context, id int64) (*models.Account, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// CredentialHasher derives and checks credential hashes
type CredentialHasher interface {
	Hash(secret string) string
	Verify(storedHash, supplied string) bool
}

// AccountService defines the interface for account operations
type AccountService interface {
	// CreateAccount creates a new account
	CreateAccount(ctx context.Context, params models.AccountParams) (*models.Account, error)

	// GetAccount retrieves an account by ID
	GetAccount(ctx context.Context, id int64) (*models.Account, error)

	// ListAccounts returns the summary view of all accounts
	ListAccounts(ctx context.Context) ([]models.AccountSummary, error)

	// UpdateAccount replaces all writable fields of an account
	UpdateAccount(ctx context.Context, id int64, params models.AccountParams) (*models.Account, error)

	// DeleteAccount removes an account and returns its prior state
	DeleteAccount(ctx context.Context, id int64) (*models.Account, error)
}

// TransferService defines the interface for moving funds between accounts
type TransferService interface {
	// Transfer moves amount from sender to receiver after checking the sender's credential
	Transfer(ctx context.Context, req models.TransferRequest) (*models.TransferResult, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
