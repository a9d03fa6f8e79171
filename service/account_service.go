package service

import (
	"context"
	"fmt"
	"strings"

	"ledger/events"
	"ledger/models"
)

// accountService implements the AccountService interface
type accountService struct {
	uowFactory UnitOfWorkFactory
	hasher     CredentialHasher
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory, hasher CredentialHasher) AccountService {
	return &accountService{
		uowFactory: uowFactory,
		hasher:     hasher,
	}
}

// CreateAccount creates a new account, hashing its credential
func (s *accountService) CreateAccount(ctx context.Context, params models.AccountParams) (*models.Account, error) {
	if err := validateAccountParams(params); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().Create(ctx, s.toRecord(params))
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	uow.EventBus().Publish(events.AccountCreatedEvent{
		AccountID:      account.ID,
		Username:       account.Username,
		InitialBalance: account.Balance,
	})
	if account.Balance > 0 {
		RecordBalanceChange(uow, account.ID, 0, account.Balance, models.BalanceChangeInitial)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return account, nil
}

// GetAccount retrieves an account by ID
func (s *accountService) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: id %d", ErrAccountNotFound, id)
	}

	return account, nil
}

// ListAccounts returns the summary view of all accounts ordered by ID
func (s *accountService) ListAccounts(ctx context.Context) ([]models.AccountSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accounts, err := uow.AccountRepository().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []models.AccountSummary{}
	}

	return accounts, nil
}

// UpdateAccount replaces every writable field of an account
func (s *accountService) UpdateAccount(ctx context.Context, id int64, params models.AccountParams) (*models.Account, error) {
	if err := validateAccountParams(params); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Lock the row so a concurrent transfer cannot interleave with the replace
	existing, err := uow.AccountRepository().GetByIDsForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	before, ok := existing[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrAccountNotFound, id)
	}

	account, err := uow.AccountRepository().Update(ctx, id, s.toRecord(params))
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: id %d", ErrAccountNotFound, id)
	}

	uow.EventBus().Publish(events.AccountUpdatedEvent{
		AccountID:  account.ID,
		Username:   account.Username,
		OldBalance: before.Balance,
		NewBalance: account.Balance,
	})
	if before.Balance != account.Balance {
		RecordBalanceChange(uow, account.ID, before.Balance, account.Balance, models.BalanceChangeAdjustment)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return account, nil
}

// DeleteAccount removes an account and returns its state before deletion
func (s *accountService) DeleteAccount(ctx context.Context, id int64) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: id %d", ErrAccountNotFound, id)
	}

	uow.EventBus().Publish(events.AccountDeletedEvent{
		AccountID:    account.ID,
		Username:     account.Username,
		FinalBalance: account.Balance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return account, nil
}

func (s *accountService) toRecord(params models.AccountParams) *models.AccountRecord {
	return &models.AccountRecord{
		Name:           params.Name,
		Username:       params.Username,
		Balance:        params.Balance,
		CredentialHash: s.hasher.Hash(params.Credential),
		Contact:        params.Contact,
	}
}

func validateAccountParams(params models.AccountParams) error {
	if strings.TrimSpace(params.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(params.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if params.Balance < 0 {
		return fmt.Errorf("%w: balance cannot be negative", ErrInvalidInput)
	}
	return nil
}
