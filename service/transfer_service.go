package service

import (
	"context"
	"fmt"
	"math"

	"ledger/events"
	"ledger/models"

	log "github.com/sirupsen/logrus"
)

type transferService struct {
	uowFactory UnitOfWorkFactory
	hasher     CredentialHasher
}

// NewTransferService creates a new transfer service
func NewTransferService(uowFactory UnitOfWorkFactory, hasher CredentialHasher) TransferService {
	return &transferService{
		uowFactory: uowFactory,
		hasher:     hasher,
	}
}

// Transfer moves funds from sender to receiver inside a single transaction.
// Checks run in a fixed order: sender exists, credential, receiver exists, funds.
func (s *transferService) Transfer(ctx context.Context, req models.TransferRequest) (*models.TransferResult, error) {
	// Validate inputs
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: transfer amount must be positive", ErrInvalidInput)
	}
	if req.SenderID == req.ReceiverID {
		return nil, fmt.Errorf("%w: cannot transfer to the same account", ErrInvalidInput)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Both rows stay locked until commit or rollback
	accounts, err := uow.AccountRepository().GetByIDsForUpdate(ctx, req.SenderID, req.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transfer accounts: %w", err)
	}

	sender, ok := accounts[req.SenderID]
	if !ok {
		return nil, fmt.Errorf("%w: sender %d", ErrAccountNotFound, req.SenderID)
	}

	if !s.hasher.Verify(sender.CredentialHash, req.Credential) {
		return nil, ErrInvalidCredential
	}

	receiver, ok := accounts[req.ReceiverID]
	if !ok {
		return nil, fmt.Errorf("%w: receiver %d", ErrAccountNotFound, req.ReceiverID)
	}

	if req.Amount > sender.Balance {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, sender.Balance, req.Amount)
	}

	if receiver.Balance > math.MaxInt64-req.Amount {
		return nil, fmt.Errorf("%w: receiver %d cannot hold %d more", ErrOverflow, receiver.ID, req.Amount)
	}

	newSenderBalance := sender.Balance - req.Amount
	newReceiverBalance := receiver.Balance + req.Amount

	if err := uow.AccountRepository().UpdateBalance(ctx, sender.ID, newSenderBalance); err != nil {
		return nil, fmt.Errorf("failed to debit sender: %w", err)
	}
	if err := uow.AccountRepository().UpdateBalance(ctx, receiver.ID, newReceiverBalance); err != nil {
		return nil, fmt.Errorf("failed to credit receiver: %w", err)
	}

	RecordBalanceChange(uow, sender.ID, sender.Balance, newSenderBalance, models.BalanceChangeTransferOut)
	RecordBalanceChange(uow, receiver.ID, receiver.Balance, newReceiverBalance, models.BalanceChangeTransferIn)
	uow.EventBus().Publish(events.TransferCompletedEvent{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     req.Amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"sender_id":   sender.ID,
		"receiver_id": receiver.ID,
		"amount":      req.Amount,
	}).Info("Transfer completed")

	return &models.TransferResult{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     req.Amount,
	}, nil
}
