package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ledger/database"
	"ledger/events"
	"ledger/service"
)

type unitOfWork struct {
	db               *database.SQLiteDB
	tx               *sql.Tx
	transactionalBus *events.TransactionalBus
	accountRepo      service.AccountRepository
	ctx              context.Context
}

type unitOfWorkFactory struct {
	db       *database.SQLiteDB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a UnitOfWork factory backed by SQLite
func NewUnitOfWorkFactory(db *database.SQLiteDB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db, eventBus: eventBus}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a transaction; the DSN makes it BEGIN IMMEDIATE
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx
	u.accountRepo = newAccountRepositoryWithTx(tx)
	return nil
}

func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	u.tx = nil

	u.transactionalBus.Flush(u.ctx)
	return nil
}

func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback()
	u.tx = nil
	u.transactionalBus.Discard()

	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}
