package service

import (
	"ledger/events"
	"ledger/models"
)

// RecordBalanceChange emits a balance change event on the unit of work's bus.
// The event is delivered only if the surrounding transaction commits.
func RecordBalanceChange(uow UnitOfWork, accountID, before, after int64, changeType models.BalanceChangeType) {
	uow.EventBus().Publish(events.BalanceChangeEvent{
		AccountID:    accountID,
		OldBalance:   before,
		NewBalance:   after,
		ChangeAmount: after - before,
		ChangeType:   changeType,
	})
}
