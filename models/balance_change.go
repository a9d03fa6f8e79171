package models

// BalanceChangeType represents the cause of a balance change
type BalanceChangeType string

const (
	BalanceChangeInitial     BalanceChangeType = "initial"
	BalanceChangeTransferIn  BalanceChangeType = "transfer_in"
	BalanceChangeTransferOut BalanceChangeType = "transfer_out"
	BalanceChangeAdjustment  BalanceChangeType = "adjustment"
)
