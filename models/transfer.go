package models

// TransferRequest describes a requested move of funds between two accounts
type TransferRequest struct {
	SenderID   int64
	ReceiverID int64
	Amount     int64
	Credential string
}

// TransferResult is the outcome of a completed transfer. It is returned to
// the caller and published as an event but never stored.
type TransferResult struct {
	SenderID   int64 `json:"sender_id"`
	ReceiverID int64 `json:"receiver_id"`
	Amount     int64 `json:"amount"`
}
