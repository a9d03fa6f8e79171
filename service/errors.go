package service

import "errors"

// Expected, request-local failures. Callers match them with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidCredential = errors.New("incorrect password")
	ErrInsufficientFunds = errors.New("not enough balance")
	ErrOverflow          = errors.New("balance overflow")
)

// IsDomainError reports whether err belongs to the expected failure taxonomy
func IsDomainError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrInvalidCredential) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrOverflow)
}
