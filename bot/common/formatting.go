package common

import (
	"errors"
	"fmt"
	"strings"

	"ledger/models"
	"ledger/service"
)

// FormatBalance formats a balance amount with thousand separators
func FormatBalance(balance int64) string {
	str := fmt.Sprintf("%d", balance)

	negative := strings.HasPrefix(str, "-")
	if negative {
		str = str[1:]
	}

	n := len(str)
	if n <= 3 {
		if negative {
			return "-" + str
		}
		return str
	}

	var result strings.Builder
	if negative {
		result.WriteRune('-')
	}
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatTransferResult formats the result of a transfer
func FormatTransferResult(result *models.TransferResult) string {
	return fmt.Sprintf("✅ Sent **%s** from account #%d to account #%d",
		FormatBalance(result.Amount), result.SenderID, result.ReceiverID)
}

// FormatAccountList renders one line per account
func FormatAccountList(accounts []models.AccountSummary) string {
	if len(accounts) == 0 {
		return "No accounts yet."
	}

	var b strings.Builder
	for _, account := range accounts {
		fmt.Fprintf(&b, "#%d **%s** (%s)\n", account.ID, account.Name, account.Username)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatError turns a service error into a message safe to show users
func FormatError(err error) string {
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		return "User not found!"
	case errors.Is(err, service.ErrInvalidCredential):
		return "Incorrect password!"
	case errors.Is(err, service.ErrInsufficientFunds):
		return "Not enough balance!"
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrOverflow):
		return err.Error()
	default:
		return "Something went wrong. Please try again."
	}
}
