package models

import (
	"time"
)

// Account represents a ledger account holding an integer balance
type Account struct {
	ID             int64     `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Username       string    `db:"username" json:"username"`
	Balance        int64     `db:"balance" json:"balance"`
	CredentialHash string    `db:"credential_hash" json:"-"`
	Contact        string    `db:"contact" json:"email"`
	CreatedAt      time.Time `db:"created_at" json:"-"`
	UpdatedAt      time.Time `db:"updated_at" json:"-"`
}

// Summary returns the listing projection of the account
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:       a.ID,
		Name:     a.Name,
		Username: a.Username,
	}
}

// AccountSummary is the reduced view used when listing accounts
type AccountSummary struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Username string `db:"username" json:"username"`
}

// AccountParams holds the full set of writable account fields.
// Credential is the plaintext secret; it is hashed before it reaches the store.
type AccountParams struct {
	Name       string
	Username   string
	Balance    int64
	Credential string
	Contact    string
}

// AccountRecord is what the store persists for a create or full update
type AccountRecord struct {
	Name           string
	Username       string
	Balance        int64
	CredentialHash string
	Contact        string
}
