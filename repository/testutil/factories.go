package testutil

import (
	"ledger/credential"
	"ledger/models"
)

// TestPepper is the credential pepper used by store and service tests
const TestPepper = "test-pepper"

// NewTestHasher returns a hasher configured with TestPepper
func NewTestHasher() *credential.Hasher {
	return credential.NewHasher(TestPepper)
}

// CreateTestAccountRecord builds an account record with a hashed credential
func CreateTestAccountRecord(username string, balance int64, password string) *models.AccountRecord {
	return &models.AccountRecord{
		Name:           "Test " + username,
		Username:       username,
		Balance:        balance,
		CredentialHash: NewTestHasher().Hash(password),
		Contact:        username + "@example.com",
	}
}

// CreateTestAccountParams builds service level input for a new account
func CreateTestAccountParams(username string, balance int64, password string) models.AccountParams {
	return models.AccountParams{
		Name:       "Test " + username,
		Username:   username,
		Balance:    balance,
		Credential: password,
		Contact:    username + "@example.com",
	}
}
