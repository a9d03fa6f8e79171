// Package credential derives and checks the one-way form of account secrets.
package credential

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. The salt is deployment-wide so the same secret always
// produces the same hash.
const (
	argonTime    = 1
	argonMemory  = 19 * 1024
	argonThreads = 1
	argonKeyLen  = 32
)

// DefaultPepper is used when no deployment pepper is configured
const DefaultPepper = "ledger-credential-pepper"

// Hasher hashes and verifies account credentials
type Hasher struct {
	salt []byte
}

// NewHasher creates a hasher keyed by the given pepper
func NewHasher(pepper string) *Hasher {
	if pepper == "" {
		pepper = DefaultPepper
	}
	return &Hasher{salt: []byte(pepper)}
}

// Hash returns the hex encoded argon2id hash of secret.
// The empty secret hashes like any other value.
func (h *Hasher) Hash(secret string) string {
	key := argon2.IDKey([]byte(secret), h.salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key)
}

// Verify reports whether supplied hashes to storedHash
func (h *Hasher) Verify(storedHash, supplied string) bool {
	computed := h.Hash(supplied)
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(computed)) == 1
}
