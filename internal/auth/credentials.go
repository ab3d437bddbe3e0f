package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a credential pair against the configured admin account.
// It is an interface so the single-credential setup can later be swapped
// for a real identity provider without touching the handlers.
type Verifier interface {
	Verify(username, password string) bool
}

type adminCredentials struct {
	username     string
	passwordHash []byte
	enabled      bool
}

// NewVerifier builds a Verifier for the configured admin credential pair.
// The plaintext password is hashed once at startup and not kept around.
// An empty password disables authentication entirely.
func NewVerifier(username, password string) (Verifier, error) {
	if password == "" {
		return &adminCredentials{enabled: false}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &adminCredentials{
		username:     username,
		passwordHash: hash,
		enabled:      true,
	}, nil
}

func (c *adminCredentials) Verify(username, password string) bool {
	if !c.enabled {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) != 1 {
		return false
	}
	return bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil
}
