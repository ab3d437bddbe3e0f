package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"sync"
	"time"
)

// CookieName is the cookie carrying the admin session token.
const CookieName = "session_token"

// SessionStore keeps active admin session tokens in memory. Tokens are
// stored as HMAC digests keyed with the configured secret, so the raw
// token only ever lives in the client's cookie.
type SessionStore struct {
	mu       sync.Mutex
	secret   []byte
	ttl      time.Duration
	sessions map[string]time.Time
}

func NewSessionStore(secret string, ttl time.Duration) *SessionStore {
	return &SessionStore{
		secret:   []byte(secret),
		ttl:      ttl,
		sessions: make(map[string]time.Time),
	}
}

// Create registers a new session and returns the token for the cookie.
func (s *SessionStore) Create() (token string, expiresAt time.Time, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", time.Time{}, err
	}
	token = base64.RawURLEncoding.EncodeToString(raw)
	expiresAt = time.Now().Add(s.ttl)

	s.mu.Lock()
	s.sessions[s.digest(token)] = expiresAt
	s.mu.Unlock()

	return token, expiresAt, nil
}

// Validate reports whether token belongs to a live session. Expired
// sessions are dropped on sight.
func (s *SessionStore) Validate(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.digest(token)
	expiresAt, ok := s.sessions[key]
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		delete(s.sessions, key)
		return false
	}
	return true
}

// Destroy removes the session for token, if any.
func (s *SessionStore) Destroy(token string) {
	s.mu.Lock()
	delete(s.sessions, s.digest(token))
	s.mu.Unlock()
}

func (s *SessionStore) digest(token string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}
