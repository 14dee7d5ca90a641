package study

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrNoSecret is returned by Check when no secret has been set for the condition.
var ErrNoSecret = errors.New("no secret set")

// ErrEmptySecret is returned by Set for an empty secret.
var ErrEmptySecret = errors.New("secret must not be empty")

// ErrInvalidCondition is returned for a condition outside {A, B}.
var ErrInvalidCondition = errors.New("invalid condition")

// SecretStore holds the current raw secret per condition for one session.
// Secrets live in memguard enclaves (encrypted at rest in memory), are
// overwritten on re-create, and are never persisted.
type SecretStore struct {
	mu      sync.Mutex
	secrets map[Condition]*memguard.Enclave
}

// NewSecretStore returns an empty per-session secret store.
func NewSecretStore() *SecretStore {
	return &SecretStore{secrets: make(map[Condition]*memguard.Enclave)}
}

// Set overwrites the session's secret for the condition. Repeated calls
// replace the previous value; they never duplicate or error.
func (s *SecretStore) Set(cond Condition, text string) error {
	if !cond.Valid() {
		return ErrInvalidCondition
	}
	if text == "" {
		return ErrEmptySecret
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// NewEnclave wipes its input, so hand it a private copy.
	s.secrets[cond] = memguard.NewEnclave([]byte(text))
	return nil
}

// Check compares attempt against the stored secret with exact string
// equality: case-sensitive, no trimming, no normalization.
func (s *SecretStore) Check(cond Condition, attempt string) (bool, error) {
	if !cond.Valid() {
		return false, ErrInvalidCondition
	}
	s.mu.Lock()
	enclave := s.secrets[cond]
	s.mu.Unlock()
	if enclave == nil {
		return false, ErrNoSecret
	}

	buf, err := enclave.Open()
	if err != nil {
		return false, err
	}
	defer buf.Destroy()
	return buf.EqualTo([]byte(attempt)), nil
}
