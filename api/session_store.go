package api

import (
	"sync"
	"time"

	"github.com/SPR1NGQAQ/Emoji-password-prototype/internal/util"
	"github.com/SPR1NGQAQ/Emoji-password-prototype/study"
)

// session is one participant's in-memory state: the chosen condition order,
// the session-stable emoji menu permutation, the raw secrets (memguard
// enclaves, never persisted), and the per-condition stage flows. It exists
// only for the lifetime of the process; the durable study data lives in the
// repository.
type session struct {
	token         string
	participantID string
	createdAt     time.Time

	mu       sync.Mutex
	order    []study.Condition
	ordering []string
	secrets  *study.SecretStore
	flows    map[study.Condition]*study.Flow
	exported bool
}

// setOrder records the participant's chosen condition order.
func (s *session) setOrder(first, second study.Condition) {
	s.mu.Lock()
	s.order = []study.Condition{first, second}
	s.mu.Unlock()
}

// conditionOrder returns the chosen order, or nil when not chosen yet.
func (s *session) conditionOrder() []study.Condition {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil {
		return nil
	}
	return []study.Condition{s.order[0], s.order[1]}
}

// emojiOrdering returns the session's emoji menu permutation.
func (s *session) emojiOrdering() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ordering
}

// conditionDone reports whether the condition's flow reached the terminal
// stage.
func (s *session) conditionDone(cond study.Condition) bool {
	s.mu.Lock()
	f := s.flows[cond]
	s.mu.Unlock()
	return f != nil && f.Done()
}

// markExported flips the one-shot export flag; it returns false when the
// participant row was already exported in this session.
func (s *session) markExported() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exported {
		return false
	}
	s.exported = true
	return true
}

// sessionStore holds the active participant sessions keyed by cookie token.
// Sessions are memory-only: the raw secrets they carry must not outlive the
// process.
type sessionStore struct {
	mu   sync.RWMutex
	data map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{data: make(map[string]*session)}
}

// create starts a fresh session for the participant with a random cookie
// token and a fresh emoji menu permutation.
func (st *sessionStore) create(participantID string) (*session, error) {
	token, err := util.Token(16)
	if err != nil {
		return nil, err
	}
	s := &session{
		token:         token,
		participantID: participantID,
		createdAt:     time.Now().UTC(),
		ordering:      study.NewOrdering(),
		secrets:       study.NewSecretStore(),
		flows:         make(map[study.Condition]*study.Flow),
	}
	st.mu.Lock()
	st.data[token] = s
	st.mu.Unlock()
	return s, nil
}

// get returns the session for the token, or nil.
func (st *sessionStore) get(token string) *session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.data[token]
}
