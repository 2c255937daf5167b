package session

import (
	"sync"

	"github.com/google/uuid"
)

// Session identifies one client instance. The token is minted once at
// construction and never shared between instances, so two clients signed
// into different accounts cannot read each other's cached collections: a
// new instance always starts with a cold cache.
//
// A Session is passed explicitly into every orchestrator call; nothing in
// this module reads identity from ambient state.
type Session struct {
	token string

	mu     sync.RWMutex
	userID string
}

func New() *Session {
	return &Session{token: uuid.NewString()}
}

// Token returns the per-instance token. It doubles as the origin marker on
// outgoing mutations so the realtime bridge can drop echoes of this
// client's own writes.
func (s *Session) Token() string {
	return s.token
}

// Bind associates the authenticated user with this session. Called after
// sign-in; sign-out calls Clear.
func (s *Session) Bind(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
}

// UserID returns the bound user id, or false when no user is signed in.
func (s *Session) UserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userID == "" {
		return "", false
	}
	return s.userID, true
}
