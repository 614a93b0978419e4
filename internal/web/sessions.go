package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultSessionTTL = 24 * time.Hour

type session struct {
	email   string
	expires time.Time
}

// Sessions maps bearer tokens to account emails. Tokens live in memory
// only, so a restart logs everyone out.
type Sessions struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	tokens map[string]session
}

func NewSessions(ttl time.Duration, now func() time.Time) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Sessions{ttl: ttl, now: now, tokens: map[string]session{}}
}

func (s *Sessions) Create(email string) string {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = session{email: email, expires: s.now().Add(s.ttl)}
	return token
}

// Lookup returns the email for a live token. Expired tokens are dropped.
func (s *Sessions) Lookup(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.tokens[token]
	if !ok {
		return "", false
	}
	if !s.now().Before(sess.expires) {
		delete(s.tokens, token)
		return "", false
	}
	return sess.email, true
}

func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// Prune removes expired tokens and returns how many are left.
func (s *Sessions) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for token, sess := range s.tokens {
		if !now.Before(sess.expires) {
			delete(s.tokens, token)
		}
	}
	return len(s.tokens)
}
