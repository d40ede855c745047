package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTokenNotFound is returned by TokenStore.Load when the session has no token
var ErrTokenNotFound = errors.New("session token not found")

// TokenStore persists the bearer token of each browser session, keyed by session id.
// It is the only piece of auth state that survives a restart.
type TokenStore interface {
	Load(ctx context.Context, sid string) (string, error)
	Save(ctx context.Context, sid, token string) error
	Delete(ctx context.Context, sid string) error
}

// MemoryTokenStore keeps tokens in process memory. Used in development and tests.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	ttl    time.Duration
	tokens map[string]memoryToken
	now    func() time.Time
}

type memoryToken struct {
	value     string
	expiresAt time.Time
}

// NewMemoryTokenStore creates an in-memory store; ttl <= 0 keeps tokens forever
func NewMemoryTokenStore(ttl time.Duration) *MemoryTokenStore {
	return &MemoryTokenStore{
		ttl:    ttl,
		tokens: make(map[string]memoryToken),
		now:    time.Now,
	}
}

func (s *MemoryTokenStore) Load(_ context.Context, sid string) (string, error) {
	s.mu.RLock()
	tok, ok := s.tokens[sid]
	s.mu.RUnlock()

	if !ok {
		return "", ErrTokenNotFound
	}
	if !tok.expiresAt.IsZero() && s.now().After(tok.expiresAt) {
		s.mu.Lock()
		delete(s.tokens, sid)
		s.mu.Unlock()
		return "", ErrTokenNotFound
	}
	return tok.value, nil
}

func (s *MemoryTokenStore) Save(_ context.Context, sid, token string) error {
	if sid == "" {
		return errors.New("session ID cannot be empty")
	}
	tok := memoryToken{value: token}
	if s.ttl > 0 {
		tok.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.tokens[sid] = tok
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	delete(s.tokens, sid)
	s.mu.Unlock()
	return nil
}

// BoundToken reads the persisted token of one session. It satisfies api.TokenSource,
// so outbound requests always carry whatever token storage holds right now.
type BoundToken struct {
	store TokenStore
	sid   string
}

// Bind ties a token store to a session id
func Bind(store TokenStore, sid string) BoundToken {
	return BoundToken{store: store, sid: sid}
}

// Token returns the persisted token, or "" when the session has none
func (b BoundToken) Token(ctx context.Context) (string, error) {
	token, err := b.store.Load(ctx, b.sid)
	if errors.Is(err, ErrTokenNotFound) {
		return "", nil
	}
	return token, err
}
