package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fitnesshub/web/internal/api"
	"github.com/fitnesshub/web/internal/session"
	"github.com/fitnesshub/web/internal/types"
	"golang.org/x/sync/singleflight"
)

const (
	msgLoginSuccess    = "Login successful!"
	msgLoginFailed     = "Login failed. Please check your credentials."
	msgRegisterSuccess = "Registration successful! You are now logged in."
	msgRegisterFailed  = "Registration failed."
	msgLoggedOut       = "Logged out successfully."
	msgWelcomeBack     = "Welcome back!"
	msgSessionExpired  = "Session expired or invalid. Please log in again."

	defaultVerifyTimeout = 15 * time.Second
)

// Authenticator is the slice of the backend API the session store needs
type Authenticator interface {
	Login(ctx context.Context, creds types.Credentials) (*types.AuthResult, error)
	Register(ctx context.Context, reg types.Registration) (*types.AuthResult, error)
	Me(ctx context.Context) (*types.User, error)
}

// Notifier surfaces a user-visible message; *flash.Channel implements it
type Notifier interface {
	Show(text string, isError bool)
}

// Phase is the coarse session state used by the route guard
type Phase int

const (
	PhaseUnauthenticated Phase = iota
	PhaseLoading
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// State is a point-in-time copy of a session
type State struct {
	Token   string
	User    *types.User
	Loading bool
}

// IsAuthenticated holds iff both a token and a user are present
func (s State) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.IsAuthenticated():
		return PhaseAuthenticated
	default:
		return PhaseUnauthenticated
	}
}

// Role returns the user's role, or "" for anonymous sessions
func (s State) Role() types.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Store holds the token and identity of one browser session. All mutations go
// through its methods; readers take a Snapshot.
type Store struct {
	sid     string
	client  Authenticator
	tokens  session.TokenStore
	notices Notifier
	logger  *slog.Logger
	timeout time.Duration

	mu       sync.RWMutex
	token    string
	user     *types.User
	verified string // token whose user came from the backend
	busy     int    // login/register calls in flight

	initOnce sync.Once
	group    singleflight.Group
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithLogger sets the store's logger
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVerifyTimeout bounds the background profile fetch
func WithVerifyTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewStore creates the store of browser session sid
func NewStore(sid string, client Authenticator, tokens session.TokenStore, notices Notifier, opts ...StoreOption) *Store {
	s := &Store{
		sid:     sid,
		client:  client,
		tokens:  tokens,
		notices: notices,
		logger:  slog.Default(),
		timeout: defaultVerifyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("sid", sid)
	return s
}

// Init loads the persisted token once. A session that had a token before a
// restart comes back in the loading phase until Reconcile verifies it.
func (s *Store) Init(ctx context.Context) {
	s.initOnce.Do(func() {
		token, err := s.tokens.Load(ctx, s.sid)
		if err != nil {
			if !errors.Is(err, session.ErrTokenNotFound) {
				s.logger.Warn("failed to load persisted token", "error", err)
			}
			return
		}
		s.mu.Lock()
		s.token = token
		s.mu.Unlock()
	})
}

// Snapshot returns a consistent copy of the session
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Token:   s.token,
		Loading: s.busy > 0 || (s.token != "" && s.token != s.verified),
	}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

// Login exchanges credentials for a session. It reports success; failures are
// shown through the notifier.
func (s *Store) Login(ctx context.Context, creds types.Credentials) bool {
	return s.authenticate(ctx, "login", msgLoginSuccess, msgLoginFailed, func(ctx context.Context) (*types.AuthResult, error) {
		return s.client.Login(ctx, creds)
	})
}

// Register creates an account and signs it in
func (s *Store) Register(ctx context.Context, reg types.Registration) bool {
	return s.authenticate(ctx, "register", msgRegisterSuccess, msgRegisterFailed, func(ctx context.Context) (*types.AuthResult, error) {
		return s.client.Register(ctx, reg)
	})
}

func (s *Store) authenticate(ctx context.Context, op, success, fallback string, call func(context.Context) (*types.AuthResult, error)) bool {
	s.mu.Lock()
	s.busy++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.busy--
		s.mu.Unlock()
	}()

	result, err := call(ctx)
	if err != nil {
		s.logger.Info("authentication failed", "op", op, "error", err)
		s.notices.Show(api.MessageOf(err, fallback), true)
		return false
	}

	s.mu.Lock()
	err = s.tokens.Save(ctx, s.sid, result.Token)
	if err == nil {
		u := *result.User
		s.token = result.Token
		s.user = &u
		// the auth response already vouches for this token
		s.verified = result.Token
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to persist token", "op", op, "error", err)
		s.notices.Show(fallback, true)
		return false
	}

	s.logger.Info("user authenticated", "op", op, "user_id", result.User.ID, "role", result.User.Role)
	s.notices.Show(success, false)
	return true
}

// Logout clears the session and its persisted token. No network call is made.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.clearLocked(ctx)
	s.mu.Unlock()

	s.notices.Show(msgLoggedOut, false)
}

// clearLocked drops the in-memory and persisted credentials; s.mu must be held
func (s *Store) clearLocked(ctx context.Context) {
	s.token = ""
	s.user = nil
	s.verified = ""
	if err := s.tokens.Delete(context.WithoutCancel(ctx), s.sid); err != nil {
		s.logger.Error("failed to delete persisted token", "error", err)
	}
}

// credentials is the signed-in part of a Store
type credentials struct {
	token    string
	user     *types.User
	verified string
}

func (s *Store) held() credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return credentials{token: s.token, user: s.user, verified: s.verified}
}

// release forgets the in-memory credentials. The persisted token is the caller's to move.
func (s *Store) release() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.verified = ""
	s.mu.Unlock()
}

// reset drops the credentials and the persisted token without a banner
func (s *Store) reset(ctx context.Context) {
	s.mu.Lock()
	s.clearLocked(ctx)
	s.mu.Unlock()
}

// adopt installs credentials taken over from another session. The store counts
// as initialised so Init does not reload them.
func (s *Store) adopt(cr credentials) {
	s.initOnce.Do(func() {})
	s.mu.Lock()
	s.token = cr.token
	s.user = cr.user
	s.verified = cr.verified
	s.mu.Unlock()
}

// Reconcile verifies an unverified token against GET /auth/me. The returned
// channel closes once the outcome is applied, or immediately when there is
// nothing to verify. Concurrent calls for the same token share one request,
// which runs detached from ctx's cancellation.
func (s *Store) Reconcile(ctx context.Context) <-chan struct{} {
	s.mu.RLock()
	token, verified := s.token, s.verified
	s.mu.RUnlock()

	done := make(chan struct{})
	if token == "" || token == verified {
		close(done)
		return done
	}

	results := s.group.DoChan(token, func() (any, error) {
		s.verify(context.WithoutCancel(ctx), token)
		return nil, nil
	})
	go func() {
		<-results
		close(done)
	}()
	return done
}

func (s *Store) verify(ctx context.Context, token string) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.client.Me(ctx)

	s.mu.Lock()
	if s.token != token {
		s.mu.Unlock()
		s.logger.Debug("discarding stale profile result")
		return
	}
	if err != nil {
		s.clearLocked(ctx)
		s.mu.Unlock()

		s.logger.Warn("session token rejected", "error", err)
		s.notices.Show(msgLoggedOut, false)
		s.notices.Show(msgSessionExpired, true)
		return
	}
	s.user = user
	s.verified = token
	s.mu.Unlock()

	s.logger.Info("session restored", "user_id", user.ID)
	s.notices.Show(msgWelcomeBack, false)
}

// Refresh re-fetches the profile of the signed-in user, e.g. after a trainer
// edits their profile.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return api.ErrUnauthorized
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.token == token {
		s.user = user
		s.verified = token
	}
	s.mu.Unlock()
	return nil
}
