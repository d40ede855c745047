package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fitnesshub/web/internal/api"
	"github.com/fitnesshub/web/internal/flash"
	"github.com/fitnesshub/web/internal/session"
)

// Entry is everything the server keeps for one browser session
type Entry struct {
	ID      string
	Store   *Store
	Notices *flash.Channel
	API     *api.Client

	lastSeen time.Time
}

// RegistryOptions tunes the entries a Registry creates
type RegistryOptions struct {
	NoticeTTL     time.Duration
	VerifyTimeout time.Duration
	Logger        *slog.Logger
}

// Registry maps browser session ids to their entries, creating them on first use
type Registry struct {
	base   *api.Client
	tokens session.TokenStore
	opts   RegistryOptions
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*Entry
}

// NewRegistry creates an empty registry. Each entry gets a copy of base bound to
// the session's persisted token.
func NewRegistry(base *api.Client, tokens session.TokenStore, opts RegistryOptions) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Registry{
		base:    base,
		tokens:  tokens,
		opts:    opts,
		now:     time.Now,
		entries: make(map[string]*Entry),
	}
}

// Get returns the entry of sid, creating it (and loading its persisted token)
// when the session is new to this process.
func (r *Registry) Get(ctx context.Context, sid string) *Entry {
	r.mu.Lock()
	entry, ok := r.entries[sid]
	if !ok {
		entry = r.newEntry(sid)
		r.entries[sid] = entry
	}
	entry.lastSeen = r.now()
	r.mu.Unlock()

	entry.Store.Init(ctx)
	return entry
}

func (r *Registry) newEntry(sid string) *Entry {
	notices := flash.New(r.opts.NoticeTTL)
	client := r.base.WithTokenSource(session.Bind(r.tokens, sid))
	return &Entry{
		ID:      sid,
		Notices: notices,
		API:     client,
		Store: NewStore(sid, client, r.tokens, notices,
			WithLogger(r.opts.Logger),
			WithVerifyTimeout(r.opts.VerifyTimeout),
		),
	}
}

// Rotate moves old to the session id newSID. The persisted token follows it,
// the showing banner is carried over, and old.ID afterwards resolves to a fresh
// anonymous session. When the token cannot be moved old is signed out.
func (r *Registry) Rotate(ctx context.Context, old *Entry, newSID string) (*Entry, error) {
	cr := old.Store.held()
	if cr.token != "" {
		if err := r.tokens.Save(ctx, newSID, cr.token); err != nil {
			old.Store.reset(ctx)
			return nil, fmt.Errorf("failed to move session token: %w", err)
		}
	}

	old.Store.release()
	if err := r.tokens.Delete(context.WithoutCancel(ctx), old.ID); err != nil {
		r.opts.Logger.Error("failed to delete rotated session token", "sid", old.ID, "error", err)
	}

	entry := r.newEntry(newSID)
	entry.Store.adopt(cr)
	if n, ok := old.Notices.Current(); ok {
		entry.Notices.Show(n.Text, n.IsError)
	}

	r.mu.Lock()
	if r.entries[old.ID] == old {
		delete(r.entries, old.ID)
	}
	entry.lastSeen = r.now()
	r.entries[newSID] = entry
	r.mu.Unlock()

	// ends message streams still open under the old id
	old.Notices.Close()

	r.opts.Logger.Info("session rotated", "from", old.ID, "to", newSID)
	return entry, nil
}

// Evict drops entries not seen for longer than idle and reports how many went.
// Persisted tokens are untouched, so an evicted session is restored on its next request.
func (r *Registry) Evict(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []*Entry
	for sid, entry := range r.entries {
		if entry.lastSeen.Before(cutoff) {
			stale = append(stale, entry)
			delete(r.entries, sid)
		}
	}
	r.mu.Unlock()

	for _, entry := range stale {
		entry.Notices.Close()
	}
	return len(stale)
}

// Len returns the number of live entries
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
