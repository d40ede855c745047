package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultReapInterval is how often idle sessions are swept
	DefaultReapInterval = 5 * time.Minute
)

// SessionEvicter drops in-memory sessions idle for longer than the given duration
type SessionEvicter interface {
	Evict(idle time.Duration) int
}

// ExpiredTokenPruner deletes persisted tokens past their TTL
type ExpiredTokenPruner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionReaper evicts idle browser sessions from memory and, when the token
// store supports it, prunes expired persisted tokens.
type SessionReaper struct {
	sessions SessionEvicter
	tokens   ExpiredTokenPruner
	idle     time.Duration
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

// NewSessionReaper creates a reaper. tokens may be nil.
func NewSessionReaper(sessions SessionEvicter, tokens ExpiredTokenPruner, idle, interval time.Duration) *SessionReaper {
	if interval <= 0 {
		interval = DefaultReapInterval
	}
	return &SessionReaper{
		sessions: sessions,
		tokens:   tokens,
		idle:     idle,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the background sweep
func (r *SessionReaper) Start(ctx context.Context) {
	slog.Info("starting session reaper", "interval", r.interval, "idle", r.idle)

	r.ticker = time.NewTicker(r.interval)

	go func() {
		for {
			select {
			case <-r.ticker.C:
				r.Sweep(ctx)
			case <-ctx.Done():
				r.Stop()
				return
			case <-r.done:
				slog.Info("session reaper stopped")
				return
			}
		}
	}()
}

// Stop stops the background job
func (r *SessionReaper) Stop() {
	r.stopOnce.Do(func() {
		if r.ticker != nil {
			r.ticker.Stop()
		}
		close(r.done)
	})
}

// Sweep runs one eviction pass
func (r *SessionReaper) Sweep(ctx context.Context) {
	evicted := r.sessions.Evict(r.idle)

	var pruned int64
	if r.tokens != nil {
		n, err := r.tokens.DeleteExpired(ctx)
		if err != nil {
			slog.Error("failed to prune expired session tokens", "error", err)
		}
		pruned = n
	}

	if evicted > 0 || pruned > 0 {
		slog.Info("session sweep completed", "evicted", evicted, "pruned_tokens", pruned)
	} else {
		slog.Debug("session sweep completed, nothing to do")
	}
}
