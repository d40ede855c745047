package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fitnesshub/web/internal/session"
	"github.com/fitnesshub/web/storage/db"
)

// TokenStore persists session tokens in SQLite. It implements session.TokenStore.
type TokenStore struct {
	queries *db.Queries
	ttl     time.Duration
	now     func() time.Time
}

var _ session.TokenStore = (*TokenStore)(nil)

// Tokens returns a token store over this database. ttl <= 0 keeps tokens until
// they are deleted.
func (s *Storage) Tokens(ttl time.Duration) *TokenStore {
	return &TokenStore{queries: s.Queries, ttl: ttl, now: time.Now}
}

func (t *TokenStore) Load(ctx context.Context, sid string) (string, error) {
	row, err := t.queries.GetSessionToken(ctx, sid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", session.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session token: %w", err)
	}
	if row.ExpiresAt > 0 && t.now().Unix() >= row.ExpiresAt {
		if err := t.queries.DeleteSessionToken(ctx, sid); err != nil {
			return "", fmt.Errorf("cleanup expired session token: %w", err)
		}
		return "", session.ErrTokenNotFound
	}
	return row.Token, nil
}

func (t *TokenStore) Save(ctx context.Context, sid, token string) error {
	if sid == "" {
		return errors.New("session ID cannot be empty")
	}
	now := t.now()
	var expiresAt int64
	if t.ttl > 0 {
		expiresAt = now.Add(t.ttl).Unix()
	}
	err := t.queries.UpsertSessionToken(ctx, db.UpsertSessionTokenParams{
		Sid:       sid,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

func (t *TokenStore) Delete(ctx context.Context, sid string) error {
	if err := t.queries.DeleteSessionToken(ctx, sid); err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}

// DeleteExpired removes every token whose TTL has passed and reports how many went
func (t *TokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	n, err := t.queries.DeleteExpiredSessionTokens(ctx, t.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired session tokens: %w", err)
	}
	return n, nil
}
