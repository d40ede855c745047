package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fitnesshub/web/internal/session"
	"github.com/fitnesshub/web/storage"
	"github.com/redis/go-redis/v9"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenTokenStore opens the persisted token store selected by TOKEN_STORE. The
// returned closer releases its connection.
func OpenTokenStore(ctx context.Context, cfg *Config) (session.TokenStore, io.Closer, error) {
	ttl := cfg.Session.MaxAge
	switch cfg.TokenStore {
	case TokenStoreMemory:
		slog.Warn("using in-memory token store, sessions will not survive a restart")
		return session.NewMemoryTokenStore(ttl), nopCloser{}, nil

	case TokenStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return session.NewRedisTokenStore(client, ttl), client, nil

	default:
		db, err := storage.New(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open token database: %w", err)
		}
		return db.Tokens(ttl), db, nil
	}
}
