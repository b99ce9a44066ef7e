package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tuanleanh/shopline-backend/pkg/config"
)

// Store is the subset of redis operations the session manager needs.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(sessionID string) string
}

// AccessSessionChecker verifies that a token's session is still live.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, sessionID string) (bool, error)
}

// Manager tracks session liveness in redis so logout can revoke tokens
// before their JWT expiry.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, cfg config.JWTConfig) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	ttl := cfg.SessionTTL()
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// Open registers a new live session for the user.
func (m *Manager) Open(ctx context.Context, sessionID, userID string) error {
	if sessionID == "" {
		return errors.New("session id is required")
	}
	if err := m.store.Set(ctx, m.store.SessionKey(sessionID), userID, m.ttl); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// HasSession reports whether the session is still live.
func (m *Manager) HasSession(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	return m.store.Exists(ctx, m.store.SessionKey(sessionID))
}

// Revoke deletes the session, invalidating any outstanding tokens bound to it.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("session id is required")
	}
	return m.store.Del(ctx, m.store.SessionKey(sessionID))
}
