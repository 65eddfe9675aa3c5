package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ConectaTel/conecta_api/internal/catalog"
	"github.com/ConectaTel/conecta_api/internal/models"
)

// SessionState is the per-session browsing state: the active context, the
// first context ever captured for the session, and accumulated behavioral
// signals. It lives in Redis under the session TTL. The contract modality
// is additionally stored under its own longer-lived key so returning
// visitors keep it after the rest of the session expires.
type SessionState struct {
	Context        *catalog.Context `json:"context,omitempty"`
	InitialContext *catalog.Context `json:"initialContext,omitempty"`
	Signals        catalog.Signals  `json:"signals"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// SessionCache stores session browsing state in Redis.
type SessionCache struct {
	redis       *RedisClient
	ttl         time.Duration
	modalityTTL time.Duration
}

// NewSessionCache creates a SessionCache with the configured TTLs.
func NewSessionCache(redis *RedisClient, ttl, modalityTTL time.Duration) *SessionCache {
	return &SessionCache{redis: redis, ttl: ttl, modalityTTL: modalityTTL}
}

func (c *SessionCache) stateKey(sessionID string) string {
	return fmt.Sprintf("session:state:%s", sessionID)
}

func (c *SessionCache) modalityKey(sessionID string) string {
	return fmt.Sprintf("session:modality:%s", sessionID)
}

// Get returns the session state, or an empty state when none exists yet.
// A persisted modality is folded back into the context if the state itself
// has expired.
func (c *SessionCache) Get(ctx context.Context, sessionID string) (*SessionState, error) {
	raw, err := c.redis.Get(ctx, c.stateKey(sessionID))
	if err != nil {
		if !IsNil(err) {
			return nil, fmt.Errorf("failed to get session state: %w", err)
		}
		state := &SessionState{}
		if m, merr := c.redis.Get(ctx, c.modalityKey(sessionID)); merr == nil && m != "" {
			state.Context = &catalog.Context{Modality: models.Modality(m)}
		}
		return state, nil
	}

	var state SessionState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	return &state, nil
}

// Save stores the session state and refreshes the TTL. The modality is
// mirrored to its dedicated long-lived key.
func (c *SessionCache) Save(ctx context.Context, sessionID string, state *SessionState) error {
	state.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := c.redis.Set(ctx, c.stateKey(sessionID), string(raw), c.ttl); err != nil {
		return fmt.Errorf("failed to set session state: %w", err)
	}

	if state.Context != nil && state.Context.Modality != "" {
		if err := c.redis.Set(ctx, c.modalityKey(sessionID), string(state.Context.Modality), c.modalityTTL); err != nil {
			return fmt.Errorf("failed to persist modality: %w", err)
		}
	}
	return nil
}

// Delete drops the session state but keeps the persisted modality.
func (c *SessionCache) Delete(ctx context.Context, sessionID string) error {
	return c.redis.Delete(ctx, c.stateKey(sessionID))
}
