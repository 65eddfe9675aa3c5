package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ConectaTel/conecta_api/internal/cart"
)

// CartEntry wraps a session's cart with bookkeeping used by the
// abandoned-cart reminder worker.
type CartEntry struct {
	SessionID    string     `json:"sessionId"`
	ChannelID    int        `json:"channelId"`
	Email        string     `json:"email,omitempty"`
	Cart         *cart.Cart `json:"cart"`
	ReminderSent bool       `json:"reminderSent"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CartCache stores session carts in Redis. The cart aggregator itself is
// pure in-memory state; this cache only persists it between requests.
type CartCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewCartCache creates a CartCache with the configured TTL.
func NewCartCache(redis *RedisClient, ttl time.Duration) *CartCache {
	return &CartCache{redis: redis, ttl: ttl}
}

func (c *CartCache) key(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

// Get returns the cart entry for a session, or a fresh empty one.
func (c *CartCache) Get(ctx context.Context, sessionID string) (*CartEntry, error) {
	raw, err := c.redis.Get(ctx, c.key(sessionID))
	if err != nil {
		if IsNil(err) {
			return &CartEntry{SessionID: sessionID, Cart: cart.New()}, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var entry CartEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	if entry.Cart == nil {
		entry.Cart = cart.New()
	}
	return &entry, nil
}

// Save stores the cart entry and refreshes its TTL.
func (c *CartCache) Save(ctx context.Context, entry *CartEntry) error {
	entry.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return c.redis.Set(ctx, c.key(entry.SessionID), string(raw), c.ttl)
}

// Delete removes a session's cart.
func (c *CartCache) Delete(ctx context.Context, sessionID string) error {
	return c.redis.Delete(ctx, c.key(sessionID))
}

// All returns every cached cart entry. Used by the reminder worker; the
// key space is bounded by the session TTL.
func (c *CartCache) All(ctx context.Context) ([]*CartEntry, error) {
	keys, err := c.redis.ScanKeys(ctx, "cart:*")
	if err != nil {
		return nil, fmt.Errorf("failed to scan carts: %w", err)
	}

	entries := make([]*CartEntry, 0, len(keys))
	for _, key := range keys {
		raw, err := c.redis.Get(ctx, key)
		if err != nil {
			if IsNil(err) {
				continue // expired between scan and get
			}
			return nil, err
		}
		var entry CartEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			continue // skip corrupt entries rather than failing the sweep
		}
		if entry.SessionID == "" {
			entry.SessionID = strings.TrimPrefix(key, "cart:")
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}
