package identity

import (
	"context"
	"sync"
	"time"
)

// ClaimStore records verification ids that already have a verify call, so a
// replayed redirect cannot start a second one.
type ClaimStore interface {
	// Claim returns true for the first caller of id within the TTL.
	Claim(ctx context.Context, id string) (bool, error)
	// Release forgets id so a verify that never ran can be retried.
	Release(ctx context.Context, id string) error
}

// InMemoryClaims is a ClaimStore with expiring entries.
type InMemoryClaims struct {
	mu      sync.Mutex
	entries map[string]time.Time
	ttl     time.Duration
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewInMemoryClaims creates a claim store whose entries expire after ttl.
func NewInMemoryClaims(ttl time.Duration) *InMemoryClaims {
	c := &InMemoryClaims{
		entries: make(map[string]time.Time),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

func (c *InMemoryClaims) Claim(_ context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if expiresAt, ok := c.entries[id]; ok && now.Before(expiresAt) {
		return false, nil
	}
	c.entries[id] = now.Add(c.ttl)
	return true, nil
}

func (c *InMemoryClaims) Release(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

// Close stops the cleanup goroutine.
func (c *InMemoryClaims) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *InMemoryClaims) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *InMemoryClaims) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, expiresAt := range c.entries {
		if !now.Before(expiresAt) {
			delete(c.entries, id)
		}
	}
}

var _ ClaimStore = (*InMemoryClaims)(nil)
