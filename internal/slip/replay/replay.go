// Package replay provides an optional local seen-set consulted before a
// payload is sent to the remote service. The remote isCached flag stays the
// authoritative replay signal; this guard only avoids spending inquiry quota
// on payloads this deployment has already verified. It stores a hash marker
// per payload, not verification history.
package replay

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrReplayed signals that the payload was already verified within the guard
// window. Callers surface it as an "already used" validation outcome.
var ErrReplayed = errors.New("payload already verified")

// DefaultTTL mirrors the validator's freshness window: once a slip has aged
// out it can no longer validate, so the marker has nothing left to guard.
const DefaultTTL = 24 * time.Hour

// Store marks payload keys as seen. MarkSeen returns true when the key was
// not present before, false when this is a repeat.
type Store interface {
	MarkSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Guard wraps a Store with payload hashing and the configured window.
type Guard struct {
	store Store
	ttl   time.Duration
}

// NewGuard creates a replay guard over the given store.
func NewGuard(store Store, ttl time.Duration) (*Guard, error) {
	if store == nil {
		return nil, fmt.Errorf("replay store is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Guard{store: store, ttl: ttl}, nil
}

// Check records the payload and returns ErrReplayed when it was seen before.
// Store failures are returned as-is; the caller decides whether to fail open.
func (g *Guard) Check(ctx context.Context, payload string) error {
	key := fmt.Sprintf("slip:seen:%x", sha256.Sum256([]byte(payload)))
	first, err := g.store.MarkSeen(ctx, key, g.ttl)
	if err != nil {
		return fmt.Errorf("replay store: %w", err)
	}
	if !first {
		return ErrReplayed
	}
	return nil
}

// MemoryStore is a process-local Store for tests and single-instance
// deployments.
type MemoryStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (s *MemoryStore) MarkSeen(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiry, ok := s.seen[key]; ok && now.Before(expiry) {
		return false, nil
	}
	s.seen[key] = now.Add(ttl)
	return true, nil
}
