package session

import (
	"context"
	"sync"
	"time"
)

// Revoker tracks token ids that were logged out before their expiry.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	Revoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryRevoker is a process-local Revoker. Entries are dropped once their expiry passes.
type MemoryRevoker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevoker creates an empty revocation list.
func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{entries: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[tokenID] = until
	return nil
}

func (m *MemoryRevoker) Revoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.entries[tokenID]
	if !ok {
		return false, nil
	}
	if m.now().After(until) {
		delete(m.entries, tokenID)
		return false, nil
	}
	return true, nil
}
