package idempotency

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryGuard is an in-memory Guard for tests and local development.
// Unlike PostgresGuard it cannot coordinate across processes.
type MemoryGuard struct {
	mu      sync.Mutex
	entries map[memoryKey]*memoryEntry
}

type memoryKey struct {
	operatorID uuid.UUID
	key        string
}

type memoryEntry struct {
	saved *Response // nil while the claim is in flight
}

// NewMemoryGuard creates an empty in-memory guard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{entries: make(map[memoryKey]*memoryEntry)}
}

type memClaim struct {
	k memoryKey
}

func (c *memClaim) claimKey() string { return c.k.key }

func (g *MemoryGuard) Begin(_ context.Context, operatorID uuid.UUID, key Key) (Claim, *Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	k := memoryKey{operatorID: operatorID, key: key.String()}
	if e, ok := g.entries[k]; ok {
		if e.saved != nil {
			return nil, e.saved, nil
		}
		return nil, nil, ErrInFlight
	}

	g.entries[k] = &memoryEntry{}
	return &memClaim{k: k}, nil, nil
}

func (g *MemoryGuard) Complete(_ context.Context, c Claim, resp Response) error {
	mc := c.(*memClaim)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entries[mc.k] = &memoryEntry{saved: &resp}
	return nil
}

func (g *MemoryGuard) Abort(_ context.Context, c Claim) error {
	mc := c.(*memClaim)
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, mc.k)
	return nil
}
