package storefront

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JanitorInterval is how often idle storefronts are evicted
const JanitorInterval = time.Minute

type entry struct {
	sf       *Storefront
	lastSeen time.Time
	inUse    int
}

// Registry lazily opens storefronts and evicts idle ones. Persisted state
// outlives eviction; the next request reopens it from storage.
type Registry struct {
	deps   Deps
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry creates an empty registry
func NewRegistry(deps Deps, idleTTL time.Duration) *Registry {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &Registry{
		deps:    deps,
		ttl:     idleTTL,
		now:     time.Now,
		logger:  logger,
		entries: make(map[string]*entry),
	}
}

// Get returns the client's storefront, opening it on first use. Every
// successful Get must be paired with a Release; an entry is never evicted
// while it has unreleased callers.
func (r *Registry) Get(ctx context.Context, clientID string) (*Storefront, error) {
	r.mu.Lock()
	if e, ok := r.entries[clientID]; ok {
		e.lastSeen = r.now()
		e.inUse++
		r.mu.Unlock()
		return e.sf, nil
	}
	r.mu.Unlock()

	// Opened without the lock; a concurrent open of the same client loses the race
	sf, err := Open(ctx, clientID, r.deps)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[clientID]; ok {
		e.lastSeen = r.now()
		e.inUse++
		return e.sf, nil
	}
	r.entries[clientID] = &entry{sf: sf, lastSeen: r.now(), inUse: 1}
	return sf, nil
}

// Release marks one Get of clientID as finished
func (r *Registry) Release(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[clientID]
	if !ok {
		return
	}
	if e.inUse > 0 {
		e.inUse--
	}
	e.lastSeen = r.now()
}

// Len returns the number of open storefronts
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// EvictIdle drops released storefronts not used within the idle TTL and
// returns how many were dropped
func (r *Registry) EvictIdle() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	evicted := 0
	for id, e := range r.entries {
		if e.inUse == 0 && e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			evicted++
		}
	}
	return evicted
}

// RunJanitor evicts idle storefronts every interval until ctx is done. Call from a goroutine.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = JanitorInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(); n > 0 {
				r.logger.Debug("Evicted idle storefronts", zap.Int("count", n), zap.Int("open", r.Len()))
			}
		}
	}
}
