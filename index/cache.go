package index

import (
	"sync"

	"github.com/saideep872/aurora-qa/core"
)

// VectorCache holds message embeddings keyed by message id.
//
// Concurrency contract: read-mostly, write-once-per-key. Concurrent reads are
// safe; if two goroutines race to compute the same embedding, the first
// stored vector wins and both callers observe it (idempotent re-computation
// is acceptable, corruption is not). Callers must not mutate returned slices.
type VectorCache struct {
	mu      sync.RWMutex
	vectors map[core.ID][]float32
}

// NewVectorCache creates an empty cache.
func NewVectorCache() *VectorCache {
	return &VectorCache{
		vectors: make(map[core.ID][]float32),
	}
}

// Get returns the cached vector for id, if present.
func (c *VectorCache) Get(id core.ID) ([]float32, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vec, ok := c.vectors[id]
	return vec, ok
}

// Put stores the vector for id unless one is already present and returns the
// canonical stored vector. The first write wins, so a cached vector never
// changes for the lifetime of the cache.
func (c *VectorCache) Put(id core.ID, vec []float32) []float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.vectors[id]; ok {
		return existing
	}
	c.vectors[id] = vec
	return vec
}

// Len returns the number of cached vectors.
func (c *VectorCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}
