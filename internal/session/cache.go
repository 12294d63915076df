// Package session memoizes the statistics for the most recently requested
// export folder.
package session

import (
	"path/filepath"
	"sync"

	"github.com/ademuri/streaming-history-tools/internal/logging"
	"github.com/ademuri/streaming-history-tools/internal/metrics"
	"github.com/ademuri/streaming-history-tools/internal/stats"
)

// ComputeFunc produces a finalized bundle for a folder.
type ComputeFunc func(folder string) (*stats.Bundle, error)

// Cache holds at most one bundle. Asking for a different folder replaces it;
// there is no expiry.
type Cache struct {
	compute ComputeFunc

	mu     sync.Mutex
	key    string
	bundle *stats.Bundle
}

// New returns an empty cache. A nil compute uses stats.Compute.
func New(compute ComputeFunc) *Cache {
	if compute == nil {
		compute = stats.Compute
	}
	return &Cache{compute: compute}
}

// EnsureComputed returns the bundle for folder, computing it if the cache is
// empty or holds another folder. Calls are serialized, so concurrent callers
// for a new folder trigger a single computation. A failed computation leaves
// the cache as it was.
func (c *Cache) EnsureComputed(folder string) (*stats.Bundle, error) {
	key := filepath.Clean(folder)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bundle != nil && c.key == key {
		metrics.RecordCacheLookup(true)
		logging.Debug().Str("folder", key).Msg("session cache hit")
		return c.bundle, nil
	}
	metrics.RecordCacheLookup(false)

	b, err := c.compute(key)
	if err != nil {
		return nil, err
	}
	if c.bundle != nil {
		logging.Info().Str("previous", c.key).Str("folder", key).Msg("replacing cached session")
	}
	c.key, c.bundle = key, b
	return b, nil
}

// Current returns the cached bundle and its folder, if any.
func (c *Cache) Current() (string, *stats.Bundle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key, c.bundle, c.bundle != nil
}
