// Package stats holds the per-provider latency table used by the
// latencyrank addon to flag probes that ran unusually slow.
package stats

import (
	"math"
	"sync"
	"time"

	"github.com/maypok86/otter"
)

// ProviderLatencyStats holds the TD-EWMA latency statistics for a single
// provider.
type ProviderLatencyStats struct {
	Ewma        time.Duration
	LastUpdated time.Time
}

// ProviderLatencyTable is a bounded, thread-safe per-provider latency
// table backed by an otter cache, so a long-running process accumulating
// stats for many providers across many scans cannot grow unbounded.
type ProviderLatencyTable struct {
	mu    sync.Mutex
	cache otter.Cache[string, ProviderLatencyStats]
}

// DefaultDecayWindow is the time constant of the exponential decay applied
// between observations.
const DefaultDecayWindow = 10 * time.Minute

// NewProviderLatencyTable creates a table bounded to maxEntries providers.
func NewProviderLatencyTable(maxEntries int) *ProviderLatencyTable {
	cache, err := otter.MustBuilder[string, ProviderLatencyStats](maxEntries).
		Cost(func(_ string, _ ProviderLatencyStats) uint32 { return 1 }).
		Build()
	if err != nil {
		panic("stats: failed to create provider latency table: " + err.Error())
	}
	return &ProviderLatencyTable{cache: cache}
}

// Update records a latency observation for provider using TD-EWMA:
//
//	weight  = exp(-Δt / decayWindow)
//	newEwma = oldEwma*weight + latency*(1-weight)
//
// The first observation for a provider seeds Ewma with the raw latency.
func (t *ProviderLatencyTable) Update(provider string, latency, decayWindow time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	old, found := t.cache.Get(provider)
	if !found {
		t.cache.Set(provider, ProviderLatencyStats{Ewma: latency, LastUpdated: now})
		return
	}

	dt := now.Sub(old.LastUpdated).Seconds()
	decay := decayWindow.Seconds()
	if decay <= 0 {
		decay = DefaultDecayWindow.Seconds()
	}
	weight := math.Exp(-dt / decay)
	newEwma := time.Duration(float64(old.Ewma)*weight + float64(latency)*(1-weight))

	t.cache.Set(provider, ProviderLatencyStats{Ewma: newEwma, LastUpdated: now})
}

// Get returns the stats for provider, if present.
func (t *ProviderLatencyTable) Get(provider string) (ProviderLatencyStats, bool) {
	return t.cache.Get(provider)
}

// Size returns the number of providers with latency data.
func (t *ProviderLatencyTable) Size() int {
	return t.cache.Size()
}

// Close releases resources held by the underlying cache.
func (t *ProviderLatencyTable) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cache.Close()
}
