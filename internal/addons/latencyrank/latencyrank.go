// Package latencyrank flags probe results whose latency is an outlier
// relative to that provider's rolling TD-EWMA baseline, and feeds each
// fresh observation back into the baseline.
package latencyrank

import (
	"context"
	"net/http"
	"time"

	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/ratelimit"
	"github.com/afterpacket/huntcore/internal/stats"
)

// OutlierMultiple is how far above a provider's rolling EWMA a latency must
// be to count as an outlier.
const OutlierMultiple = 3.0

// Addon is the latency-outlier annotation addon.
type Addon struct {
	table       *stats.ProviderLatencyTable
	decayWindow time.Duration
}

// New builds the latencyrank addon against table.
func New(table *stats.ProviderLatencyTable) Addon {
	return Addon{table: table, decayWindow: stats.DefaultDecayWindow}
}

// Name returns the addon's registry name.
func (Addon) Name() string { return "latencyrank" }

// Run compares each result's elapsed time against its provider's rolling
// baseline, annotates outliers, and updates the baseline.
func (a Addon) Run(_ context.Context, _ string, results *[]hunttype.ProbeResult, _ *http.Client, _ *ratelimit.HostGate) error {
	if a.table == nil {
		return nil
	}
	for i := range *results {
		res := &(*results)[i]
		if res.ElapsedMs <= 0 {
			continue
		}
		latency := time.Duration(res.ElapsedMs) * time.Millisecond

		if baseline, ok := a.table.Get(res.Provider); ok && baseline.Ewma > 0 {
			if float64(latency) > float64(baseline.Ewma)*OutlierMultiple {
				if res.Profile == nil {
					res.Profile = hunttype.ValueMap{}
				}
				res.Profile["latency_outlier"] = hunttype.Map(map[string]any{
					"elapsed_ms":   res.ElapsedMs,
					"baseline_ms":  baseline.Ewma.Milliseconds(),
				})
			}
		}

		a.table.Update(res.Provider, latency, a.decayWindow)
	}
	return nil
}
