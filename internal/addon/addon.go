// Package addon defines the second-stage post-processor contract that runs
// over a completed set of ProbeResults, and the registry that tracks which
// addons are enabled.
package addon

import (
	"context"
	"net/http"

	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/ratelimit"
)

// Addon is a best-effort post-processor that may read and mutate a scan's
// result list in place — for example to annotate, flag, or enrich entries,
// or to append inferred records — and never recurses into the engine or
// into another addon. A failing addon must not fail the scan: callers are
// expected to recover a panic and treat any error as a no-op.
type Addon interface {
	// Name is the addon's stable, lowercase identifier used in settings
	// and logs.
	Name() string

	// Run inspects and optionally mutates *results in place for the
	// given identifier. client and limiter are shared with the probes
	// that produced results, for addons that need to make their own
	// polite follow-up requests.
	Run(ctx context.Context, identifier string, results *[]hunttype.ProbeResult, client *http.Client, limiter *ratelimit.HostGate) error
}

// Registry holds the fixed set of known addons, keyed by lowercase name,
// plus the subset currently enabled by settings.
type Registry struct {
	byName  map[string]Addon
	order   []string
	enabled map[string]bool
}

// NewRegistry builds a Registry from addons, all initially enabled until
// SetEnabled narrows the set. A duplicate name is a construction-time error.
func NewRegistry(addons ...Addon) (*Registry, error) {
	r := &Registry{
		byName:  make(map[string]Addon, len(addons)),
		enabled: make(map[string]bool, len(addons)),
	}
	for _, a := range addons {
		key := a.Name()
		if _, exists := r.byName[key]; exists {
			return nil, &DuplicateNameError{Name: key}
		}
		r.byName[key] = a
		r.order = append(r.order, key)
		r.enabled[key] = true
	}
	return r, nil
}

// DuplicateNameError reports a construction-time addon name collision.
type DuplicateNameError struct{ Name string }

func (e *DuplicateNameError) Error() string {
	return "addon: duplicate addon name " + e.Name
}

// SetEnabled overrides which registered addons are enabled. Names not
// present in the registry are ignored; names present in the registry but
// omitted from enabledNames become disabled.
func (r *Registry) SetEnabled(enabledNames []string) {
	want := make(map[string]bool, len(enabledNames))
	for _, n := range enabledNames {
		want[n] = true
	}
	for name := range r.enabled {
		r.enabled[name] = want[name]
	}
}

// Enabled returns every enabled addon, in registration order.
func (r *Registry) Enabled() []Addon {
	out := make([]Addon, 0, len(r.order))
	for _, name := range r.order {
		if r.enabled[name] {
			out = append(out, r.byName[name])
		}
	}
	return out
}

// All returns every registered addon, regardless of enabled state, in
// registration order.
func (r *Registry) All() []Addon {
	out := make([]Addon, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}
