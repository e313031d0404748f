// Package siblinghosts groups FOUND results that resolve to the same
// effective top-level-domain-plus-one, surfacing when several distinct
// providers are actually hosted siblings of one operator.
package siblinghosts

import (
	"context"
	"net/http"

	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/netutil"
	"github.com/afterpacket/huntcore/internal/ratelimit"
)

// Addon is the sibling-host grouping addon.
type Addon struct{}

// New builds the siblinghosts addon.
func New() Addon { return Addon{} }

// Name returns the addon's registry name.
func (Addon) Name() string { return "siblinghosts" }

// Run groups FOUND results by eTLD+1 and annotates every result that
// shares its registered domain with at least one other result.
func (Addon) Run(_ context.Context, _ string, results *[]hunttype.ProbeResult, _ *http.Client, _ *ratelimit.HostGate) error {
	groups := make(map[string][]int)
	for i, res := range *results {
		if res.Status != hunttype.StatusFound || res.URL == "" {
			continue
		}
		domain := netutil.ExtractDomain(res.URL)
		if domain == "" {
			continue
		}
		groups[domain] = append(groups[domain], i)
	}

	for domain, indexes := range groups {
		if len(indexes) < 2 {
			continue
		}
		for _, idx := range indexes {
			res := &(*results)[idx]
			names := make([]any, 0, len(indexes)-1)
			for _, other := range indexes {
				if other != idx {
					names = append(names, (*results)[other].Provider)
				}
			}
			if res.Profile == nil {
				res.Profile = hunttype.ValueMap{}
			}
			res.Profile["sibling_hosts"] = hunttype.Map(map[string]any{
				"shared_domain": domain,
				"providers":     names,
			})
		}
	}
	return nil
}
