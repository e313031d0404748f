package provider

import (
	"fmt"
	"sort"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"
)

// Registry holds the fixed set of known providers, keyed by lowercased
// name. It is built once at startup via NewRegistry and is safe for
// concurrent reads from many scans afterward; registration after
// construction is not part of the contract providers rely on, so the
// backing map favors read-heavy access the way the node pool it is
// grounded on does.
type Registry struct {
	byName *xsync.Map[string, Provider]
	order  []string
}

// NewRegistry builds a Registry from providers. Names are compared
// case-insensitively; a duplicate name is a construction-time error so a
// misconfigured registry can never silently shadow a provider.
func NewRegistry(providers ...Provider) (*Registry, error) {
	r := &Registry{byName: xsync.NewMap[string, Provider]()}
	for _, p := range providers {
		key := strings.ToLower(p.Name())
		if _, loaded := r.byName.Load(key); loaded {
			return nil, fmt.Errorf("provider: duplicate provider name %q", key)
		}
		r.byName.Store(key, p)
		r.order = append(r.order, key)
	}
	return r, nil
}

// Get returns the provider registered under name (case-insensitive) and
// true, or (nil, false) if no such provider is registered.
func (r *Registry) Get(name string) (Provider, bool) {
	return r.byName.Load(strings.ToLower(name))
}

// All returns every registered provider in registration order.
func (r *Registry) All() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		if p, ok := r.byName.Load(name); ok {
			out = append(out, p)
		}
	}
	return out
}

// Select resolves a requested set of provider names against the registry,
// preserving registry order rather than caller order, and silently
// dropping unknown names. A nil or empty names selects every registered
// provider.
func (r *Registry) Select(names []string) []Provider {
	if len(names) == 0 {
		return r.All()
	}
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[strings.ToLower(n)] = struct{}{}
	}
	out := make([]Provider, 0, len(names))
	for _, name := range r.order {
		if _, ok := wanted[name]; !ok {
			continue
		}
		if p, ok := r.byName.Load(name); ok {
			out = append(out, p)
		}
	}
	return out
}

// Names returns every registered provider name, sorted lexicographically.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	sort.Strings(out)
	return out
}
