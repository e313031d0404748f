// Package provider defines the contract every identifier probe implements
// and the registry that holds the fixed set of known probes for a process
// lifetime.
package provider

import (
	"context"
	"net/http"

	"github.com/afterpacket/huntcore/internal/hunttype"
)

// Provider is the contract every probe implements. BuildURL is pure and
// total: it never fails and never performs I/O. Check performs the actual
// network request and must never panic — any failure, including a panic
// recovered by the caller, is surfaced as a StatusError ProbeResult.
type Provider interface {
	// Name is the provider's stable, lowercase identifier, used for
	// ordering, deduplication, and settings lookups.
	Name() string

	// TimeoutSec is the provider's declared per-request budget in whole
	// seconds, before the engine's outer grace period is added.
	TimeoutSec() int

	// UAProfile names the entry in the uaprofile catalogue this provider
	// wants merged over the engine's baseline headers.
	UAProfile() string

	// UseProxy reports whether this probe should be routed through the
	// configured clearnet proxy when one is available.
	UseProxy() bool

	// BuildURL renders the target URL for identifier. It is pure: equal
	// inputs always produce equal output, and it never returns an error.
	BuildURL(identifier string) string

	// Check performs the probe against identifier using client, with
	// headers already merged by the caller. It returns exactly one
	// ProbeResult and never panics.
	Check(ctx context.Context, identifier string, client *http.Client, headers map[string]string) hunttype.ProbeResult
}

// Base implements the non-Check methods of Provider from fixed fields, so
// concrete providers can embed it and only implement BuildURL and Check.
type Base struct {
	NameValue       string
	TimeoutSecValue int
	UAProfileValue  string
	UseProxyValue   bool
}

// Name returns the provider's stable identifier.
func (b Base) Name() string { return b.NameValue }

// TimeoutSec returns the provider's declared per-request budget.
func (b Base) TimeoutSec() int {
	if b.TimeoutSecValue <= 0 {
		return 10
	}
	return b.TimeoutSecValue
}

// UAProfile returns the catalogue entry this provider wants merged in.
func (b Base) UAProfile() string { return b.UAProfileValue }

// UseProxy reports whether this probe prefers the clearnet proxy.
func (b Base) UseProxy() bool { return b.UseProxyValue }
