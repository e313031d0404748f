// Package geoip implements a local, no-network identifier probe: it
// resolves an IP-address identifier to a country code via an injectable
// GeoReader backed by a MaxMind-compatible database opened once at
// startup.
package geoip

import (
	"context"
	"net/http"
	"net/netip"
	"time"

	"github.com/afterpacket/huntcore/internal/geoip"
	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/provider"
)

// Provider is the geoip probe. It never makes an HTTP call: Check is
// satisfied entirely from the local database, so host-gate and client
// selection are no-ops for this probe.
type Provider struct {
	provider.Base
	reader geoip.GeoReader
}

// New builds the geoip probe against reader. A nil reader degrades every
// Check of a valid IP address to UNKNOWN, matching a missing-database
// deployment.
func New(reader geoip.GeoReader) Provider {
	return Provider{
		Base:   provider.Base{NameValue: "geoip", TimeoutSecValue: 5},
		reader: reader,
	}
}

// BuildURL has no meaning for a local lookup; it returns the identifier
// itself so result records still carry a stable URL field.
func (Provider) BuildURL(identifier string) string { return identifier }

// Check resolves identifier (an IPv4/IPv6 literal) to a country code.
func (p Provider) Check(_ context.Context, identifier string, _ *http.Client, _ map[string]string) hunttype.ProbeResult {
	ts := time.Now().UTC().Format(time.RFC3339)
	start := time.Now()

	addr, err := netip.ParseAddr(identifier)
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{
			Provider: p.Name(), Username: identifier, URL: identifier, Status: hunttype.StatusNotFound,
			Error: "Invalid format: geoip requires an IP address.", TimestampISO: ts,
		})
	}

	if p.reader == nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{
			Provider: p.Name(), Username: identifier, URL: identifier, Status: hunttype.StatusUnknown,
			Error: "Skipped: no GeoIP database loaded.", TimestampISO: ts,
		})
	}

	country := p.reader.Lookup(addr)
	elapsed := time.Since(start).Milliseconds()
	if country == "" {
		return hunttype.NewProbeResult(hunttype.ResultParams{
			Provider: p.Name(), Username: identifier, URL: identifier, Status: hunttype.StatusNotFound,
			ElapsedMs: elapsed, TimestampISO: ts,
		})
	}

	return hunttype.NewProbeResult(hunttype.ResultParams{
		Provider:     p.Name(),
		Username:     identifier,
		URL:          identifier,
		Status:       hunttype.StatusFound,
		ElapsedMs:    elapsed,
		Profile:      hunttype.ValueMap{"country": hunttype.NewValue(country)},
		TimestampISO: ts,
	})
}
