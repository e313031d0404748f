// Package providers aggregates every concrete provider package into the
// registry the engine scans against, wiring each credential-gated probe
// to its configured API key.
package providers

import (
	"github.com/afterpacket/huntcore/internal/config"
	coregeoip "github.com/afterpacket/huntcore/internal/geoip"
	"github.com/afterpacket/huntcore/internal/provider"
	"github.com/afterpacket/huntcore/internal/providers/breachvip"
	"github.com/afterpacket/huntcore/internal/providers/discord"
	"github.com/afterpacket/huntcore/internal/providers/geoip"
	"github.com/afterpacket/huntcore/internal/providers/goodreads"
	"github.com/afterpacket/huntcore/internal/providers/goyimtv"
	"github.com/afterpacket/huntcore/internal/providers/hibp"
	"github.com/afterpacket/huntcore/internal/providers/leakcheck"
	"github.com/afterpacket/huntcore/internal/providers/snusbase"
	"github.com/afterpacket/huntcore/internal/providers/stackoverflow"
)

// Build constructs the full provider registry, reading API keys for the
// credential-gated probes out of settings. geoReader may be nil, in which
// case the geoip probe degrades to UNKNOWN for every valid IP address.
func Build(settings *config.Settings, geoReader coregeoip.GeoReader) (*provider.Registry, error) {
	hibpKey, _ := settings.APIKey("hibp_api_key")
	leakcheckKey, _ := settings.APIKey("leakcheck_api_key")
	snusbaseKey, _ := settings.APIKey("snusbase_api_key")

	return provider.NewRegistry(
		discord.New(),
		goodreads.New(),
		stackoverflow.New(),
		hibp.New(hibpKey),
		breachvip.New(),
		leakcheck.New(leakcheckKey),
		snusbase.New(snusbaseKey),
		goyimtv.New(),
		geoip.New(geoReader),
	)
}
