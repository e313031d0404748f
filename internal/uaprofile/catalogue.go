// Package uaprofile holds the static user-agent profile catalogue and
// the header-merge helper used to build each probe's effective request
// headers.
package uaprofile

// Profiles is the static catalogue of named header bags. It is a lookup
// table only — the engine resolves a probe's declared profile name
// against this map and falls back to the zero value (no extra headers)
// for unknown names.
var Profiles = map[string]map[string]string{
	"desktop_chrome": {
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
	},
	"mobile_safari": {
		"User-Agent":      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
	},
	"api_json": {
		"User-Agent": "Social-Hunt/1.0",
		"Accept":     "application/json",
	},
}

// Lookup returns the header bag registered under name, or an empty map
// if name is not in the catalogue.
func Lookup(name string) map[string]string {
	if profile, ok := Profiles[name]; ok {
		return profile
	}
	return map[string]string{}
}

// Merge produces a new header mapping equal to base overlaid by
// override — override wins per key. Neither input is mutated, and the
// operation is associative on disjoint keys (Merge(a, Merge(b, c)) ==
// Merge(Merge(a, b), c)), with the rightmost value winning wherever keys
// collide.
func Merge(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
