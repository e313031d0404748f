package hunttype

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// ProbeResult is the normalised record every probe returns. It is
// produced exactly once per (scan, provider) pair and is immutable after
// emission — callers receive it by value.
type ProbeResult struct {
	Provider     string   `json:"provider"`
	Username     string   `json:"username"`
	URL          string   `json:"url"`
	Status       Status   `json:"status"`
	HTTPStatus   *int     `json:"http_status,omitempty"`
	ElapsedMs    int64    `json:"elapsed_ms"`
	Evidence     ValueMap `json:"evidence"`
	Profile      ValueMap `json:"profile"`
	Error        string   `json:"error,omitempty"`
	TimestampISO string   `json:"timestamp_iso"`
}

// ResultParams is the input to NewProbeResult. Every field is optional;
// omitted fields take the zero-value documented on ProbeResult.
type ResultParams struct {
	Provider     string
	Username     string
	URL          string
	Status       Status
	HTTPStatus   *int
	ElapsedMs    int64
	Evidence     ValueMap
	Profile      ValueMap
	Error        string
	TimestampISO string
}

// NewProbeResult is the total constructor for ProbeResult: it never
// fails, and any field left zero in p takes the documented default
// (Status defaults to UNKNOWN, Evidence/Profile default to an empty, but
// non-nil, mapping).
func NewProbeResult(p ResultParams) ProbeResult {
	status := p.Status
	if status == "" {
		status = StatusUnknown
	}
	evidence := p.Evidence
	if evidence == nil {
		evidence = ValueMap{}
	}
	profile := p.Profile
	if profile == nil {
		profile = ValueMap{}
	}
	return ProbeResult{
		Provider:     p.Provider,
		Username:     p.Username,
		URL:          p.URL,
		Status:       status,
		HTTPStatus:   p.HTTPStatus,
		ElapsedMs:    p.ElapsedMs,
		Evidence:     evidence,
		Profile:      profile,
		Error:        p.Error,
		TimestampISO: p.TimestampISO,
	}
}

// ResultKey is a stable 128-bit identity for a (scan identifier, provider
// name) pair within one scan, for callers that need a comparable key
// without string-concatenating untrusted input.
type ResultKey [16]byte

// NewResultKey derives a ResultKey from the scan identifier and provider
// name. Two calls with the same (identifier, provider) pair always
// produce the same key.
func NewResultKey(identifier, provider string) ResultKey {
	h := xxh3.Hash128(append(append([]byte(identifier), 0), []byte(provider)...))
	var out ResultKey
	binary.LittleEndian.PutUint64(out[:8], h.Lo)
	binary.LittleEndian.PutUint64(out[8:], h.Hi)
	return out
}

// Key returns the ResultKey for this result's (Username, Provider) pair.
func (r ProbeResult) Key() ResultKey {
	return NewResultKey(r.Username, r.Provider)
}
