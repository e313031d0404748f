// Package demo defines the demo-mode redaction boundary. The engine treats
// the concrete censorship policy as an external collaborator: this package
// only fixes the interface and the process-wide toggle, plus a minimal
// default implementation good enough to run without a caller-supplied one.
package demo

import (
	"strings"

	"github.com/afterpacket/huntcore/internal/hunttype"
)

// Redactor is applied by the engine to every top-level entry of each
// result's evidence and profile when demo mode is enabled. Implementations must be idempotent: applying CensorValue or
// CensorBreachData twice to already-censored output must return the same
// output unchanged.
type Redactor interface {
	// CensorValue censors a single leaf value. keyHint is the field name
	// the value was read from, for key-aware policies (e.g. censoring an
	// "email" field differently from a "username" field).
	CensorValue(value hunttype.Value, keyHint string) hunttype.Value

	// CensorBreachData censors a list of structured breach records,
	// which need record-aware handling rather than leaf-by-leaf
	// censorship.
	CensorBreachData(records []hunttype.Value) []hunttype.Value
}

// ModeSource reports whether the process is currently running in demo
// mode. It is read once per result by the engine; implementations should
// be cheap (a field read or an atomic load), not an I/O call.
type ModeSource interface {
	IsDemoMode() bool
}

// StaticMode is a ModeSource fixed at construction, for wiring a
// once-at-startup environment toggle without a mutable global.
type StaticMode bool

// IsDemoMode reports the fixed mode value.
func (m StaticMode) IsDemoMode() bool { return bool(m) }

// DefaultRedactor is a conservative, key-aware redactor: it masks values
// under sensitive key hints (email, password, phone, address, ip, token)
// and leaves everything else untouched. It is a reasonable default for
// callers who enable demo mode without supplying their own policy; it is
// not the only correct policy.
type DefaultRedactor struct{}

var sensitiveKeyHints = map[string]struct{}{
	"email":    {},
	"password": {},
	"phone":    {},
	"address":  {},
	"ip":       {},
	"ip_address": {},
	"token":    {},
}

const maskedPlaceholder = "***REDACTED***"

// CensorValue masks string leaves whose key hint names a sensitive field,
// and recurses into lists and maps so nested leaves are reached too.
// Re-censoring an already-masked value is a no-op because the placeholder
// is itself treated as already censored.
func (DefaultRedactor) CensorValue(value hunttype.Value, keyHint string) hunttype.Value {
	return censorRecursive(value, keyHint)
}

func censorRecursive(value hunttype.Value, keyHint string) hunttype.Value {
	if m, ok := value.AsMap(); ok {
		out := make(hunttype.ValueMap, len(m))
		for k, v := range m {
			out[k] = censorRecursive(v, k)
		}
		return hunttype.NewValue(out)
	}
	if list, ok := value.AsList(); ok {
		out := make([]hunttype.Value, len(list))
		for i, v := range list {
			out[i] = censorRecursive(v, keyHint)
		}
		return hunttype.NewValue(out)
	}
	if s, ok := value.AsString(); ok {
		if s == maskedPlaceholder {
			return value
		}
		if _, sensitive := sensitiveKeyHints[strings.ToLower(keyHint)]; sensitive {
			return hunttype.NewValue(maskedPlaceholder)
		}
	}
	return value
}

// CensorBreachData passes every field of every record through CensorValue,
// so sensitive fields such as "password" and "email" are masked while
// other breach fields (e.g. "source", "breach_date") stay untouched and
// the record remains useful for triage.
func (r DefaultRedactor) CensorBreachData(records []hunttype.Value) []hunttype.Value {
	out := make([]hunttype.Value, len(records))
	for i, rec := range records {
		m, ok := rec.AsMap()
		if !ok {
			out[i] = rec
			continue
		}
		censored := make(hunttype.ValueMap, len(m))
		for k, v := range m {
			censored[k] = r.CensorValue(v, k)
		}
		out[i] = hunttype.NewValue(censored)
	}
	return out
}
