// Package hunttype defines the result taxonomy shared by every probe and
// addon: the open Value mapping and the normalised ProbeResult record.
package hunttype

import (
	"encoding/json"
	"fmt"
)

// Value is a recursive tagged value used for the open evidence/profile
// mappings carried on every ProbeResult. It holds exactly one of: nil,
// bool, float64, string, []Value, or map[string]Value, and round-trips
// through JSON without loss of nested structure.
type Value struct {
	v any
}

// Null is the absence of a value.
var Null = Value{}

// NewValue wraps an arbitrary Go value into a Value, normalising int,
// int64 and uint64 to float64 and recursively wrapping []any and
// map[string]any. Unsupported types are
// stringified via fmt.Sprintf as a last resort so callers can never panic
// by handing the taxonomy unexpected data.
func NewValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null
	case Value:
		return t
	case bool, float64, string:
		return Value{v: t}
	case int:
		return Value{v: float64(t)}
	case int64:
		return Value{v: float64(t)}
	case uint64:
		return Value{v: float64(t)}
	case []Value:
		return Value{v: t}
	case map[string]Value:
		return Value{v: t}
	case []any:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = NewValue(e)
		}
		return Value{v: out}
	case map[string]any:
		out := make(map[string]Value, len(t))
		for k, e := range t {
			out[k] = NewValue(e)
		}
		return Value{v: out}
	default:
		return Value{v: fmt.Sprintf("%v", t)}
	}
}

// List builds a Value from a slice of arbitrary values.
func List(vs ...any) Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = NewValue(v)
	}
	return Value{v: out}
}

// Map builds a Value from a string-keyed mapping.
func Map(m map[string]any) Value {
	return NewValue(m)
}

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.v == nil }

// Raw returns the underlying Go value (bool, float64, string, []Value,
// map[string]Value, or nil).
func (v Value) Raw() any { return v.v }

// AsMap returns the underlying mapping and true, or (nil, false) if v is
// not a map.
func (v Value) AsMap() (map[string]Value, bool) {
	m, ok := v.v.(map[string]Value)
	return m, ok
}

// AsList returns the underlying list and true, or (nil, false) if v is
// not a list.
func (v Value) AsList() ([]Value, bool) {
	l, ok := v.v.([]Value)
	return l, ok
}

// AsString returns the underlying string and true, or ("", false).
func (v Value) AsString() (string, bool) {
	s, ok := v.v.(string)
	return s, ok
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch t := v.v.(type) {
	case nil:
		return []byte("null"), nil
	case bool, float64, string:
		return json.Marshal(t)
	case []Value:
		return json.Marshal(t)
	case map[string]Value:
		return json.Marshal(t)
	default:
		return json.Marshal(fmt.Sprintf("%v", t))
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = fromDecoded(raw)
	return nil
}

func fromDecoded(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Null
	case bool, float64, string:
		return Value{v: t}
	case []any:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = fromDecoded(e)
		}
		return Value{v: out}
	case map[string]any:
		out := make(map[string]Value, len(t))
		for k, e := range t {
			out[k] = fromDecoded(e)
		}
		return Value{v: out}
	default:
		return Value{v: fmt.Sprintf("%v", t)}
	}
}

// ValueMap is an ordinary map[string]Value, used directly as the type of
// ProbeResult.Evidence/Profile so callers can build literals with
// map[string]Value{...} without going through NewValue for every field.
type ValueMap = map[string]Value
