package hunttype

import (
	"encoding/json"
	"testing"
)

func TestValueRoundTrip(t *testing.T) {
	v := Map(map[string]any{
		"count": 3,
		"names": []any{"a", "b"},
		"nested": map[string]any{
			"flag": true,
			"note": nil,
		},
	})

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Value
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	m, ok := got.AsMap()
	if !ok {
		t.Fatal("expected map")
	}
	if f, ok := m["count"].Raw().(float64); !ok || f != 3 {
		t.Fatalf("count = %v, want 3", m["count"].Raw())
	}
	names, ok := m["names"].AsList()
	if !ok || len(names) != 2 {
		t.Fatalf("names = %v", m["names"])
	}
	nested, ok := m["nested"].AsMap()
	if !ok {
		t.Fatal("expected nested map")
	}
	if !nested["note"].IsNull() {
		t.Fatal("expected null note")
	}
}

func TestValueListAndScalars(t *testing.T) {
	v := List("x", 1, true, nil)
	l, ok := v.AsList()
	if !ok || len(l) != 4 {
		t.Fatalf("expected 4-element list, got %v", v)
	}
	if s, ok := l[0].AsString(); !ok || s != "x" {
		t.Fatalf("l[0] = %v", l[0])
	}
	if !l[3].IsNull() {
		t.Fatal("expected l[3] null")
	}
}

func TestNewValueUnsupportedTypeStringifies(t *testing.T) {
	type weird struct{ A int }
	v := NewValue(weird{A: 1})
	s, ok := v.AsString()
	if !ok || s == "" {
		t.Fatalf("expected stringified fallback, got %v", v)
	}
}
