package demo

import (
	"testing"

	"github.com/afterpacket/huntcore/internal/hunttype"
)

func TestDefaultRedactorMasksSensitiveKeys(t *testing.T) {
	r := DefaultRedactor{}
	in := hunttype.NewValue(map[string]any{
		"email":    "alice@example.com",
		"username": "alice",
	})

	got := r.CensorValue(in, "")
	m, ok := got.AsMap()
	if !ok {
		t.Fatal("expected map back")
	}
	if s, _ := m["email"].AsString(); s != maskedPlaceholder {
		t.Fatalf("email = %q, want masked", s)
	}
	if s, _ := m["username"].AsString(); s != "alice" {
		t.Fatalf("username = %q, want untouched", s)
	}
}

func TestDefaultRedactorIdempotent(t *testing.T) {
	r := DefaultRedactor{}
	in := hunttype.NewValue(map[string]any{"password": "hunter2"})

	once := r.CensorValue(in, "")
	twice := r.CensorValue(once, "")

	m1, _ := once.AsMap()
	m2, _ := twice.AsMap()
	s1, _ := m1["password"].AsString()
	s2, _ := m2["password"].AsString()
	if s1 != s2 {
		t.Fatalf("redaction not idempotent: %q then %q", s1, s2)
	}
}

func TestCensorBreachDataMasksPasswordAndEmail(t *testing.T) {
	r := DefaultRedactor{}
	records := []hunttype.Value{
		hunttype.NewValue(map[string]any{
			"source":   "examplebreach",
			"email":    "bob@example.com",
			"password": "plaintext",
		}),
	}

	out := r.CensorBreachData(records)
	m, ok := out[0].AsMap()
	if !ok {
		t.Fatal("expected map back")
	}
	if s, _ := m["source"].AsString(); s != "examplebreach" {
		t.Fatalf("source = %q, want untouched", s)
	}
	if s, _ := m["password"].AsString(); s != maskedPlaceholder {
		t.Fatalf("password = %q, want masked", s)
	}
}

func TestStaticModeReportsFixedValue(t *testing.T) {
	if StaticMode(false).IsDemoMode() {
		t.Fatal("expected false")
	}
	if !StaticMode(true).IsDemoMode() {
		t.Fatal("expected true")
	}
}
