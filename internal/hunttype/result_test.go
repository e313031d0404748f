package hunttype

import (
	"encoding/json"
	"testing"
)

func TestNewProbeResultZeroValues(t *testing.T) {
	r := NewProbeResult(ResultParams{Provider: "p1", Username: "alice"})

	if r.Status != StatusUnknown {
		t.Fatalf("status = %v, want UNKNOWN", r.Status)
	}
	if r.Evidence == nil || len(r.Evidence) != 0 {
		t.Fatalf("evidence = %v, want empty non-nil map", r.Evidence)
	}
	if r.Profile == nil || len(r.Profile) != 0 {
		t.Fatalf("profile = %v, want empty non-nil map", r.Profile)
	}
	if r.ElapsedMs != 0 {
		t.Fatalf("elapsed_ms = %d, want 0", r.ElapsedMs)
	}
	if r.HTTPStatus != nil {
		t.Fatalf("http_status = %v, want absent", r.HTTPStatus)
	}
}

func TestProbeResultJSONSerialisable(t *testing.T) {
	status := 200
	r := NewProbeResult(ResultParams{
		Provider:   "hibp",
		Username:   "alice@example.com",
		URL:        "https://haveibeenpwned.com/api/v3/breachedaccount/alice@example.com",
		Status:     StatusFound,
		HTTPStatus: &status,
		ElapsedMs:  42,
		Evidence:   ValueMap{"breaches_found": NewValue(true)},
		Profile:    ValueMap{"breach_count": NewValue(3)},
	})

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["http_status"].(float64) != 200 {
		t.Fatalf("http_status = %v", decoded["http_status"])
	}
	if _, hasError := decoded["error"]; hasError {
		t.Fatal("expected error to be omitted when empty")
	}
}

func TestResultKeyStable(t *testing.T) {
	a := NewResultKey("alice", "hibp")
	b := NewResultKey("alice", "hibp")
	c := NewResultKey("alice", "discord")
	if a != b {
		t.Fatal("expected identical keys for identical inputs")
	}
	if a == c {
		t.Fatal("expected distinct keys for distinct providers")
	}
}
