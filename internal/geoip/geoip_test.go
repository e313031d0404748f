package geoip

import (
	"net/netip"
	"testing"
)

func TestNoOpOpenLookupReturnsEmpty(t *testing.T) {
	reader, err := NoOpOpen("ignored")
	if err != nil {
		t.Fatalf("NoOpOpen: %v", err)
	}
	defer reader.Close()

	if got := reader.Lookup(netip.MustParseAddr("8.8.8.8")); got != "" {
		t.Fatalf("expected empty country, got %q", got)
	}
}

func TestMMDBReaderNilSafety(t *testing.T) {
	var m *mmdbReader
	if got := m.Lookup(netip.MustParseAddr("1.1.1.1")); got != "" {
		t.Fatalf("expected empty country for nil reader, got %q", got)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close on nil reader: %v", err)
	}
}

func TestMMDBOpenMissingFile(t *testing.T) {
	if _, err := MMDBOpen("/nonexistent/path/country.mmdb"); err == nil {
		t.Fatalf("expected error opening missing mmdb file")
	}
}
