package geoip

import (
	"context"
	"net/netip"
	"testing"

	"github.com/afterpacket/huntcore/internal/hunttype"
)

type stubReader struct {
	country string
}

func (s stubReader) Lookup(_ netip.Addr) string { return s.country }
func (stubReader) Close() error                 { return nil }

func TestCheckFoundWhenCountryResolved(t *testing.T) {
	p := New(stubReader{country: "us"})
	res := p.Check(context.Background(), "8.8.8.8", nil, nil)
	if res.Status != hunttype.StatusFound {
		t.Fatalf("status = %v, want FOUND", res.Status)
	}
	if c, _ := res.Profile["country"].AsString(); c != "us" {
		t.Fatalf("country = %q", c)
	}
}

func TestCheckNotFoundWhenUnresolved(t *testing.T) {
	p := New(stubReader{country: ""})
	res := p.Check(context.Background(), "8.8.8.8", nil, nil)
	if res.Status != hunttype.StatusNotFound {
		t.Fatalf("status = %v, want NOT_FOUND", res.Status)
	}
}

func TestCheckInvalidIPIsNotFound(t *testing.T) {
	p := New(stubReader{country: "us"})
	res := p.Check(context.Background(), "not-an-ip", nil, nil)
	if res.Status != hunttype.StatusNotFound {
		t.Fatalf("status = %v, want NOT_FOUND", res.Status)
	}
}

func TestCheckNilReaderIsUnknown(t *testing.T) {
	p := New(nil)
	res := p.Check(context.Background(), "8.8.8.8", nil, nil)
	if res.Status != hunttype.StatusUnknown {
		t.Fatalf("status = %v, want UNKNOWN", res.Status)
	}
}
