package breachvip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/afterpacket/huntcore/internal/hunttype"
)

func withTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	original := searchURL
	searchURL = srv.URL
	t.Cleanup(func() { searchURL = original })
	return srv
}

func TestCheckFoundWhenResultsPresent(t *testing.T) {
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"email":"a@b.com","password":"hunter2","source":"leak1"}]}`))
	})

	p := New()
	res := p.Check(context.Background(), "a@b.com", nil, map[string]string{})
	if res.Status != hunttype.StatusFound {
		t.Fatalf("status = %v, want FOUND", res.Status)
	}
	if n, _ := res.Profile["result_count"].Raw().(float64); n != 1 {
		t.Fatalf("result_count = %v", res.Profile["result_count"])
	}
}

func TestCheckNotFoundWhenEmpty(t *testing.T) {
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})

	p := New()
	res := p.Check(context.Background(), "nobody", nil, map[string]string{})
	if res.Status != hunttype.StatusNotFound {
		t.Fatalf("status = %v, want NOT_FOUND", res.Status)
	}
}

func TestCheckForbiddenIsBlocked(t *testing.T) {
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	p := New()
	res := p.Check(context.Background(), "a@b.com", nil, map[string]string{})
	if res.Status != hunttype.StatusBlocked {
		t.Fatalf("status = %v, want BLOCKED", res.Status)
	}
}

func TestSearchFieldsIncludesEmailForEmailTerm(t *testing.T) {
	fields := searchFields("user@example.com")
	if fields[0] != "email" {
		t.Fatalf("fields[0] = %q, want email", fields[0])
	}
}

func TestSearchFieldsCapsAtTen(t *testing.T) {
	fields := searchFields("user@example.com")
	if len(fields) > 10 {
		t.Fatalf("len(fields) = %d, want <= 10", len(fields))
	}
}
