package hibp

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
	original := baseURL
	baseURL = srv.URL
	t.Cleanup(func() { baseURL = original })
	return srv
}

func TestCheckSkippedWithoutAPIKey(t *testing.T) {
	p := New("")
	res := p.Check(context.Background(), "a@b.com", nil, map[string]string{})
	if res.Status != hunttype.StatusUnknown {
		t.Fatalf("status = %v, want UNKNOWN", res.Status)
	}
}

func TestCheckRejectsWildcard(t *testing.T) {
	p := New("key")
	res := p.Check(context.Background(), "a*@b.com", nil, map[string]string{})
	if res.Status != hunttype.StatusError {
		t.Fatalf("status = %v, want ERROR", res.Status)
	}
}

func TestCheckRejectsNonEmail(t *testing.T) {
	p := New("key")
	res := p.Check(context.Background(), "not-an-email", nil, map[string]string{})
	if res.Status != hunttype.StatusNotFound {
		t.Fatalf("status = %v, want NOT_FOUND", res.Status)
	}
}

func TestCheckFoundWhenBreachesPresent(t *testing.T) {
	srv := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v3/breachedaccount/a@b.com" {
			w.Write([]byte(`[{"Name":"Adobe"}]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	p := New("key")
	res := p.Check(context.Background(), "a@b.com", srv.Client(), map[string]string{})
	if res.Status != hunttype.StatusFound {
		t.Fatalf("status = %v, want FOUND", res.Status)
	}
}

func TestCheckNotFoundWhenBothMiss(t *testing.T) {
	srv := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	p := New("key")
	res := p.Check(context.Background(), "a@b.com", srv.Client(), map[string]string{})
	if res.Status != hunttype.StatusNotFound {
		t.Fatalf("status = %v, want NOT_FOUND", res.Status)
	}
}

func TestCheckRateLimited(t *testing.T) {
	srv := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	p := New("key")
	res := p.Check(context.Background(), "a@b.com", srv.Client(), map[string]string{})
	if res.Status != hunttype.StatusBlocked {
		t.Fatalf("status = %v, want BLOCKED", res.Status)
	}
}
