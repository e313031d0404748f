package stackoverflow

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

func TestCheckFoundWhenMarkersPresent(t *testing.T) {
	srv := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>reputation ... profile ...</html>"))
	})

	p := New()
	res := p.Check(context.Background(), "12345", srv.Client(), map[string]string{})
	if res.Status != hunttype.StatusFound {
		t.Fatalf("status = %v, want FOUND", res.Status)
	}
}

func TestCheckNotFoundWhenMarkersMissing(t *testing.T) {
	srv := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>nothing here</html>"))
	})

	p := New()
	res := p.Check(context.Background(), "12345", srv.Client(), map[string]string{})
	if res.Status != hunttype.StatusNotFound {
		t.Fatalf("status = %v, want NOT_FOUND", res.Status)
	}
}

func TestCheckNonNumericIdentifierIsNotFound(t *testing.T) {
	p := New()
	res := p.Check(context.Background(), "not-a-number", nil, map[string]string{})
	if res.Status != hunttype.StatusNotFound {
		t.Fatalf("status = %v, want NOT_FOUND", res.Status)
	}
}

func TestDigitsOnlyStripsNonDigits(t *testing.T) {
	if got := digitsOnly("user-1234-x"); got != "1234" {
		t.Fatalf("digitsOnly = %q", got)
	}
}
