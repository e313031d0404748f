package snusbase

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

func TestCheckSkippedWithoutAPIKey(t *testing.T) {
	p := New("")
	res := p.Check(context.Background(), "user", nil, map[string]string{})
	if res.Status != hunttype.StatusUnknown {
		t.Fatalf("status = %v, want UNKNOWN", res.Status)
	}
}

func TestCheckFoundFlattensDatabases(t *testing.T) {
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"took":1,"size":2,"results":{"db1":[{"username":"a"}],"db2":[{"username":"b"}]}}`))
	})

	p := New("key")
	res := p.Check(context.Background(), "user", nil, map[string]string{})
	if res.Status != hunttype.StatusFound {
		t.Fatalf("status = %v, want FOUND", res.Status)
	}
	list, _ := res.Profile["raw_results"].AsList()
	if len(list) != 2 {
		t.Fatalf("len(raw_results) = %d, want 2", len(list))
	}
}

func TestCheckNotFoundWhenEmpty(t *testing.T) {
	withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"took":1,"size":0,"results":{}}`))
	})

	p := New("key")
	res := p.Check(context.Background(), "user", nil, map[string]string{})
	if res.Status != hunttype.StatusNotFound {
		t.Fatalf("status = %v, want NOT_FOUND", res.Status)
	}
}

func TestSearchTypesDetectsEmail(t *testing.T) {
	types := searchTypes("a@b.com")
	if types[0] != "email" {
		t.Fatalf("types[0] = %q, want email", types[0])
	}
}
