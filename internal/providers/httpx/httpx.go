// Package httpx holds small helpers shared by the concrete provider
// packages: a bounded body reader and a private, non-proxy-trusting client
// constructor for API-style probes that must opt out of the engine's
// ambient client selection.
package httpx

import (
	"io"
	"net/http"
	"time"
)

// MaxBodyBytes caps how much of a probe response body is read into
// memory, so a misbehaving or malicious target cannot exhaust memory via
// an unbounded response.
const MaxBodyBytes = 4 << 20

// ReadBody reads up to MaxBodyBytes of resp.Body and returns it as a
// string.
func ReadBody(resp *http.Response) (string, error) {
	limited := io.LimitReader(resp.Body, MaxBodyBytes)
	data, err := io.ReadAll(limited)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// PrivateClient builds a standalone client that ignores the engine's
// ambient proxy/client selection, for API-style probes issuing JSON
// requests directly to a fixed endpoint — the Go analogue of constructing
// an httpx.AsyncClient(trust_env=False) per request.
func PrivateClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	return &http.Client{Transport: transport, Timeout: timeout}
}
