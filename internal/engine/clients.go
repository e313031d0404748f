package engine

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

// clientSet is the scoped set of HTTP client handles a scan owns for its
// duration. direct is always present; tor and clearnet are present only
// when the corresponding proxy environment variable was set.
type clientSet struct {
	direct   *http.Client
	tor      *http.Client
	clearnet *http.Client
}

const defaultClientTimeout = 60 * time.Second

// newClientSet builds the scoped client set. Closing it is a no-op beyond
// idle-connection cleanup because net/http clients hold no OS handles that
// must be released explicitly; CloseIdleConnections is still called on
// release so a scan never leaves sockets lingering past its own lifetime.
func newClientSet(torProxyURL, clearnetProxyURL string) (*clientSet, error) {
	set := &clientSet{
		direct: &http.Client{Timeout: defaultClientTimeout},
	}

	if torProxyURL != "" {
		client, err := proxyClient(torProxyURL)
		if err != nil {
			return nil, fmt.Errorf("engine: building tor client: %w", err)
		}
		set.tor = client
	}

	if clearnetProxyURL != "" {
		client, err := proxyClient(clearnetProxyURL)
		if err != nil {
			return nil, fmt.Errorf("engine: building clearnet proxy client: %w", err)
		}
		set.clearnet = client
	}

	return set, nil
}

func proxyClient(proxyURL string) (*http.Client, error) {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy url %q: %w", proxyURL, err)
	}
	if parsed.Scheme == "http" || parsed.Scheme == "https" {
		transport := &http.Transport{Proxy: http.ProxyURL(parsed)}
		return &http.Client{Transport: transport, Timeout: defaultClientTimeout}, nil
	}
	dialer, err := proxy.FromURL(parsed, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("building dialer for %q: %w", proxyURL, err)
	}
	transport := &http.Transport{
		Dial: dialer.Dial,
	}
	return &http.Client{Transport: transport, Timeout: defaultClientTimeout}, nil
}

// release returns every client handle's idle connections to the pool.
// Safe to call exactly once per scan, on every exit path.
func (c *clientSet) release() {
	if c == nil {
		return
	}
	c.direct.CloseIdleConnections()
	if c.tor != nil {
		c.tor.CloseIdleConnections()
	}
	if c.clearnet != nil {
		c.clearnet.CloseIdleConnections()
	}
}

// selectFor picks the client for one probe dispatch per the routing table:
// .onion URLs prefer tor when available, proxy-opted-in probes prefer
// clearnet when available, otherwise direct.
func (c *clientSet) selectFor(targetURL string, useProxy bool) *http.Client {
	if isOnion(targetURL) && c.tor != nil {
		return c.tor
	}
	if useProxy && c.clearnet != nil {
		return c.clearnet
	}
	return c.direct
}

func isOnion(targetURL string) bool {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return len(host) > len(".onion") && host[len(host)-len(".onion"):] == ".onion"
}
