// Package stackoverflow implements a numeric-user-ID profile probe.
package stackoverflow

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/provider"
	"github.com/afterpacket/huntcore/internal/providers/httpx"
)

// baseURL is overridden in tests to point at a local server.
var baseURL = "https://stackoverflow.com"

// Provider is the stackoverflow probe.
type Provider struct {
	provider.Base
}

// New builds the stackoverflow probe.
func New() Provider {
	return Provider{Base: provider.Base{NameValue: "stackoverflow", TimeoutSecValue: 10, UAProfileValue: "desktop_chrome"}}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BuildURL renders a user profile URL from the numeric digits found in
// identifier, falling back to the site root for non-numeric input.
func (Provider) BuildURL(identifier string) string {
	id := digitsOnly(identifier)
	if id == "" {
		return baseURL + "/"
	}
	return baseURL + "/users/" + id
}

// Check requests the user profile page and looks for the markers a valid
// profile page carries (reputation score, profile section).
func (p Provider) Check(ctx context.Context, identifier string, client *http.Client, headers map[string]string) hunttype.ProbeResult {
	ts := time.Now().UTC().Format(time.RFC3339)
	id := digitsOnly(identifier)
	url := p.BuildURL(identifier)

	if id == "" {
		return hunttype.NewProbeResult(hunttype.ResultParams{
			Provider: p.Name(), Username: identifier, URL: url, Status: hunttype.StatusNotFound,
			Error: "Invalid format. Stack Overflow requires a numeric user ID.", TimestampISO: ts,
		})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: id, URL: url, Status: hunttype.StatusError, Error: err.Error(), TimestampISO: ts})
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: id, URL: url, Status: hunttype.StatusError, Error: err.Error(), TimestampISO: ts})
	}
	defer resp.Body.Close()

	body, err := httpx.ReadBody(resp)
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: id, URL: url, Status: hunttype.StatusError, Error: err.Error(), TimestampISO: ts})
	}

	lower := strings.ToLower(body)
	httpStatus := resp.StatusCode
	status := hunttype.StatusNotFound
	if resp.StatusCode == http.StatusOK && strings.Contains(lower, "reputation") && strings.Contains(lower, "profile") {
		status = hunttype.StatusFound
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return hunttype.NewProbeResult(hunttype.ResultParams{
		Provider:     p.Name(),
		Username:     id,
		URL:          finalURL,
		Status:       status,
		HTTPStatus:   &httpStatus,
		Evidence:     hunttype.ValueMap{"note": hunttype.NewValue("Search by User ID")},
		TimestampISO: ts,
	})
}
