// Package goodreads implements a user-search probe: Goodreads has no
// direct username-to-profile URL, so this probe searches and looks for
// the first profile link in the results page.
package goodreads

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/provider"
	"github.com/afterpacket/huntcore/internal/providers/httpx"
)

var profileLinkPattern = regexp.MustCompile(`href="(/user/show/[^"]+)"`)

// baseURL is overridden in tests to point at a local server.
var baseURL = "https://www.goodreads.com"

// Provider is the goodreads probe.
type Provider struct {
	provider.Base
}

// New builds the goodreads probe.
func New() Provider {
	return Provider{Base: provider.Base{NameValue: "goodreads", TimeoutSecValue: 10, UAProfileValue: "desktop_chrome"}}
}

// BuildURL renders the search URL for identifier.
func (Provider) BuildURL(identifier string) string {
	return baseURL + "/search?q=" + identifier
}

// Check searches for identifier and reports FOUND if a profile link
// appears in the results page.
func (p Provider) Check(ctx context.Context, identifier string, client *http.Client, headers map[string]string) hunttype.ProbeResult {
	searchURL := p.BuildURL(identifier)
	ts := time.Now().UTC().Format(time.RFC3339)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusError, Error: err.Error(), TimestampISO: ts})
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusError, Error: err.Error(), TimestampISO: ts})
	}
	defer resp.Body.Close()

	body, err := httpx.ReadBody(resp)
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusError, Error: err.Error(), TimestampISO: ts})
	}

	httpStatus := resp.StatusCode
	match := profileLinkPattern.FindStringSubmatch(body)
	profileURL := searchURL
	status := hunttype.StatusNotFound
	if match != nil {
		profileURL = baseURL + match[1]
		status = hunttype.StatusFound
	}

	return hunttype.NewProbeResult(hunttype.ResultParams{
		Provider:     p.Name(),
		Username:     identifier,
		URL:          profileURL,
		Status:       status,
		HTTPStatus:   &httpStatus,
		Evidence:     hunttype.ValueMap{"note": hunttype.NewValue("Found via user search")},
		TimestampISO: ts,
	})
}
