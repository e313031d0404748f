// Package goyimtv implements a channel-search probe against a site that
// fronts soft anti-bot protection with a one-time retry policy.
package goyimtv

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/provider"
	"github.com/afterpacket/huntcore/internal/providers/httpx"
)

var notFoundIndicators = []string{"no results found", "nothing found", "search returned no results"}

// baseURL is overridden in tests to point at a local server.
var baseURL = "https://goyimtv.st"

// Provider is the goyimtv probe.
type Provider struct {
	provider.Base
}

// New builds the goyimtv probe.
func New() Provider {
	return Provider{Base: provider.Base{NameValue: "goyimtv", TimeoutSecValue: 25, UAProfileValue: "desktop_chrome"}}
}

// BuildURL renders the channel search URL for identifier.
func (Provider) BuildURL(identifier string) string {
	return baseURL + "/search?tf=6&q=" + url.QueryEscape(identifier)
}

// Check searches for identifier and, on a soft block (403/503/429),
// retries once after a short pause before giving up.
func (p Provider) Check(ctx context.Context, identifier string, client *http.Client, headers map[string]string) hunttype.ProbeResult {
	searchURL := p.BuildURL(identifier)
	ts := time.Now().UTC().Format(time.RFC3339)
	start := time.Now()

	browserHeaders := make(map[string]string, len(headers)+6)
	for k, v := range headers {
		browserHeaders[k] = v
	}
	browserHeaders["Accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	browserHeaders["Accept-Language"] = "en-US,en;q=0.5"
	browserHeaders["Referer"] = "https://goyimtv.st/"
	browserHeaders["Upgrade-Insecure-Requests"] = "1"
	browserHeaders["Sec-Fetch-Dest"] = "document"
	browserHeaders["Sec-Fetch-Mode"] = "navigate"
	browserHeaders["Sec-Fetch-Site"] = "same-origin"
	browserHeaders["Sec-Fetch-User"] = "?1"

	resp, body, err := get(ctx, client, searchURL, browserHeaders)
	if err == nil && isSoftBlock(resp.StatusCode) {
		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
		}
		resp, body, err = get(ctx, client, searchURL, browserHeaders)
	}
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{
			Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusError,
			ElapsedMs: elapsed, Error: err.Error(), TimestampISO: ts,
		})
	}
	defer resp.Body.Close()

	httpStatus := resp.StatusCode
	lower := strings.ToLower(body)
	doc, parseErr := goquery.NewDocumentFromReader(strings.NewReader(body))

	var pageTitle string
	if parseErr == nil {
		pageTitle = strings.TrimSpace(doc.Find("title").First().Text())
	}

	status := hunttype.StatusUnknown
	profile := hunttype.ValueMap{}

	switch {
	case containsAny(lower, notFoundIndicators):
		status = hunttype.StatusNotFound
	case parseErr != nil:
		status = hunttype.StatusUnknown
	default:
		found, linkCount := matchesChannel(doc, identifier)
		finalPath := ""
		if resp.Request != nil && resp.Request.URL != nil {
			finalPath = resp.Request.URL.Path
		}
		switch {
		case found:
			status = hunttype.StatusFound
			if pageTitle != "" {
				profile["page_title"] = hunttype.NewValue(pageTitle)
			}
		case strings.Contains(lower, "welcome to goyimtv") && !strings.Contains(finalPath, "search"):
			status = hunttype.StatusNotFound
		case linkCount < 5:
			status = hunttype.StatusNotFound
		default:
			status = hunttype.StatusNotFound
		}
	}

	evidence := hunttype.ValueMap{"len": hunttype.NewValue(len(body))}
	if pageTitle != "" {
		evidence["title"] = hunttype.NewValue(pageTitle)
	}

	return hunttype.NewProbeResult(hunttype.ResultParams{
		Provider:     p.Name(),
		Username:     identifier,
		URL:          searchURL,
		Status:       status,
		HTTPStatus:   &httpStatus,
		ElapsedMs:    elapsed,
		Evidence:     evidence,
		Profile:      profile,
		TimestampISO: ts,
	})
}

func isSoftBlock(status int) bool {
	return status == http.StatusForbidden || status == http.StatusServiceUnavailable || status == http.StatusTooManyRequests
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func matchesChannel(doc *goquery.Document, identifier string) (found bool, linkCount int) {
	lowerID := strings.ToLower(identifier)
	channelHref := "/channel/" + lowerID
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		linkCount++
		href, _ := sel.Attr("href")
		hrefLower := strings.ToLower(href)
		linkText := strings.ToLower(strings.TrimSpace(sel.Text()))
		if strings.Contains(hrefLower, "/channel/") && linkText == lowerID {
			found = true
			return
		}
		if strings.Contains(hrefLower, channelHref) {
			found = true
		}
	})
	return found, linkCount
}

func get(ctx context.Context, client *http.Client, reqURL string, headers map[string]string) (*http.Response, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, "", err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	body, err := httpx.ReadBody(resp)
	if err != nil {
		resp.Body.Close()
		return nil, "", err
	}
	return resp, body, nil
}
