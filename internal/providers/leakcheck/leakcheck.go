// Package leakcheck implements the LeakCheck.io breach lookup probe. It
// requires an API key configured as "leakcheck_api_key".
package leakcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/provider"
	"github.com/afterpacket/huntcore/internal/providers/httpx"
)

const apiKeyName = "leakcheck_api_key"

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// baseURL is overridden in tests to point at a local server.
var baseURL = "https://leakcheck.io"

// Provider is the leakcheck probe.
type Provider struct {
	provider.Base
	apiKey string
}

// New builds the leakcheck probe with the given API key (may be empty).
func New(apiKey string) Provider {
	return Provider{
		Base:   provider.Base{NameValue: "leakcheck", TimeoutSecValue: 15, UAProfileValue: "desktop_chrome"},
		apiKey: apiKey,
	}
}

func queryType(term string) string {
	switch {
	case emailPattern.MatchString(term):
		return "email"
	case phonePattern.MatchString(term):
		return "phone"
	default:
		return "auto"
	}
}

// BuildURL renders the v2 query endpoint for identifier.
func (Provider) BuildURL(identifier string) string {
	return baseURL + "/api/v2/query/" + url.PathEscape(identifier)
}

type queryResponse struct {
	Success bool             `json:"success"`
	Found   int              `json:"found"`
	Result  []map[string]any `json:"result"`
}

// Check queries LeakCheck for identifier and reports FOUND when matching
// records are returned.
func (p Provider) Check(ctx context.Context, identifier string, _ *http.Client, headers map[string]string) hunttype.ProbeResult {
	ts := time.Now().UTC().Format(time.RFC3339)
	reqURL := p.BuildURL(identifier) + "?type=" + queryType(identifier)

	if p.apiKey == "" {
		return hunttype.NewProbeResult(hunttype.ResultParams{
			Provider: p.Name(), Username: identifier, URL: reqURL, Status: hunttype.StatusUnknown,
			Error: fmt.Sprintf("Skipped: LeakCheck API key not set in Settings (%s).", apiKeyName), TimestampISO: ts,
		})
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: reqURL, Status: hunttype.StatusError, Error: err.Error(), TimestampISO: ts})
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("X-API-Key", p.apiKey)
	req.Header.Set("Accept", "application/json")

	client := httpx.PrivateClient(time.Duration(p.TimeoutSec()) * time.Second)
	resp, err := client.Do(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: reqURL, Status: hunttype.StatusError, ElapsedMs: elapsed, Error: err.Error(), TimestampISO: ts})
	}
	defer resp.Body.Close()

	httpStatus := resp.StatusCode
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: reqURL, Status: hunttype.StatusError, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Error: "Invalid LeakCheck API key.", TimestampISO: ts})
	case http.StatusTooManyRequests:
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: reqURL, Status: hunttype.StatusBlocked, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Error: "LeakCheck rate limit exceeded.", TimestampISO: ts})
	case http.StatusServiceUnavailable:
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: reqURL, Status: hunttype.StatusBlocked, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Error: "LeakCheck service unavailable.", TimestampISO: ts})
	}

	body, err := httpx.ReadBody(resp)
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: reqURL, Status: hunttype.StatusError, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Error: err.Error(), TimestampISO: ts})
	}

	if resp.StatusCode != http.StatusOK {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: reqURL, Status: hunttype.StatusError, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Error: fmt.Sprintf("Unexpected status: %d", resp.StatusCode), TimestampISO: ts})
	}

	var parsed queryResponse
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: reqURL, Status: hunttype.StatusError, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Error: "Malformed LeakCheck response.", TimestampISO: ts})
	}

	if !parsed.Success || parsed.Found == 0 {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: reqURL, Status: hunttype.StatusNotFound, HTTPStatus: &httpStatus, ElapsedMs: elapsed, TimestampISO: ts})
	}

	sources := map[string]struct{}{}
	for _, rec := range parsed.Result {
		if src, ok := rec["source"].(map[string]any); ok {
			if name, ok := src["name"].(string); ok && name != "" {
				sources[name] = struct{}{}
			}
		}
	}
	sourceNames := make([]any, 0, len(sources))
	for s := range sources {
		sourceNames = append(sourceNames, s)
	}

	display := parsed.Result
	if len(display) > 100 {
		display = display[:100]
	}
	rawValues := make([]hunttype.Value, len(display))
	for i, rec := range display {
		rawValues[i] = hunttype.Map(rec)
	}

	profile := hunttype.ValueMap{
		"result_count":   hunttype.NewValue(parsed.Found),
		"breach_sources": hunttype.List(sourceNames...),
		"raw_results":    hunttype.NewValue(rawValues),
	}

	return hunttype.NewProbeResult(hunttype.ResultParams{
		Provider: p.Name(), Username: identifier, URL: reqURL, Status: hunttype.StatusFound,
		HTTPStatus: &httpStatus, ElapsedMs: elapsed, Profile: profile,
		Evidence: hunttype.ValueMap{"breaches_found": hunttype.NewValue(true)}, TimestampISO: ts,
	})
}
