// Package snusbase implements the Snusbase multi-database breach search
// probe. It requires an API key configured as "snusbase_api_key".
package snusbase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/provider"
	"github.com/afterpacket/huntcore/internal/providers/httpx"
)

const apiKeyName = "snusbase_api_key"

// searchURL is overridden in tests to point at a local server.
var searchURL = "https://api.snusbase.com/data/search"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Provider is the snusbase probe.
type Provider struct {
	provider.Base
	apiKey string
}

// New builds the snusbase probe with the given API key (may be empty).
func New(apiKey string) Provider {
	return Provider{
		Base:   provider.Base{NameValue: "snusbase", TimeoutSecValue: 20, UAProfileValue: "desktop_chrome"},
		apiKey: apiKey,
	}
}

// BuildURL always returns the fixed search endpoint: Snusbase has no
// per-identifier URL.
func (Provider) BuildURL(string) string { return searchURL }

func searchTypes(term string) []string {
	if emailPattern.MatchString(term) {
		return []string{"email", "username"}
	}
	return []string{"username", "lastip"}
}

type searchRequest struct {
	Terms   []string `json:"terms"`
	Types   []string `json:"types"`
	Wildcard bool    `json:"wildcard"`
}

type searchResponse struct {
	Took    float64                     `json:"took"`
	Size    int                         `json:"size"`
	Results map[string][]map[string]any `json:"results"`
}

// Check posts the search request and flattens the per-database result
// sets, tagging each record with the database it came from.
func (p Provider) Check(ctx context.Context, identifier string, _ *http.Client, headers map[string]string) hunttype.ProbeResult {
	ts := time.Now().UTC().Format(time.RFC3339)

	if p.apiKey == "" {
		return hunttype.NewProbeResult(hunttype.ResultParams{
			Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusUnknown,
			Error: fmt.Sprintf("Skipped: Snusbase API key not set in Settings (%s).", apiKeyName), TimestampISO: ts,
		})
	}

	reqBody, _ := json.Marshal(searchRequest{Terms: []string{identifier}, Types: searchTypes(identifier)})
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, searchURL, bytes.NewReader(reqBody))
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusError, Error: err.Error(), TimestampISO: ts})
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Auth", p.apiKey)

	client := httpx.PrivateClient(time.Duration(p.TimeoutSec()) * time.Second)
	resp, err := client.Do(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusError, ElapsedMs: elapsed, Error: err.Error(), TimestampISO: ts})
	}
	defer resp.Body.Close()

	httpStatus := resp.StatusCode
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusError, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Error: "Invalid Snusbase API key.", TimestampISO: ts})
	case http.StatusTooManyRequests:
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusBlocked, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Error: "Snusbase rate limit exceeded.", TimestampISO: ts})
	case http.StatusServiceUnavailable:
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusBlocked, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Error: "Snusbase service unavailable.", TimestampISO: ts})
	}

	body, err := httpx.ReadBody(resp)
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusError, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Error: err.Error(), TimestampISO: ts})
	}
	if resp.StatusCode != http.StatusOK {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusError, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Error: fmt.Sprintf("Unexpected status: %d", resp.StatusCode), TimestampISO: ts})
	}

	var parsed searchResponse
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusError, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Error: "Malformed Snusbase response.", TimestampISO: ts})
	}

	if parsed.Size == 0 || len(parsed.Results) == 0 {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusNotFound, HTTPStatus: &httpStatus, ElapsedMs: elapsed, TimestampISO: ts})
	}

	dbNames := make([]any, 0, len(parsed.Results))
	flattened := make([]map[string]any, 0, parsed.Size)
	for db, records := range parsed.Results {
		dbNames = append(dbNames, db)
		for _, rec := range records {
			tagged := make(map[string]any, len(rec)+1)
			for k, v := range rec {
				tagged[k] = v
			}
			tagged["_db"] = db
			flattened = append(flattened, tagged)
		}
	}

	display := flattened
	if len(display) > 100 {
		display = display[:100]
	}
	rawValues := make([]hunttype.Value, len(display))
	for i, rec := range display {
		rawValues[i] = hunttype.Map(rec)
	}

	profile := hunttype.ValueMap{
		"result_count":   hunttype.NewValue(parsed.Size),
		"databases":      hunttype.List(dbNames...),
		"raw_results":    hunttype.NewValue(rawValues),
	}

	return hunttype.NewProbeResult(hunttype.ResultParams{
		Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusFound,
		HTTPStatus: &httpStatus, ElapsedMs: elapsed, Profile: profile,
		Evidence: hunttype.ValueMap{"breaches_found": hunttype.NewValue(true)}, TimestampISO: ts,
	})
}
