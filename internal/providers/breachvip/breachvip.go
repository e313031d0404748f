// Package breachvip implements the BreachVIP multi-field breach search
// probe. It requires no API key, but issues its POST through a private
// client rather than the engine's ambient one, matching the upstream
// service's own proxy-distrust posture.
package breachvip

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/provider"
	"github.com/afterpacket/huntcore/internal/providers/httpx"
)

// searchURL is overridden in tests to point at a local server.
var searchURL = "https://breach.vip/api/search"

// Provider is the breachvip probe.
type Provider struct {
	provider.Base
}

// New builds the breachvip probe.
func New() Provider {
	return Provider{Base: provider.Base{NameValue: "breachvip", TimeoutSecValue: 15, UAProfileValue: "desktop_chrome"}}
}

// BuildURL always returns the fixed search endpoint: BreachVIP has no
// per-identifier URL.
func (Provider) BuildURL(string) string { return searchURL }

func searchFields(term string) []string {
	fields := []string{"username", "email", "name"}
	switch {
	case strings.Contains(term, "@") && strings.Contains(term, "."):
		fields = []string{"email", "username", "name"}
	case strings.Contains(term, ".") && !strings.Contains(term, "@"):
		fields = append(fields, "domain")
	}

	clean := strings.NewReplacer("+", "", "-", "", " ", "", "(", "", ")", "").Replace(term)
	if isAllDigits(clean) && len(clean) >= 7 && len(clean) <= 15 {
		fields = append(fields, "phone")
	}
	if isAllDigits(term) && len(term) >= 17 && len(term) <= 20 {
		fields = append(fields, "discordid")
	}
	if len(term) == 36 && strings.Contains(term, "-") {
		fields = append(fields, "uuid")
	}
	if isDottedQuad(term) {
		fields = append(fields, "ip")
	}
	fields = append(fields, "password")
	return dedupe(fields, 10)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isDottedQuad(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}

func dedupe(items []string, limit int) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
		if len(out) >= limit {
			break
		}
	}
	return out
}

type searchRequest struct {
	Term         string   `json:"term"`
	Fields       []string `json:"fields"`
	Categories   []string `json:"categories"`
	Wildcard     bool     `json:"wildcard"`
	CaseSensitive bool    `json:"case_sensitive"`
}

// Check issues the search and normalises BreachVIP's per-status-code
// response semantics into the taxonomy.
func (p Provider) Check(ctx context.Context, identifier string, _ *http.Client, headers map[string]string) hunttype.ProbeResult {
	ts := time.Now().UTC().Format(time.RFC3339)
	start := time.Now()
	term := strings.TrimSpace(identifier)
	evidence := hunttype.ValueMap{"breachvip": hunttype.NewValue(true)}

	if term == "" {
		return hunttype.NewProbeResult(hunttype.ResultParams{
			Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusError,
			Evidence: evidence, Error: "empty input", TimestampISO: ts,
		})
	}

	fields := searchFields(term)
	reqBody, _ := json.Marshal(searchRequest{Term: term, Fields: fields, Categories: []string{}, Wildcard: strings.Contains(term, "*")})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, searchURL, bytes.NewReader(reqBody))
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusError, Evidence: evidence, Error: err.Error(), TimestampISO: ts})
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://breach.vip")
	req.Header.Set("Referer", "https://breach.vip/")

	client := httpx.PrivateClient(time.Duration(p.TimeoutSec()) * time.Second)
	resp, err := client.Do(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusError, ElapsedMs: elapsed, Evidence: evidence, Error: err.Error(), TimestampISO: ts})
	}
	defer resp.Body.Close()

	httpStatus := resp.StatusCode
	profile := hunttype.ValueMap{
		"account":         hunttype.NewValue(term),
		"fields_searched": hunttype.List(toAny(fields)...),
	}

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := httpx.ReadBody(resp)
		if err != nil {
			return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusError, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Evidence: evidence, Error: err.Error(), TimestampISO: ts})
		}
		records := extractRecords(body)
		if len(records) == 0 {
			return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusNotFound, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Evidence: evidence, Profile: profile, TimestampISO: ts})
		}
		annotateFound(profile, records)
		return hunttype.NewProbeResult(hunttype.ResultParams{Provider: p.Name(), Username: identifier, URL: searchURL, Status: hunttype.StatusFound, HTTPStatus: &httpStatus, ElapsedMs: elapsed, Evidence: evidence, Profile: profile, TimestampISO: ts})
	case http.StatusBadRequest:
		return errResult(p.Name(), identifier, httpStatus, elapsed, evidence, profile, ts, hunttype.StatusError, "Bad request - check search parameters")
	case http.StatusForbidden:
		return errResult(p.Name(), identifier, httpStatus, elapsed, evidence, profile, ts, hunttype.StatusBlocked, "Access Denied (Cloudflare). Your server IP might be flagged. Try searching manually at breach.vip.")
	case http.StatusMethodNotAllowed:
		return errResult(p.Name(), identifier, httpStatus, elapsed, evidence, profile, ts, hunttype.StatusError, "Method not allowed")
	case http.StatusTooManyRequests:
		return errResult(p.Name(), identifier, httpStatus, elapsed, evidence, profile, ts, hunttype.StatusBlocked, "Rate limited (15 requests/minute) - wait 1 minute")
	case http.StatusServiceUnavailable:
		return errResult(p.Name(), identifier, httpStatus, elapsed, evidence, profile, ts, hunttype.StatusBlocked, "Service unavailable (503) - breach.vip may be down or blocking requests")
	case http.StatusInternalServerError:
		return errResult(p.Name(), identifier, httpStatus, elapsed, evidence, profile, ts, hunttype.StatusError, "Internal server error")
	default:
		return errResult(p.Name(), identifier, httpStatus, elapsed, evidence, profile, ts, hunttype.StatusUnknown, "Unexpected response")
	}
}

func errResult(name, identifier string, httpStatus int, elapsed int64, evidence, profile hunttype.ValueMap, ts string, status hunttype.Status, errMsg string) hunttype.ProbeResult {
	return hunttype.NewProbeResult(hunttype.ResultParams{
		Provider: name, Username: identifier, URL: searchURL, Status: status,
		HTTPStatus: &httpStatus, ElapsedMs: elapsed, Evidence: evidence, Profile: profile,
		Error: errMsg, TimestampISO: ts,
	})
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func extractRecords(body string) []map[string]any {
	var raw any
	if body == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil
	}
	var data []map[string]any
	switch t := raw.(type) {
	case map[string]any:
		if list, ok := asRecordList(t["results"]); ok {
			data = list
		} else if list, ok := asRecordList(t["data"]); ok {
			data = list
		} else {
			data = []map[string]any{t}
		}
	case []any:
		for _, v := range t {
			if m, ok := v.(map[string]any); ok {
				data = append(data, m)
			}
		}
	}
	if len(data) == 1 {
		if list, ok := asRecordList(data[0]["results"]); ok {
			data = list
		} else if list, ok := asRecordList(data[0]["data"]); ok {
			data = list
		}
	}
	return data
}

func asRecordList(v any) ([]map[string]any, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, true
}

var sourceFieldNames = map[string]struct{}{"source": {}, "breach": {}, "database": {}, "origin": {}}
var excludedDataTypeFields = map[string]struct{}{"_id": {}, "id": {}, "index": {}, "source": {}, "breach": {}, "database": {}, "origin": {}}

func annotateFound(profile hunttype.ValueMap, records []map[string]any) {
	profile["result_count"] = hunttype.NewValue(len(records))

	sources := map[string]struct{}{}
	for _, rec := range records {
		for field := range sourceFieldNames {
			if v, ok := rec[field]; ok && v != nil {
				sources[toDisplayString(v)] = struct{}{}
			}
		}
	}
	if len(sources) > 0 {
		names := make([]any, 0, len(sources))
		for s := range sources {
			names = append(names, s)
		}
		profile["breach_sources"] = hunttype.List(names...)
	}

	display := records
	if len(display) > 100 {
		display = display[:100]
	}
	rawValues := make([]hunttype.Value, len(display))
	for i, rec := range display {
		rawValues[i] = hunttype.Map(rec)
	}
	profile["raw_results"] = hunttype.NewValue(rawValues)

	dataTypes := map[string]int{}
	for _, rec := range records {
		for key, val := range rec {
			if _, excluded := excludedDataTypeFields[key]; excluded {
				continue
			}
			if val == nil {
				continue
			}
			dataTypes[key]++
		}
	}
	if len(dataTypes) > 0 {
		m := make(map[string]any, len(dataTypes))
		for k, v := range dataTypes {
			m[k] = v
		}
		profile["data_types"] = hunttype.Map(m)
	}

	if len(records) >= 10000 {
		profile["note"] = hunttype.NewValue("Result limit reached (10,000+)")
	}
}

func toDisplayString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return strings.TrimSpace(jsonCompact(v))
}

func jsonCompact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
