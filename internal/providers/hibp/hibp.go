// Package hibp implements the Have I Been Pwned breach and paste lookup
// probe. It requires an API key configured as "hibp_api_key".
package hibp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/provider"
	"github.com/afterpacket/huntcore/internal/providers/httpx"
)

const apiKeyName = "hibp_api_key"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// baseURL is overridden in tests to point at a local server.
var baseURL = "https://haveibeenpwned.com"

// Provider is the HIBP probe.
type Provider struct {
	provider.Base
	apiKey string
}

// New builds the HIBP probe with the given API key (may be empty, in
// which case every Check is skipped as UNKNOWN).
func New(apiKey string) Provider {
	return Provider{
		Base:   provider.Base{NameValue: "hibp", TimeoutSecValue: 15, UAProfileValue: "desktop_chrome"},
		apiKey: apiKey,
	}
}

// BuildURL renders the breach-lookup URL for identifier (an email).
func (Provider) BuildURL(identifier string) string {
	return baseURL + "/api/v3/breachedaccount/" + identifier
}

type breachRecord struct {
	Name string `json:"Name"`
}

// Check performs the breach and paste lookups in parallel and merges the
// two outcomes into one verdict.
func (p Provider) Check(ctx context.Context, identifier string, client *http.Client, headers map[string]string) hunttype.ProbeResult {
	ts := time.Now().UTC().Format(time.RFC3339)
	url := p.BuildURL(identifier)

	if p.apiKey == "" {
		return hunttype.NewProbeResult(hunttype.ResultParams{
			Provider: p.Name(), Username: identifier, URL: url, Status: hunttype.StatusUnknown,
			Error: fmt.Sprintf("Skipped: HIBP API key not set in Settings (%s).", apiKeyName), TimestampISO: ts,
		})
	}
	if strings.Contains(identifier, "*") {
		return hunttype.NewProbeResult(hunttype.ResultParams{
			Provider: p.Name(), Username: identifier, URL: url, Status: hunttype.StatusError,
			Error: "HIBP does not support wildcard searches.", TimestampISO: ts,
		})
	}
	if !emailPattern.MatchString(identifier) {
		return hunttype.NewProbeResult(hunttype.ResultParams{
			Provider: p.Name(), Username: identifier, URL: url, Status: hunttype.StatusNotFound,
			Error: "Invalid format: HIBP requires an email address.", TimestampISO: ts,
		})
	}

	hibpHeaders := make(map[string]string, len(headers)+2)
	for k, v := range headers {
		hibpHeaders[k] = v
	}
	hibpHeaders["hibp-api-key"] = p.apiKey
	hibpHeaders["User-Agent"] = "Social-Hunt"

	start := time.Now()
	var breachStatus, pasteStatus int
	var breachBody, pasteBody string
	var breachErr, pasteErr error
	done := make(chan struct{}, 2)
	go func() {
		breachStatus, breachBody, breachErr = get(ctx, client, baseURL+"/api/v3/breachedaccount/"+identifier, hibpHeaders)
		done <- struct{}{}
	}()
	go func() {
		pasteStatus, pasteBody, pasteErr = get(ctx, client, baseURL+"/api/v3/pasteaccount/"+identifier, hibpHeaders)
		done <- struct{}{}
	}()
	<-done
	<-done
	elapsed := time.Since(start).Milliseconds()

	if breachErr != nil && pasteErr != nil {
		return hunttype.NewProbeResult(hunttype.ResultParams{
			Provider: p.Name(), Username: identifier, URL: url, Status: hunttype.StatusError,
			Error: breachErr.Error(), ElapsedMs: elapsed, TimestampISO: ts,
		})
	}

	profile := hunttype.ValueMap{}
	evidence := hunttype.ValueMap{}

	if breachErr == nil {
		switch {
		case breachStatus == http.StatusOK:
			var breaches []breachRecord
			if err := json.Unmarshal([]byte(breachBody), &breaches); err == nil {
				names := make([]any, len(breaches))
				for i, b := range breaches {
					names[i] = b.Name
				}
				profile["breach_count"] = hunttype.NewValue(len(breaches))
				profile["breaches"] = hunttype.List(names...)
				evidence["breaches_found"] = hunttype.NewValue(true)
			}
		case breachStatus == http.StatusTooManyRequests:
			profile["breach_error"] = hunttype.NewValue("Rate limited")
		case breachStatus != http.StatusNotFound:
			profile["breach_error"] = hunttype.NewValue(fmt.Sprintf("Unexpected status: %d", breachStatus))
		}
	}
	if pasteErr == nil {
		switch {
		case pasteStatus == http.StatusOK:
			var pastes []json.RawMessage
			if err := json.Unmarshal([]byte(pasteBody), &pastes); err == nil {
				profile["paste_count"] = hunttype.NewValue(len(pastes))
				evidence["pastes_found"] = hunttype.NewValue(true)
			}
		case pasteStatus == http.StatusTooManyRequests:
			profile["paste_error"] = hunttype.NewValue("Rate limited")
		case pasteStatus != http.StatusNotFound:
			profile["paste_error"] = hunttype.NewValue(fmt.Sprintf("Unexpected status: %d", pasteStatus))
		}
	}

	breachesFound, _ := evidence["breaches_found"].Raw().(bool)
	pastesFound, _ := evidence["pastes_found"].Raw().(bool)

	var status hunttype.Status
	var errMsg string
	switch {
	case breachesFound || pastesFound:
		status = hunttype.StatusFound
	case breachStatus == http.StatusTooManyRequests || pasteStatus == http.StatusTooManyRequests:
		status = hunttype.StatusBlocked
		errMsg = "HIBP API Rate Limit Exceeded (429)."
	case breachStatus == http.StatusNotFound && pasteStatus == http.StatusNotFound:
		status = hunttype.StatusNotFound
	case breachStatus >= 500 || pasteStatus >= 500:
		status = hunttype.StatusError
		errMsg = fmt.Sprintf("HIBP API Error (Breach: %d, Paste: %d)", breachStatus, pasteStatus)
	default:
		status = hunttype.StatusUnknown
	}

	var httpStatus *int
	if breachErr == nil {
		httpStatus = &breachStatus
	}

	return hunttype.NewProbeResult(hunttype.ResultParams{
		Provider:     p.Name(),
		Username:     identifier,
		URL:          url,
		Status:       status,
		HTTPStatus:   httpStatus,
		ElapsedMs:    elapsed,
		Evidence:     evidence,
		Profile:      profile,
		Error:        errMsg,
		TimestampISO: ts,
	})
}

func get(ctx context.Context, client *http.Client, url string, headers map[string]string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	body, err := httpx.ReadBody(resp)
	if err != nil {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, body, nil
}
