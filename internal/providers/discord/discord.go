// Package discord implements a link-generation and format-validation
// probe: Discord has no public profile pages, so existence cannot be
// verified over HTTP.
package discord

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/provider"
)

var (
	idPattern     = regexp.MustCompile(`^\d{17,20}$`)
	invitePattern = regexp.MustCompile(`^[a-zA-Z0-9]{2,10}$`)
)

// Provider is the discord probe.
type Provider struct {
	provider.Base
}

// New builds the discord probe.
func New() Provider {
	return Provider{Base: provider.Base{NameValue: "discord", TimeoutSecValue: 10, UAProfileValue: "desktop_chrome"}}
}

// BuildURL renders an invite link, a numeric-ID profile link, or a vanity
// profile link, in that preference order.
func (Provider) BuildURL(identifier string) string {
	clean := strings.TrimSpace(identifier)
	if invitePattern.MatchString(clean) && !idPattern.MatchString(clean) {
		return "https://discord.gg/" + clean
	}
	return "https://discord.com/users/" + clean
}

// Check never performs I/O: Discord profiles are not publicly
// distinguishable by response shape, so this probe only validates format
// and generates the corresponding link.
func (p Provider) Check(_ context.Context, identifier string, _ *http.Client, _ map[string]string) hunttype.ProbeResult {
	clean := strings.TrimSpace(identifier)
	isID := idPattern.MatchString(clean)
	isInvite := !isID && invitePattern.MatchString(clean)

	status := hunttype.StatusUnknown
	errMsg := "Verification not possible. Discord profiles are not public."
	kind := "Unknown"
	switch {
	case isID:
		kind = "User ID"
	case isInvite:
		kind = "Invite"
	default:
		status = hunttype.StatusNotFound
		errMsg = "Invalid Discord ID or invite code format."
	}

	return hunttype.NewProbeResult(hunttype.ResultParams{
		Provider: p.Name(),
		Username: identifier,
		URL:      p.BuildURL(identifier),
		Status:   status,
		Evidence: hunttype.ValueMap{
			"note": hunttype.NewValue("Link generation only."),
			"type": hunttype.NewValue(kind),
		},
		Error:        errMsg,
		TimestampISO: time.Now().UTC().Format(time.RFC3339),
	})
}
