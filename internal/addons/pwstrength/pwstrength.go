// Package pwstrength scores any password material a breach probe turned
// up, annotating each affected result with a weak/strong verdict.
package pwstrength

import (
	"context"
	"net/http"

	zxcvbn "github.com/ccojocar/zxcvbn-go"

	"github.com/afterpacket/huntcore/internal/hunttype"
	"github.com/afterpacket/huntcore/internal/ratelimit"
)

const weakScoreThreshold = 3

var passwordFieldNames = []string{"password", "pass", "passwd", "pwd"}

// Addon is the password-strength annotation addon.
type Addon struct{}

// New builds the pwstrength addon.
func New() Addon { return Addon{} }

// Name returns the addon's registry name.
func (Addon) Name() string { return "pwstrength" }

// Run scans every FOUND result's raw_results for password-shaped fields
// and adds a password_strength annotation summarising the weakest score
// found.
func (Addon) Run(_ context.Context, _ string, results *[]hunttype.ProbeResult, _ *http.Client, _ *ratelimit.HostGate) error {
	for i := range *results {
		res := &(*results)[i]
		if res.Status != hunttype.StatusFound || res.Profile == nil {
			continue
		}
		rawResults, ok := res.Profile["raw_results"]
		if !ok {
			continue
		}
		records, ok := rawResults.AsList()
		if !ok {
			continue
		}

		weakest := -1
		found := 0
		for _, record := range records {
			fields, ok := record.AsMap()
			if !ok {
				continue
			}
			for _, name := range passwordFieldNames {
				v, ok := fields[name]
				if !ok {
					continue
				}
				password, ok := v.AsString()
				if !ok || password == "" {
					continue
				}
				found++
				score := zxcvbn.PasswordStrength(password, nil).Score
				if weakest == -1 || score < weakest {
					weakest = score
				}
			}
		}

		if found == 0 {
			continue
		}
		res.Profile["password_strength"] = hunttype.Map(map[string]any{
			"passwords_scored": found,
			"weakest_score":    weakest,
			"weakest_is_weak":  weakest < weakScoreThreshold,
		})
	}
	return nil
}
