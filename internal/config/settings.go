package config

import (
	"encoding/json"
	"os"
)

// Settings is the persisted, read-only configuration loaded from the JSON
// file at EnvConfig.SettingsPath. It carries per-provider API keys and the
// set of addon names enabled by the operator.
type Settings struct {
	APIKeys       map[string]string `json:"api_keys"`
	EnabledAddons []string          `json:"enabled_addons"`
}

// LoadSettings reads and parses the settings file at path. A missing file
// is not an error: it returns an empty Settings so that probes requiring
// an API key fail individually (UNKNOWN, "Skipped: ...") rather than
// aborting the whole process.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{APIKeys: map[string]string{}}, nil
		}
		return nil, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.APIKeys == nil {
		s.APIKeys = map[string]string{}
	}
	return &s, nil
}

// APIKey returns the configured key for name and whether it is present and
// non-empty.
func (s *Settings) APIKey(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	key, ok := s.APIKeys[name]
	return key, ok && key != ""
}
