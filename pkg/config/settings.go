package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvxproject/mvxcore/pkg/paths"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Settings is the global, machine-wide configuration layer: settings.toml
// plus MVX_* environment overrides, bound through viper the way the
// teacher bound GlobalConfig but generalized to an arbitrary settings
// surface instead of a single URLReplacements map.
type Settings struct {
	URLReplacements   map[string]string `mapstructure:"url_replacements"`
	DefaultConcurrency int              `mapstructure:"default_concurrency"`
	Experimental      bool              `mapstructure:"experimental"`
}

// LoadSettings reads p.SettingsFile() (if present) layered under
// MVX_-prefixed environment variables via viper's AutomaticEnv.
func LoadSettings(p paths.Paths) (Settings, error) {
	v := viper.New()
	v.SetConfigFile(p.SettingsFile())
	v.SetConfigType("toml")
	v.SetEnvPrefix("MVX")
	v.AutomaticEnv()
	v.SetDefault("default_concurrency", 4)

	if _, err := os.Stat(p.SettingsFile()); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read settings.toml: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return s, nil
}

// ApplyURLReplacement rewrites url through the first matching
// prefix->replacement pair, used before every backend download so
// enterprise mirrors and artifact proxies can intercept upstream URLs
// without each backend knowing about them.
func (s Settings) ApplyURLReplacement(url string) string {
	for from, to := range s.URLReplacements {
		if strings.HasPrefix(url, from) {
			return to + strings.TrimPrefix(url, from)
		}
	}
	return url
}

// TrustStore tracks which project config paths the user has explicitly
// approved for loading, keyed by absolute path to a content hash so an
// edited file must be re-trusted.
type TrustStore struct {
	Entries map[string]string `yaml:"entries"`
}

// LoadTrustStore reads p.TrustFile(), returning an empty store if it
// does not exist yet.
func LoadTrustStore(p paths.Paths) (*TrustStore, error) {
	data, err := os.ReadFile(p.TrustFile())
	if err != nil {
		if os.IsNotExist(err) {
			return &TrustStore{Entries: make(map[string]string)}, nil
		}
		return nil, fmt.Errorf("read trust store: %w", err)
	}
	var ts TrustStore
	if err := yaml.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("parse trust store: %w", err)
	}
	if ts.Entries == nil {
		ts.Entries = make(map[string]string)
	}
	return &ts, nil
}

// Save persists the trust store back to p.TrustFile().
func (ts *TrustStore) Save(p paths.Paths) error {
	if err := os.MkdirAll(filepath.Dir(p.TrustFile()), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(ts)
	if err != nil {
		return fmt.Errorf("marshal trust store: %w", err)
	}
	return os.WriteFile(p.TrustFile(), data, 0o644)
}

// IsTrusted reports whether path's current content hash matches what
// was last trusted.
func (ts *TrustStore) IsTrusted(path, contentHash string) bool {
	h, ok := ts.Entries[path]
	return ok && h == contentHash
}

// Trust records path as trusted at its current content hash.
func (ts *TrustStore) Trust(path, contentHash string) {
	ts.Entries[path] = contentHash
}
