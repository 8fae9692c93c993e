// Package paths centralizes every on-disk root mvxcore uses. A single
// Paths value is constructed once in main and threaded through the
// rest of the program as an explicit value — no hidden globals, so
// tests can point an entire run at a t.TempDir().
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

// Paths holds every root directory mvxcore reads or writes.
type Paths struct {
	// Fs backs all filesystem access so tests can substitute an
	// in-memory afero.Fs instead of touching the real disk.
	Fs afero.Fs

	Root   string // MVX_DATA_DIR — installs, plugin checkouts, shims
	Cache  string // MVX_CACHE_DIR — version listings, download cache
	Config string // MVX_CONFIG_DIR — global config.toml, trust store
	State  string // MVX_STATE_DIR — hook-env session diffs, shim manifest
}

func (p Paths) InstallsDir() string { return filepath.Join(p.Root, "installs") }
func (p Paths) PluginsDir() string  { return filepath.Join(p.Root, "plugins") }
func (p Paths) ShimsDir() string    { return filepath.Join(p.Root, "shims") }
func (p Paths) DownloadsDir() string { return filepath.Join(p.Cache, "downloads") }
func (p Paths) TrustFile() string   { return filepath.Join(p.Config, "trusted-configs.yaml") }
func (p Paths) SettingsFile() string { return filepath.Join(p.Config, "settings.toml") }
func (p Paths) ShimManifest() string { return filepath.Join(p.State, "shim-manifest.json") }

// Default builds Paths from MVX_* environment variables, falling back
// to platform conventions (os.UserHomeDir-based) and a single ~/.mvx
// directory, split into four independently overridable roots.
func Default() (Paths, error) {
	home, err := homeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve home directory: %w", err)
	}
	base := filepath.Join(home, ".mvx")

	p := Paths{
		Fs:     afero.NewOsFs(),
		Root:   envOr("MVX_DATA_DIR", base),
		Cache:  envOr("MVX_CACHE_DIR", filepath.Join(base, "cache")),
		Config: envOr("MVX_CONFIG_DIR", base),
		State:  envOr("MVX_STATE_DIR", filepath.Join(base, "state")),
	}
	return p, nil
}

// EnsureDirs creates every root directory mvxcore needs, up front.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.Root, p.Cache, p.Config, p.State, p.InstallsDir(), p.PluginsDir(), p.ShimsDir(), p.DownloadsDir()}
	for _, d := range dirs {
		if err := p.Fs.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func homeDir() (string, error) {
	if runtime.GOOS == "windows" {
		if h := os.Getenv("USERPROFILE"); h != "" {
			return h, nil
		}
		if h := os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH"); h != "" {
			return h, nil
		}
	}
	return os.UserHomeDir()
}
