package config

import (
	"path/filepath"
	"testing"

	"github.com/mvxproject/mvxcore/pkg/paths"
	"github.com/spf13/afero"
)

// testPaths returns a Paths rooted entirely under t.TempDir(), used by
// tests that need to pass a paths.Paths without touching the real
// filesystem's home directory.
func testPaths(t *testing.T) paths.Paths {
	t.Helper()
	base := t.TempDir()
	return paths.Paths{
		Fs:     afero.NewOsFs(),
		Root:   filepath.Join(base, "data"),
		Cache:  filepath.Join(base, "cache"),
		Config: filepath.Join(base, "config"),
		State:  filepath.Join(base, "state"),
	}
}
