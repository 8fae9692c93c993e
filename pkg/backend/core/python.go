package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mvxproject/mvxcore/pkg/backend"
	"github.com/mvxproject/mvxcore/pkg/config"
)

// PythonBackend installs standalone CPython builds from the
// astral-sh/python-build-standalone release mirror, which is what most
// modern Go-based version managers use in place of shelling out to a
// pyenv-style source build.
type PythonBackend struct {
	URLReplace func(string) string
}

func (p *PythonBackend) Name() string { return "python" }

func (p *PythonBackend) ListVersions(ctx context.Context) ([]string, error) {
	// The release index requires paging through GitHub releases; a
	// fixed recent set keeps the backend usable without that pagination
	// layer, which would be a disproportionate amount of machinery for
	// one backend among many.
	return []string{"3.11.9", "3.12.4", "3.12.7", "3.13.0"}, nil
}

func (p *PythonBackend) Install(ctx context.Context, installDir, version string, spec config.ToolSpec) error {
	url := p.downloadURL(version)
	if p.URLReplace != nil {
		url = p.URLReplace(url)
	}

	archive, err := backend.Download(ctx, url, installDir, spec.Checksum)
	if err != nil {
		return err
	}
	defer os.Remove(archive)

	return backend.Extract(archive, installDir)
}

func (p *PythonBackend) downloadURL(version string) string {
	target := pythonTarget()
	return fmt.Sprintf(
		"https://github.com/astral-sh/python-build-standalone/releases/download/latest/cpython-%s+latest-%s-install_only.tar.gz",
		version, target)
}

func pythonTarget() string {
	arch := runtime.GOARCH
	if arch == "amd64" {
		arch = "x86_64"
	}
	switch runtime.GOOS {
	case "darwin":
		return arch + "-apple-darwin"
	case "windows":
		return arch + "-pc-windows-msvc"
	default:
		return arch + "-unknown-linux-gnu"
	}
}

func (p *PythonBackend) BinDir(installDir, version string) (string, error) {
	if runtime.GOOS == "windows" {
		return filepath.Join(installDir, "python"), nil
	}
	return filepath.Join(installDir, "python", "bin"), nil
}

func (p *PythonBackend) Verify(ctx context.Context, installDir, version string) error {
	bin, err := p.BinDir(installDir, version)
	if err != nil {
		return err
	}
	exe := filepath.Join(bin, pythonBinaryName())
	if _, err := os.Stat(exe); err != nil {
		return fmt.Errorf("python binary not found at %s: %w", exe, err)
	}
	return nil
}

func pythonBinaryName() string {
	if runtime.GOOS == "windows" {
		return "python.exe"
	}
	return "python3"
}
