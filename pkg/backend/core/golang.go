package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mvxproject/mvxcore/pkg/backend"
	"github.com/mvxproject/mvxcore/pkg/config"
)

// GoBackend installs the Go toolchain from go.dev/dl.
type GoBackend struct {
	URLReplace func(string) string
}

func (g *GoBackend) Name() string { return "go" }

func (g *GoBackend) ListVersions(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://go.dev/dl/?mode=json&include=all", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch go release index: %w", err)
	}
	defer resp.Body.Close()

	var releases []struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, fmt.Errorf("decode go release index: %w", err)
	}

	versions := make([]string, 0, len(releases))
	for _, r := range releases {
		versions = append(versions, trimGoPrefix(r.Version))
	}
	return versions, nil
}

func trimGoPrefix(v string) string {
	if len(v) > 2 && v[:2] == "go" {
		return v[2:]
	}
	return v
}

func (g *GoBackend) Install(ctx context.Context, installDir, version string, spec config.ToolSpec) error {
	url := g.downloadURL(version)
	if g.URLReplace != nil {
		url = g.URLReplace(url)
	}

	archive, err := backend.Download(ctx, url, installDir, spec.Checksum)
	if err != nil {
		return err
	}
	defer os.Remove(archive)

	return backend.Extract(archive, installDir)
}

func (g *GoBackend) downloadURL(version string) string {
	arch := runtime.GOARCH
	osName := runtime.GOOS
	if osName == "windows" {
		return fmt.Sprintf("https://go.dev/dl/go%s.%s-%s.zip", version, osName, arch)
	}
	return fmt.Sprintf("https://go.dev/dl/go%s.%s-%s.tar.gz", version, osName, arch)
}

func (g *GoBackend) BinDir(installDir, version string) (string, error) {
	return filepath.Join(installDir, "go", "bin"), nil
}

func (g *GoBackend) Verify(ctx context.Context, installDir, version string) error {
	bin, err := g.BinDir(installDir, version)
	if err != nil {
		return err
	}
	exe := filepath.Join(bin, goBinaryName())
	if _, err := os.Stat(exe); err != nil {
		return fmt.Errorf("go binary not found at %s: %w", exe, err)
	}
	return nil
}

func goBinaryName() string {
	if runtime.GOOS == "windows" {
		return "go.exe"
	}
	return "go"
}
