// Package core holds the built-in backends mvxcore ships with, each
// implementing backend.Backend with an explicit installDir argument
// and context.Context so installs can be cancelled and cached outside
// any single owning manager.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mvxproject/mvxcore/pkg/backend"
	"github.com/mvxproject/mvxcore/pkg/config"
)

// NodeBackend installs Node.js from the official nodejs.org dist
// server.
type NodeBackend struct {
	URLReplace func(string) string
}

func (n *NodeBackend) Name() string { return "node" }

func (n *NodeBackend) ListVersions(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://nodejs.org/dist/index.json", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch node version index: %w", err)
	}
	defer resp.Body.Close()

	var entries []struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode node version index: %w", err)
	}

	versions := make([]string, 0, len(entries))
	for _, e := range entries {
		versions = append(versions, strings.TrimPrefix(e.Version, "v"))
	}
	return versions, nil
}

func (n *NodeBackend) Install(ctx context.Context, installDir, version string, spec config.ToolSpec) error {
	url := n.downloadURL(version)
	if n.URLReplace != nil {
		url = n.URLReplace(url)
	}

	archive, err := backend.Download(ctx, url, installDir, spec.Checksum)
	if err != nil {
		return err
	}
	defer os.Remove(archive)

	return backend.Extract(archive, installDir)
}

func (n *NodeBackend) downloadURL(version string) string {
	platform := nodePlatform()
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("https://nodejs.org/dist/v%[1]s/node-v%[1]s-%[2]s.zip", version, platform)
	}
	return fmt.Sprintf("https://nodejs.org/dist/v%[1]s/node-v%[1]s-%[2]s.tar.gz", version, platform)
}

func nodePlatform() string {
	arch := "x64"
	if runtime.GOARCH == "arm64" {
		arch = "arm64"
	}
	switch runtime.GOOS {
	case "windows":
		return "win-" + arch
	case "darwin":
		return "darwin-" + arch
	default:
		return "linux-" + arch
	}
}

func (n *NodeBackend) BinDir(installDir, version string) (string, error) {
	home, err := n.unpackedRoot(installDir)
	if err != nil {
		return "", err
	}
	bin := filepath.Join(home, "bin")
	if info, err := os.Stat(bin); err == nil && info.IsDir() {
		return bin, nil
	}
	return home, nil
}

func (n *NodeBackend) unpackedRoot(installDir string) (string, error) {
	entries, err := os.ReadDir(installDir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "node-") {
			return filepath.Join(installDir, e.Name()), nil
		}
	}
	return installDir, nil
}

func (n *NodeBackend) Verify(ctx context.Context, installDir, version string) error {
	bin, err := n.BinDir(installDir, version)
	if err != nil {
		return err
	}
	exe := filepath.Join(bin, nodeBinaryName())
	if _, err := os.Stat(exe); err != nil {
		return fmt.Errorf("node binary not found at %s: %w", exe, err)
	}
	return nil
}

func nodeBinaryName() string {
	if runtime.GOOS == "windows" {
		return "node.exe"
	}
	return "node"
}
