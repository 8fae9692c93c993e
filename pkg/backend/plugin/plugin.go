// Package plugin implements script-plugin backends: a tool whose
// install/list-versions/bin-dir logic lives in a small external git
// repository (an "mvx-plugin") rather than mvxcore's own binary,
// cloned with go-git instead of shelling out to a system git binary —
// grounded on gravitational-teleport's go.mod, which carries
// go-git/go-git/v5 as its pure-Go git client.
package plugin

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/mvxproject/mvxcore/pkg/backend"
	"github.com/mvxproject/mvxcore/pkg/config"
	"github.com/mvxproject/mvxcore/pkg/errs"
)

// Backend wraps a plugin repository checked out under pluginsDir. The
// plugin contract is three executable scripts at its root:
// list-versions, install <version> <dest>, bin-path <version> <dest>.
type Backend struct {
	name       string
	repoURL    string
	pluginsDir string
}

// New returns a plugin-backed Backend for name, checked out (by Sync)
// from repoURL into pluginsDir/name. New itself touches no files.
func New(name, repoURL, pluginsDir string) *Backend {
	return &Backend{name: name, repoURL: repoURL, pluginsDir: pluginsDir}
}

func (b *Backend) Name() string { return b.name }

func (b *Backend) checkoutDir() string {
	return filepath.Join(b.pluginsDir, b.name)
}

// Sync clones the plugin repository if absent, or fetches+fast-forwards
// it if already checked out. The `plugins install` and `plugins update`
// commands call it; no other operation does.
func (b *Backend) Sync(ctx context.Context) error {
	dir := b.checkoutDir()
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		repo, err := git.PlainOpen(dir)
		if err != nil {
			return fmt.Errorf("open plugin checkout %s: %w", dir, err)
		}
		wt, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("plugin worktree %s: %w", dir, err)
		}
		err = wt.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
		if err != nil && err != git.NoErrAlreadyUpToDate {
			return fmt.Errorf("update plugin %s: %w", b.name, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return &errs.IOError{Op: "mkdir", Path: filepath.Dir(dir), Err: err}
	}
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{URL: b.repoURL, Depth: 1})
	if err != nil {
		return &errs.BackendInstallError{Backend: b.name, Op: "clone", Err: err}
	}
	return nil
}

func (b *Backend) ListVersions(ctx context.Context) ([]string, error) {
	out, err := b.runScript(ctx, "list-versions")
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	versions := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			versions = append(versions, l)
		}
	}
	return versions, nil
}

func (b *Backend) Install(ctx context.Context, installDir, version string, spec config.ToolSpec) error {
	_, err := b.runScript(ctx, "install", version, installDir)
	return err
}

func (b *Backend) BinDir(installDir, version string) (string, error) {
	out, err := b.runScript(context.Background(), "bin-path", version, installDir)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (b *Backend) Verify(ctx context.Context, installDir, version string) error {
	bin, err := b.BinDir(installDir, version)
	if err != nil {
		return err
	}
	if _, err := os.Stat(bin); err != nil {
		return fmt.Errorf("plugin %s bin dir missing: %w", b.name, err)
	}
	return nil
}

func (b *Backend) runScript(ctx context.Context, script string, args ...string) (string, error) {
	path := filepath.Join(b.checkoutDir(), script)
	if _, err := os.Stat(path); err != nil {
		return "", &errs.PluginNotInstalledError{Backend: b.name}
	}
	cmd := exec.CommandContext(ctx, path, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", &errs.BackendInstallError{Backend: b.name, Op: script, Err: err}
	}
	return string(out), nil
}

var _ backend.Backend = (*Backend)(nil)
