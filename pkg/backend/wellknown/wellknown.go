// Package wellknown wires the shorthand tool-name prefixes
// (cargo:, npm:, pipx:) to generic package-manager-delegating backends,
// so a config file can write `tools.ripgrep = { version = "14.1.0",
// backend = "cargo:ripgrep" }` without mvxcore shipping a dedicated
// backend per crate/npm package. Each wrapped command shells out via
// os/exec with an inherited environment and working directory.
package wellknown

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mvxproject/mvxcore/pkg/backend"
	"github.com/mvxproject/mvxcore/pkg/config"
)

// delegatingBackend installs one package through a host package
// manager that must already be on PATH (cargo, npm, pipx), placing the
// result under installDir so it still participates in mvxcore's
// install-dir/shim lifecycle instead of polluting a global location.
type delegatingBackend struct {
	prefix  string
	pkgName string
}

func (d *delegatingBackend) Name() string { return d.prefix + ":" + d.pkgName }

func (d *delegatingBackend) ListVersions(ctx context.Context) ([]string, error) {
	return nil, fmt.Errorf("%s backend does not support listing versions; pin an exact version", d.prefix)
}

func (d *delegatingBackend) Install(ctx context.Context, installDir, version string, spec config.ToolSpec) error {
	switch d.prefix {
	case "cargo":
		return d.run(ctx, installDir, "cargo", "install", "--root", installDir,
			"--version", version, d.pkgName)
	case "npm":
		return d.run(ctx, installDir, "npm", "install", "--prefix", installDir,
			fmt.Sprintf("%s@%s", d.pkgName, version))
	case "pipx":
		return d.run(ctx, installDir, "pipx", "install", "--force",
			fmt.Sprintf("%s==%s", d.pkgName, version))
	default:
		return fmt.Errorf("unsupported wellknown prefix %q", d.prefix)
	}
}

func (d *delegatingBackend) run(ctx context.Context, workDir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workDir
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (d *delegatingBackend) BinDir(installDir, version string) (string, error) {
	switch d.prefix {
	case "cargo":
		return filepath.Join(installDir, "bin"), nil
	case "npm":
		return filepath.Join(installDir, "node_modules", ".bin"), nil
	case "pipx":
		return filepath.Join(installDir, "bin"), nil
	default:
		return installDir, nil
	}
}

func (d *delegatingBackend) Verify(ctx context.Context, installDir, version string) error {
	bin, err := d.BinDir(installDir, version)
	if err != nil {
		return err
	}
	if _, err := os.Stat(bin); err != nil {
		return fmt.Errorf("%s bin dir missing: %w", d.Name(), err)
	}
	return nil
}

// RegisterAll wires cargo:, npm:, and pipx: shorthand prefixes into reg.
func RegisterAll(reg *backend.Registry) {
	for _, prefix := range []string{"cargo", "npm", "pipx"} {
		p := prefix
		reg.RegisterWellKnown(p, func(pkgName string) backend.Backend {
			return &delegatingBackend{prefix: p, pkgName: pkgName}
		})
	}
}
