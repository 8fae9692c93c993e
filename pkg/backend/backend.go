// Package backend defines the pluggable installer contract every tool
// kind implements — core (built into mvxcore: node/go/java/python
// support), script-plugin (a git-cloned mvx-plugin repository), and
// wellknown shorthand (cargo:, npm:, pipx: prefixes resolved to a
// generic installer). Every method takes an explicit install directory
// and context rather than going through a package-level singleton.
package backend

import (
	"context"

	"github.com/mvxproject/mvxcore/pkg/config"
)

// Backend installs and locates one kind of tool.
type Backend interface {
	// Name is the backend identifier used in config (e.g. "node", "go",
	// "cargo").
	Name() string

	// ListVersions returns every installable version this backend
	// knows about, newest-unsorted — callers sort via pkg/resolve.
	ListVersions(ctx context.Context) ([]string, error)

	// Install downloads and unpacks version into installDir, which is
	// guaranteed to exist and be writable; the caller manages the
	// incomplete-marker lifecycle around this call.
	Install(ctx context.Context, installDir, version string, spec config.ToolSpec) error

	// BinDir returns the directory inside installDir that should be
	// prepended to PATH for this tool version.
	BinDir(installDir, version string) (string, error)

	// Verify runs a cheap sanity check (usually `--version`) against an
	// already-installed tool.
	Verify(ctx context.Context, installDir, version string) error
}

// ChecksumVerifier is implemented by backends that can check a
// downloaded artifact's checksum before extracting it.
type ChecksumVerifier interface {
	VerifyChecksum(data []byte, spec *config.ChecksumSpec) error
}
