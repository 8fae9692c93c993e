package shim

import (
	"os"
	"path/filepath"
)

// Dispatch rebinds argv[0] to its basename and returns the argv mvx's
// main should re-exec itself with: `x -- <binary-name> <original args...>`.
// The caller (main.go) still does the actual exec; Dispatch only
// computes the argument list so this logic stays unit-testable
// without forking a process.
func Dispatch(argv []string) []string {
	if len(argv) == 0 {
		return []string{"x", "--"}
	}
	name := filepath.Base(argv[0])
	out := make([]string, 0, len(argv)+2)
	out = append(out, "x", "--", name)
	out = append(out, argv[1:]...)
	return out
}

// InvokedAsShim reports whether the running binary was invoked through
// a shim copy rather than as `mvx` itself, by checking whether its own
// basename differs from the canonical binary name.
func InvokedAsShim(canonicalName string) bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	return filepath.Base(exe) != canonicalName
}
