// Package shim maintains the shim farm: a directory of launcher
// executables, one per bin name advertised by any installed tool
// version, that re-exec the main mvx binary with `x -- <argv>`.
package shim

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// marker is written into the sidecar ".<name>.shim" file beside every
// shim this package creates (and into Windows script shims themselves);
// the sidecar's presence is what lets diff/Reshim tell "ours" apart
// from a foreign executable that happens to share a bin name.
const marker = "# mvx-shim-marker v1"

// Backend is the narrow surface Reshim needs from a tool backend.
type Backend interface {
	BinDir(installDir, version string) (string, error)
}

// BinLister is implemented by backends that expose more than one bin
// name per install (e.g. a JDK's bin/ has java, javac, jar, ...).
// Backends without it are assumed to expose exactly the executables
// found directly in BinDir.
type BinLister interface {
	ListBinPaths(installDir, version string) ([]string, error)
}

// InstalledVersion names one installed version of a tool, enough to
// locate its bin directory.
type InstalledVersion struct {
	Tool       string
	Version    string
	InstallDir string
	Backend    Backend
}

// Reshim walks every installed version, unions the bin names they
// advertise, diffs that set against what's currently in shimsDir, and
// creates/removes shims so the two match exactly.
func Reshim(ctx context.Context, shimsDir string, installed []InstalledVersion) error {
	required, err := requiredBinNames(installed)
	if err != nil {
		return err
	}

	missing, extra, err := diff(shimsDir, required)
	if err != nil {
		return err
	}

	mvxPath, err := mvxBinaryPath()
	if err != nil {
		return fmt.Errorf("locate mvx binary: %w", err)
	}

	if err := os.MkdirAll(shimsDir, 0o755); err != nil {
		return fmt.Errorf("create shims dir: %w", err)
	}

	for _, name := range missing {
		if err := createShim(shimsDir, name, mvxPath); err != nil {
			return fmt.Errorf("create shim %s: %w", name, err)
		}
	}
	for _, name := range extra {
		if err := os.Remove(filepath.Join(shimsDir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove stale shim %s: %w", name, err)
		}
	}

	return nil
}

// DiffOnly returns the same (missing, extra) pair Reshim would act on,
// without mutating the shims directory — the doctor diagnostic's view.
func DiffOnly(shimsDir string, installed []InstalledVersion) (missing, extra []string, err error) {
	required, err := requiredBinNames(installed)
	if err != nil {
		return nil, nil, err
	}
	return diff(shimsDir, required)
}

func requiredBinNames(installed []InstalledVersion) (map[string]bool, error) {
	names := make(map[string]bool)
	for _, iv := range installed {
		var binNames []string
		if lister, ok := iv.Backend.(BinLister); ok {
			paths, err := lister.ListBinPaths(iv.InstallDir, iv.Version)
			if err != nil {
				return nil, fmt.Errorf("list bin paths for %s %s: %w", iv.Tool, iv.Version, err)
			}
			for _, p := range paths {
				binNames = append(binNames, filepath.Base(p))
			}
		} else {
			dir, err := iv.Backend.BinDir(iv.InstallDir, iv.Version)
			if err != nil {
				return nil, fmt.Errorf("bin dir for %s %s: %w", iv.Tool, iv.Version, err)
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue // version not actually installed yet; skip rather than fail the whole reshim
			}
			for _, e := range entries {
				if e.Type().IsRegular() || e.Type()&os.ModeSymlink != 0 {
					binNames = append(binNames, e.Name())
				}
			}
		}
		for _, n := range binNames {
			names[n] = true
		}
	}
	return names, nil
}

func diff(shimsDir string, required map[string]bool) (missing, extra []string, err error) {
	existing, err := oursInDir(shimsDir)
	if err != nil {
		return nil, nil, err
	}

	for name := range required {
		if !existing[name] {
			missing = append(missing, name)
		}
	}
	for name := range existing {
		if !required[name] {
			extra = append(extra, name)
		}
	}
	return missing, extra, nil
}

// oursInDir returns the set of shim names in dir that carry this
// package's marker, ignoring anything else (a foreign executable a
// user dropped in the shims dir, e.g.).
func oursInDir(dir string) (map[string]bool, error) {
	result := make(map[string]bool)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read shims dir: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || isMarkerFile(name) {
			continue
		}
		if markerExists(dir, name) {
			result[name] = true
		}
	}
	return result, nil
}

func isMarkerFile(name string) bool {
	return len(name) > 0 && name[0] == '.' && filepath.Ext(name) == ".shim"
}

// markerExists reports whether name has an accompanying sidecar marker
// file — the uniform "is this shim ours" test across both the
// copied-binary POSIX shims and the script-based Windows shims.
func markerExists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, "."+name+".shim"))
	return err == nil
}

func createShim(shimsDir, name, mvxPath string) error {
	if runtime.GOOS == "windows" {
		if err := writeScriptShim(filepath.Join(shimsDir, name+".cmd"), mvxPath); err != nil {
			return err
		}
		return appendMarkerFile(shimsDir, name+".cmd")
	}

	target := filepath.Join(shimsDir, name)
	if err := copyExecutable(mvxPath, target); err != nil {
		return err
	}
	return appendMarkerFile(shimsDir, name)
}

// copyExecutable copies the mvx binary itself to target on POSIX,
// cheaper at dispatch time than a script wrapper since the copy's own
// argv[0] already tells pkg/shim/dispatch.go which bin name was
// invoked.
func copyExecutable(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// appendMarkerFile writes a sidecar marker next to a copied-binary
// shim, since the marker string can't be embedded in the binary copy
// itself without corrupting it.
func appendMarkerFile(shimsDir, name string) error {
	return os.WriteFile(filepath.Join(shimsDir, "."+name+".shim"), []byte(marker+"\n"), 0o644)
}

func writeScriptShim(target, mvxPath string) error {
	script := fmt.Sprintf("@echo off\r\n%s\r\n\"%s\" x -- %%*\r\n", marker, mvxPath)
	return os.WriteFile(target, []byte(script), 0o755)
}

func mvxBinaryPath() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("get executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exePath)
	if err != nil {
		return "", fmt.Errorf("resolve symlinks: %w", err)
	}
	return resolved, nil
}
