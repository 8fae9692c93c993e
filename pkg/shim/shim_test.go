package shim

import (
	"os"
	"path/filepath"
	"testing"
)

type fakeBinDirBackend struct{ dir string }

func (f *fakeBinDirBackend) BinDir(installDir, version string) (string, error) {
	return f.dir, nil
}

type fakeListerBackend struct{ paths []string }

func (f *fakeListerBackend) BinDir(installDir, version string) (string, error) { return "", nil }
func (f *fakeListerBackend) ListBinPaths(installDir, version string) ([]string, error) {
	return f.paths, nil
}

func mustWriteExecutable(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\necho hi\n"), 0o755); err != nil {
		t.Fatalf("write fake executable: %v", err)
	}
}

func TestRequiredBinNamesFromBinDirListing(t *testing.T) {
	dir := t.TempDir()
	mustWriteExecutable(t, filepath.Join(dir, "node"))
	mustWriteExecutable(t, filepath.Join(dir, "npm"))

	installed := []InstalledVersion{
		{Tool: "node", Version: "20.11.0", InstallDir: dir, Backend: &fakeBinDirBackend{dir: dir}},
	}
	names, err := requiredBinNames(installed)
	if err != nil {
		t.Fatalf("requiredBinNames: %v", err)
	}
	if !names["node"] || !names["npm"] {
		t.Fatalf("got %v", names)
	}
}

func TestRequiredBinNamesFromListerBackend(t *testing.T) {
	installed := []InstalledVersion{
		{Tool: "java", Version: "21", Backend: &fakeListerBackend{paths: []string{"/x/bin/java", "/x/bin/javac"}}},
	}
	names, err := requiredBinNames(installed)
	if err != nil {
		t.Fatalf("requiredBinNames: %v", err)
	}
	if !names["java"] || !names["javac"] {
		t.Fatalf("got %v", names)
	}
}

func TestDiffOnlyReportsMissingAndExtra(t *testing.T) {
	shims := t.TempDir()
	// pre-existing "ours" shim for a name no longer required.
	mustWriteExecutable(t, filepath.Join(shims, "old-tool"))
	if err := appendMarkerFile(shims, "old-tool"); err != nil {
		t.Fatalf("appendMarkerFile: %v", err)
	}

	installed := []InstalledVersion{
		{Tool: "java", Backend: &fakeListerBackend{paths: []string{"/x/bin/java"}}},
	}

	missing, extra, err := DiffOnly(shims, installed)
	if err != nil {
		t.Fatalf("DiffOnly: %v", err)
	}
	if len(missing) != 1 || missing[0] != "java" {
		t.Fatalf("expected missing=[java], got %v", missing)
	}
	if len(extra) != 1 || extra[0] != "old-tool" {
		t.Fatalf("expected extra=[old-tool], got %v", extra)
	}
}

func TestDiffOnlyIgnoresForeignExecutables(t *testing.T) {
	shims := t.TempDir()
	mustWriteExecutable(t, filepath.Join(shims, "user-script"))

	missing, extra, err := DiffOnly(shims, nil)
	if err != nil {
		t.Fatalf("DiffOnly: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("expected no missing, got %v", missing)
	}
	if len(extra) != 0 {
		t.Fatalf("foreign executable without marker should not be reported as extra, got %v", extra)
	}
}

func TestDispatchRebindsArgvZeroToBasename(t *testing.T) {
	argv := Dispatch([]string{"/root/.mvx/shims/node", "--version"})
	want := []string{"x", "--", "node", "--version"}
	if len(argv) != len(want) {
		t.Fatalf("got %v", argv)
	}
	for i := range want {
		if argv[i] != want[i] {
			t.Fatalf("got %v, want %v", argv, want)
		}
	}
}

func TestDispatchHandlesEmptyArgv(t *testing.T) {
	argv := Dispatch(nil)
	if len(argv) != 2 || argv[0] != "x" || argv[1] != "--" {
		t.Fatalf("got %v", argv)
	}
}
