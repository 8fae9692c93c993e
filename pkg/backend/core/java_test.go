package core

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestJavaBinDirFindsFlatBinLayout(t *testing.T) {
	dir := t.TempDir()
	binDir := filepath.Join(dir, "jdk-21.0.1", "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	j := &JavaBackend{}
	got, err := j.BinDir(dir, "21.0.1")
	if err != nil {
		t.Fatalf("BinDir: %v", err)
	}
	if got != binDir {
		t.Fatalf("got %q, want %q", got, binDir)
	}
}

func TestJavaBinDirFindsMacNestedLayout(t *testing.T) {
	dir := t.TempDir()
	binDir := filepath.Join(dir, "jdk-21.0.1", "Contents", "Home", "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	j := &JavaBackend{}
	got, err := j.BinDir(dir, "21.0.1")
	if err != nil {
		t.Fatalf("BinDir: %v", err)
	}
	if got != binDir {
		t.Fatalf("got %q, want %q", got, binDir)
	}
}

func TestDiscoArchiveTypeWindowsIsZip(t *testing.T) {
	want := "tar.gz"
	if runtime.GOOS == "windows" {
		want = "zip"
	}
	if got := discoArchiveType(); got != want {
		t.Fatalf("archive type = %q, want %q on %s", got, want, runtime.GOOS)
	}
}

func TestJavaBackendAliasesIncludesLTS(t *testing.T) {
	j := &JavaBackend{}
	aliases := j.Aliases()
	if aliases["lts"] == "" {
		t.Fatal("expected a non-empty lts alias")
	}
	if aliases["lts"] != aliases["latest-lts"] {
		t.Fatalf("expected lts and latest-lts to agree, got %q vs %q", aliases["lts"], aliases["latest-lts"])
	}
}
