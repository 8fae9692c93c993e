package backend

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/mvxproject/mvxcore/pkg/config"
)

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
}

func writeTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create tar.gz: %v", err)
	}
	defer f.Close()
	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("tar header: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("tar write: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
}

func TestExtractZipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "pkg.zip")
	writeZip(t, archive, map[string]string{"bin/tool": "payload"})

	dest := filepath.Join(dir, "out")
	if err := Extract(archive, dest); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "bin", "tool"))
	if err != nil {
		t.Fatalf("read extracted file: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("got %q", data)
	}
}

func TestExtractTarGzRoundTrip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "pkg.tar.gz")
	writeTarGz(t, archive, map[string]string{"bin/tool": "payload"})

	dest := filepath.Join(dir, "out")
	if err := Extract(archive, dest); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "bin", "tool"))
	if err != nil {
		t.Fatalf("read extracted file: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("got %q", data)
	}
}

func TestExtractRejectsUnknownSuffix(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "pkg.rar")
	if err := os.WriteFile(archive, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := Extract(archive, filepath.Join(dir, "out")); err == nil {
		t.Fatal("expected error for unsupported archive format")
	}
}

func TestSafeJoinRejectsPathTraversal(t *testing.T) {
	_, err := safeJoin("/dest", "../../etc/passwd")
	if err == nil {
		t.Fatal("expected path traversal to be rejected")
	}
}

func TestVerifyChecksumMatchesAndMismatches(t *testing.T) {
	data := []byte("hello world")
	// sha256("hello world")
	const want = "b94d27b9934d3e08a52e52d7da7dacefbabd2c0d21d9c76c0bf1e7fdb7b3fe0b"

	if err := VerifyChecksum(data, &config.ChecksumSpec{Type: "sha256", Value: want}); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := VerifyChecksum(data, &config.ChecksumSpec{Type: "sha256", Value: "deadbeef"}); err == nil {
		t.Fatal("expected mismatch error")
	}
	if err := VerifyChecksum(data, nil); err != nil {
		t.Fatalf("nil spec should be a no-op, got %v", err)
	}
}

func TestVerifyChecksumRejectsUnsupportedType(t *testing.T) {
	err := VerifyChecksum([]byte("x"), &config.ChecksumSpec{Type: "md5", Value: "abc"})
	if err == nil {
		t.Fatal("expected unsupported digest type to error")
	}
}
