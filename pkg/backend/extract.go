package backend

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvxproject/mvxcore/pkg/config"
	"github.com/mvxproject/mvxcore/pkg/errs"
)

// Extract unpacks a downloaded archive into destDir, dispatching on
// file extension, as a package-level helper shared by every core
// backend.
func Extract(archivePath, destDir string) error {
	switch {
	case strings.HasSuffix(archivePath, ".zip"):
		return extractZip(archivePath, destDir)
	case strings.HasSuffix(archivePath, ".tar.gz") || strings.HasSuffix(archivePath, ".tgz"):
		return extractTarGz(archivePath, destDir)
	case strings.HasSuffix(archivePath, ".tar"):
		return extractTar(archivePath, destDir)
	default:
		return fmt.Errorf("unsupported archive format: %s", archivePath)
	}
}

func extractZip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return &errs.IOError{Op: "open-zip", Path: src, Err: err}
	}
	defer r.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return &errs.IOError{Op: "mkdir", Path: dest, Err: err}
	}

	for _, f := range r.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, f.Mode()); err != nil {
				return &errs.IOError{Op: "mkdir", Path: target, Err: err}
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return &errs.IOError{Op: "mkdir", Path: filepath.Dir(target), Err: err}
		}
		if err := copyZipEntry(f, target); err != nil {
			return err
		}
	}
	return nil
}

func copyZipEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return &errs.IOError{Op: "open-entry", Path: f.Name, Err: err}
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode())
	if err != nil {
		return &errs.IOError{Op: "create", Path: target, Err: err}
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return &errs.IOError{Op: "write", Path: target, Err: err}
	}
	return nil
}

func extractTarGz(src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return &errs.IOError{Op: "open", Path: src, Err: err}
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return &errs.IOError{Op: "gunzip", Path: src, Err: err}
	}
	defer gz.Close()

	return extractTarReader(tar.NewReader(gz), dest)
}

func extractTar(src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return &errs.IOError{Op: "open", Path: src, Err: err}
	}
	defer f.Close()
	return extractTarReader(tar.NewReader(f), dest)
}

func extractTarReader(tr *tar.Reader, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return &errs.IOError{Op: "mkdir", Path: dest, Err: err}
	}

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &errs.IOError{Op: "tar-read", Path: dest, Err: err}
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)); err != nil {
				return &errs.IOError{Op: "mkdir", Path: target, Err: err}
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return &errs.IOError{Op: "mkdir", Path: filepath.Dir(target), Err: err}
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return &errs.IOError{Op: "create", Path: target, Err: err}
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return &errs.IOError{Op: "write", Path: target, Err: err}
			}
			out.Close()
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return &errs.IOError{Op: "mkdir", Path: filepath.Dir(target), Err: err}
			}
			_ = os.Symlink(hdr.Linkname, target)
		}
	}
}

// safeJoin joins dest with name after rejecting path traversal, a
// zip-slip guard applied before every archive entry is written.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) && target != filepath.Clean(dest) {
		return "", fmt.Errorf("archive entry escapes destination: %s", name)
	}
	return target, nil
}

// VerifyChecksum hashes data and compares it against spec; Download
// calls it on every fetched artifact. Only sha256 is
// implemented; a pluggable hash registry would be over-engineering for
// the one digest every backend here actually uses.
func VerifyChecksum(data []byte, spec *config.ChecksumSpec) error {
	if spec == nil || spec.Value == "" {
		if spec != nil && spec.Required {
			return fmt.Errorf("checksum required but no expected value configured")
		}
		return nil
	}
	if spec.Type != "" && spec.Type != "sha256" {
		return fmt.Errorf("unsupported checksum type %q", spec.Type)
	}
	sum := sha256.Sum256(data)
	got := hex.EncodeToString(sum[:])
	want := strings.ToLower(strings.TrimSpace(spec.Value))
	if got != want {
		return fmt.Errorf("checksum mismatch: want %s, got %s", want, got)
	}
	return nil
}
