// Package fsx supplies the filesystem primitives every other mvxcore
// component builds on: advisory locking around installs/cache refreshes
// and atomic write-then-rename so a crash never leaves a half-written
// file where a complete one is expected.
package fsx

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/mvxproject/mvxcore/pkg/errs"
)

// Lock wraps an advisory file lock keyed by path, used to serialize
// concurrent mvx processes installing the same tool version or
// refreshing the same cache entry.
type Lock struct {
	path string
	fl   *flock.Flock
}

// NewLock returns a lock object for path+".lock". It does not acquire
// the lock; call Acquire.
func NewLock(path string) *Lock {
	return &Lock{path: path, fl: flock.New(path + ".lock")}
}

// Acquire blocks until the lock is held or timeout elapses, polling at
// a short interval. A timeout of 0 means block forever.
func (l *Lock) Acquire(timeout time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(l.fl.Path()), 0o755); err != nil {
		return &errs.IOError{Op: "mkdir", Path: filepath.Dir(l.fl.Path()), Err: err}
	}

	if timeout <= 0 {
		locked, err := l.fl.TryLock()
		for !locked && err == nil {
			time.Sleep(50 * time.Millisecond)
			locked, err = l.fl.TryLock()
		}
		if err != nil {
			return &errs.IOError{Op: "lock", Path: l.path, Err: err}
		}
		return nil
	}

	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.fl.TryLock()
		if err != nil {
			return &errs.IOError{Op: "lock", Path: l.path, Err: err}
		}
		if locked {
			return nil
		}
		if time.Now().After(deadline) {
			return &errs.LockContendedTimeout{Path: l.path, Waited: timeout.String()}
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// Release unlocks and removes the underlying lock file descriptor.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}

// WithLock runs fn while holding the lock on path, releasing it
// unconditionally afterward.
func WithLock(path string, timeout time.Duration, fn func() error) error {
	l := NewLock(path)
	if err := l.Acquire(timeout); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}

// AtomicWriteFile writes data to a temp file in the same directory as
// path and renames it into place, so readers never observe a partial
// write.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &errs.IOError{Op: "mkdir", Path: dir, Err: err}
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return &errs.IOError{Op: "create-temp", Path: dir, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &errs.IOError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &errs.IOError{Op: "close", Path: tmpName, Err: err}
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return &errs.IOError{Op: "chmod", Path: tmpName, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &errs.IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

// MarkerPath returns the path of the "incomplete" sentinel file used to
// mark an install directory as not-yet-finished: its presence means a
// prior install was interrupted and the directory must be reinstalled.
func MarkerPath(installDir string) string {
	return filepath.Join(installDir, ".incomplete")
}

// BeginInstall creates installDir and drops an incomplete marker in it.
func BeginInstall(installDir string) error {
	if err := os.MkdirAll(installDir, 0o755); err != nil {
		return &errs.IOError{Op: "mkdir", Path: installDir, Err: err}
	}
	return AtomicWriteFile(MarkerPath(installDir), []byte(time.Now().UTC().Format(time.RFC3339)), 0o644)
}

// FinishInstall removes the incomplete marker, signaling the directory
// holds a fully installed artifact.
func FinishInstall(installDir string) error {
	err := os.Remove(MarkerPath(installDir))
	if err != nil && !os.IsNotExist(err) {
		return &errs.IOError{Op: "remove-marker", Path: installDir, Err: err}
	}
	return nil
}

// IsComplete reports whether installDir exists and has no incomplete
// marker — the invariant the install engine uses to skip reinstalling.
func IsComplete(installDir string) bool {
	if _, err := os.Stat(installDir); err != nil {
		return false
	}
	if _, err := os.Stat(MarkerPath(installDir)); err == nil {
		return false
	}
	return true
}

// RemoveIncomplete deletes installDir entirely if it is not complete,
// so a retried install starts from a clean slate instead of layering
// new files over a partial extraction.
func RemoveIncomplete(installDir string) error {
	if IsComplete(installDir) {
		return nil
	}
	if err := os.RemoveAll(installDir); err != nil {
		return &errs.IOError{Op: "remove-incomplete", Path: installDir, Err: err}
	}
	return nil
}

// Exists reports whether path exists, swallowing the "not exist" case.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
