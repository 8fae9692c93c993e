package fsx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mvxproject/mvxcore/pkg/errs"
)

func TestAtomicWriteFileReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	if err := AtomicWriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("AtomicWriteFile: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("AtomicWriteFile overwrite: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "cache.json" {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestLockMutualExclusion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "node-20.1.0")

	first := NewLock(path)
	if err := first.Acquire(time.Second); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer first.Release()

	second := NewLock(path)
	err := second.Acquire(100 * time.Millisecond)
	if err == nil {
		second.Release()
		t.Fatal("expected second Acquire to time out while first holds the lock")
	}
	var timeoutErr *errs.LockContendedTimeout
	if !errors.As(err, &timeoutErr) {
		t.Errorf("expected LockContendedTimeout, got %T: %v", err, err)
	}
}

func TestInstallCompletenessLifecycle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "node", "20.1.0")

	if IsComplete(dir) {
		t.Fatal("non-existent install dir reported complete")
	}
	if err := BeginInstall(dir); err != nil {
		t.Fatalf("BeginInstall: %v", err)
	}
	if IsComplete(dir) {
		t.Fatal("install dir with marker reported complete")
	}
	if err := RemoveIncomplete(dir); err != nil {
		t.Fatalf("RemoveIncomplete: %v", err)
	}
	if Exists(dir) {
		t.Fatal("expected incomplete install dir to be removed")
	}

	if err := BeginInstall(dir); err != nil {
		t.Fatalf("BeginInstall (2nd): %v", err)
	}
	if err := FinishInstall(dir); err != nil {
		t.Fatalf("FinishInstall: %v", err)
	}
	if !IsComplete(dir) {
		t.Fatal("expected install dir to be complete after FinishInstall")
	}
	if err := RemoveIncomplete(dir); err != nil {
		t.Fatalf("RemoveIncomplete on complete dir: %v", err)
	}
	if !Exists(dir) {
		t.Fatal("RemoveIncomplete must not touch a complete install")
	}
}
