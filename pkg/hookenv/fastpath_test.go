package hookenv

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFastPathEligibleNilSessionIsIneligible(t *testing.T) {
	if FastPathEligible(nil, "/tmp", "hash") {
		t.Fatal("nil session should never be fast-path eligible")
	}
}

func TestFastPathEligibleDetectsCwdChange(t *testing.T) {
	sess := &Session{PrevCwd: "/a", EnvHash: "h"}
	if FastPathEligible(sess, "/b", "h") {
		t.Fatal("expected cwd change to disqualify fast path")
	}
}

func TestFastPathEligibleDetectsEnvHashChange(t *testing.T) {
	sess := &Session{PrevCwd: "/a", EnvHash: "h1"}
	if FastPathEligible(sess, "/a", "h2") {
		t.Fatal("expected env hash change to disqualify fast path")
	}
}

func TestFastPathEligibleDetectsWatchedFileModified(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mvx.toml")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	sess := &Session{
		PrevCwd: dir,
		EnvHash: "h",
		Watch:   []WatchEntry{{Path: path, MTime: info.ModTime().Add(-time.Hour)}},
	}
	if FastPathEligible(sess, dir, "h") {
		t.Fatal("expected newer mtime than recorded to disqualify fast path")
	}
}

func TestFastPathEligibleDetectsWatchedFileDeleted(t *testing.T) {
	dir := t.TempDir()
	sess := &Session{
		PrevCwd: dir,
		EnvHash: "h",
		Watch:   []WatchEntry{{Path: filepath.Join(dir, "gone.toml"), MTime: time.Now()}},
	}
	if FastPathEligible(sess, dir, "h") {
		t.Fatal("expected missing watched file to disqualify fast path")
	}
}

func TestFastPathEligibleDetectsDeletedLoadedConfig(t *testing.T) {
	dir := t.TempDir()
	sess := &Session{
		PrevCwd:       dir,
		EnvHash:       "h",
		LoadedConfigs: []string{filepath.Join(dir, "mvx.toml")},
	}
	if FastPathEligible(sess, dir, "h") {
		t.Fatal("expected deleted loaded config to disqualify fast path")
	}
}

func TestFastPathEligibleHoldsWhenNothingChanged(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "mvx.toml")
	if err := os.WriteFile(cfgPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	info, err := os.Stat(cfgPath)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	sess := &Session{
		PrevCwd:       dir,
		EnvHash:       "h",
		LoadedConfigs: []string{cfgPath},
		Watch:         []WatchEntry{{Path: cfgPath, MTime: info.ModTime()}},
	}
	if !FastPathEligible(sess, dir, "h") {
		t.Fatal("expected fast path to hold when nothing changed")
	}
}
