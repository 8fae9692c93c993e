package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverWalksUpToParentProject(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "services", "api")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(root, "mvx.toml"), "[tools.go]\nversion = \"1.24.2\"\n")
	writeFile(t, filepath.Join(sub, "mvx.toml"), "[tools.node]\nversion = \"20.1.0\"\n")

	layers, err := Discover(sub, testPaths(t), nil, false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	merged := Merge(layers)
	if merged.Tools["node"].Version != "20.1.0" {
		t.Errorf("expected node from nearest layer, got %+v", merged.Tools["node"])
	}
	if merged.Tools["go"].Version != "1.24.2" {
		t.Errorf("expected go from ancestor layer, got %+v", merged.Tools["go"])
	}
}

func TestDiscoverRequiresTrustWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "mvx.toml"), "[tools.node]\nversion = \"20.1.0\"\n")

	p := testPaths(t)
	trust, err := LoadTrustStore(p)
	if err != nil {
		t.Fatalf("LoadTrustStore: %v", err)
	}
	if _, err := Discover(dir, p, trust, true); err == nil {
		t.Fatal("expected trust-required error for an untrusted config")
	}
}

func TestLegacyYAMLLayerLoads(t *testing.T) {
	dir := t.TempDir()
	mvxDir := filepath.Join(dir, ".mvx")
	if err := os.MkdirAll(mvxDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(mvxDir, "config.yaml"), "project:\n  name: legacy\ntools:\n  node:\n    version: \"18.0.0\"\n")

	layers, err := Discover(dir, testPaths(t), nil, false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	merged := Merge(layers)
	if merged.Project.Name != "legacy" {
		t.Errorf("Project.Name = %q", merged.Project.Name)
	}
	if merged.Tools["node"].Version != "18.0.0" {
		t.Errorf("Tools[node] = %+v", merged.Tools["node"])
	}
}

func TestDiscoverMergesTOMLAliasTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "mvx.toml"), "[tools.node]\nversion = \"lts\"\n\n[alias.node]\nlts = \"20.11.0\"\n")

	layers, err := Discover(dir, testPaths(t), nil, false)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	merged := Merge(layers)
	if merged.AliasesFor("node")["lts"] != "20.11.0" {
		t.Errorf("Alias[node][lts] = %+v", merged.Alias["node"])
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
