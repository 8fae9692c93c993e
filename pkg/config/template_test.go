package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRenderSubstitutesVars(t *testing.T) {
	out, err := Render("hello {{ .Name }}", RenderOptions{Vars: map[string]any{"Name": "world"}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "hello world" {
		t.Errorf("out = %q", out)
	}
}

func TestRenderSprigFunction(t *testing.T) {
	out, err := Render("{{ \"Hello\" | upper }}", RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "HELLO" {
		t.Errorf("out = %q", out)
	}
}

func TestRenderFileExistsHelper(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	out, err := Render("{{ file_exists \"marker\" }}", RenderOptions{WorkDir: dir})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != "true" {
		t.Errorf("out = %q, want true", out)
	}
}
