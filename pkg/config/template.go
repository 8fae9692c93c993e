package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// RenderOptions carries the values a rendered task script or
// environment value can reference via {{ }} template syntax.
type RenderOptions struct {
	WorkDir string
	Vars    map[string]any
}

// Render expands text through Go's text/template using sprig's
// function library merged with a handful of mvxcore-specific helpers:
// exec (run a command and capture stdout), sha256_file (hash a file),
// canonicalize_path, last_modified, join_path, and file_exists.
func Render(text string, opts RenderOptions) (string, error) {
	funcs := sprig.TxtFuncMap()
	for name, fn := range customFuncs(opts) {
		funcs[name] = fn
	}

	tmpl, err := template.New("mvxcore").Funcs(funcs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, opts.Vars); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

func customFuncs(opts RenderOptions) template.FuncMap {
	return template.FuncMap{
		"exec": func(name string, args ...string) (string, error) {
			cmd := exec.Command(name, args...)
			cmd.Dir = opts.WorkDir
			out, err := cmd.Output()
			if err != nil {
				return "", fmt.Errorf("exec %s: %w", name, err)
			}
			return strings.TrimSpace(string(out)), nil
		},
		"sha256_file": func(path string) (string, error) {
			data, err := os.ReadFile(resolveRelative(opts.WorkDir, path))
			if err != nil {
				return "", err
			}
			sum := sha256.Sum256(data)
			return hex.EncodeToString(sum[:]), nil
		},
		"file_exists": func(path string) bool {
			_, err := os.Stat(resolveRelative(opts.WorkDir, path))
			return err == nil
		},
		"last_modified": func(path string) (string, error) {
			info, err := os.Stat(resolveRelative(opts.WorkDir, path))
			if err != nil {
				return "", err
			}
			return info.ModTime().UTC().Format("2006-01-02T15:04:05Z"), nil
		},
		"join_path": func(parts ...string) string {
			return filepath.Join(parts...)
		},
		"canonicalize_path": func(path string) (string, error) {
			return filepath.Abs(resolveRelative(opts.WorkDir, path))
		},
	}
}

func resolveRelative(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}
