package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// idiomaticFiles maps a version-file name to the backend/tool name it
// implies, mirroring the file set tools like nvm/pyenv/rbenv already
// place in a project directory so mvxcore can pick up an existing
// project without requiring an mvx.toml.
var idiomaticFiles = map[string]string{
	".node-version": "node",
	".nvmrc":        "node",
	".go-version":   "go",
	".python-version": "python",
	".java-version":  "java",
	".ruby-version":  "ruby",
}

// ScanIdiomaticFiles reads any idiomatic version files present in dir
// and returns them as a Layer at the lowest merge precedence — an
// explicit mvx.toml/.mvx.toml tool entry always wins over these, per
// the project's documented idiomatic-file precedence decision.
func ScanIdiomaticFiles(dir string) (Layer, error) {
	layer := NewLayer(filepath.Join(dir, "(idiomatic-files)"))

	for filename, tool := range idiomaticFiles {
		path := filepath.Join(dir, filename)
		if !fileExists(path) {
			continue
		}
		version, err := readIdiomaticVersion(path)
		if err != nil || version == "" {
			continue
		}
		layer.Tools[tool] = ToolSpec{Backend: tool, Version: version}
	}

	toolVersionsPath := filepath.Join(dir, ".tool-versions")
	if fileExists(toolVersionsPath) {
		entries, err := parseToolVersions(toolVersionsPath)
		if err == nil {
			for tool, version := range entries {
				if _, already := layer.Tools[tool]; !already {
					layer.Tools[tool] = ToolSpec{Backend: tool, Version: version}
				}
			}
		}
	}

	return layer, nil
}

func readIdiomaticVersion(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(strings.SplitN(string(data), "\n", 2)[0])
	line = strings.TrimPrefix(line, "v")
	return line, nil
}

// parseToolVersions parses the flat asdf-style ".tool-versions" format:
// one "<tool> <version>" pair per line, blank lines and "#" comments
// ignored.
func parseToolVersions(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		out[fields[0]] = fields[1]
	}
	return out, scanner.Err()
}
