package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/mvxproject/mvxcore/pkg/errs"
	"github.com/mvxproject/mvxcore/pkg/paths"
	"gopkg.in/yaml.v3"
)

// projectFileNames are tried, in order, at every directory on the walk
// from the working directory up to the filesystem root. ".mvx.toml" is
// an alternative name for "mvx.toml"; when both exist in one directory,
// mvx.toml's entries win because it is loaded first. The .mvx/config.*
// forms are kept for projects still on a legacy YAML layout.
var projectFileNames = []string{"mvx.toml", ".mvx.toml"}
var legacyConfigNames = []string{"config.yml", "config.yaml"}

// Discover walks upward from dir collecting every project config layer
// found, nearest-directory first, then appends the idiomatic version-file
// layers (also nearest first) and finally the global layer. The caller
// merges them with Merge.
func Discover(dir string, p paths.Paths, trust *TrustStore, requireTrust bool) ([]Layer, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	var layers []Layer
	var idiomatic []Layer

	for d := abs; ; {
		for _, name := range projectFileNames {
			path := filepath.Join(d, name)
			if !fileExists(path) {
				continue
			}
			layer, err := loadTOMLLayer(path)
			if err != nil {
				return nil, err
			}
			if requireTrust && trust != nil {
				hash, err := hashFile(path)
				if err != nil {
					return nil, err
				}
				if !trust.IsTrusted(path, hash) {
					return nil, &errs.TrustRequiredError{Path: path}
				}
			}
			layers = append(layers, layer)
		}

		mvxDir := filepath.Join(d, ".mvx")
		for _, name := range legacyConfigNames {
			path := filepath.Join(mvxDir, name)
			if !fileExists(path) {
				continue
			}
			layer, err := loadLegacyLayer(path)
			if err != nil {
				return nil, err
			}
			layers = append(layers, layer)
		}

		idioLayer, err := ScanIdiomaticFiles(d)
		if err != nil {
			return nil, err
		}
		idiomatic = append(idiomatic, idioLayer)

		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	layers = append(layers, idiomatic...)

	globalLayer, err := loadGlobalLayer(p)
	if err != nil {
		return nil, err
	}
	layers = append(layers, globalLayer)

	return layers, nil
}

func loadTOMLLayer(path string) (Layer, error) {
	var doc tomlDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return Layer{}, &errs.ConfigParseError{Path: path, Err: err}
	}
	layer := NewLayer(path)
	layer.Project = doc.Project
	for name, spec := range doc.Tools {
		spec.Backend = name
		layer.Tools[name] = spec
	}
	for k, v := range doc.Env {
		layer.Env[k] = v
	}
	for k, v := range doc.Tasks {
		layer.Tasks[k] = v
	}
	for tool, aliases := range doc.Alias {
		layer.Alias[tool] = aliases
	}
	layer.TemplateVal = doc.Template
	return layer, nil
}

func loadLegacyLayer(path string) (Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layer{}, &errs.IOError{Op: "read", Path: path, Err: err}
	}

	var legacy struct {
		Project     ProjectMeta              `yaml:"project"`
		Tools       map[string]ToolSpec      `yaml:"tools"`
		Environment map[string]string        `yaml:"environment"`
		Commands    map[string]CommandConfig `yaml:"commands"`
	}

	if err := yaml.Unmarshal(data, &legacy); err != nil {
		return Layer{}, &errs.ConfigParseError{Path: path, Err: err}
	}

	layer := NewLayer(path)
	layer.Project = legacy.Project
	for name, spec := range legacy.Tools {
		spec.Backend = name
		layer.Tools[name] = spec
	}
	for k, v := range legacy.Environment {
		layer.Env[k] = v
	}
	for k, v := range legacy.Commands {
		layer.Tasks[k] = v
	}
	return layer, nil
}

func loadGlobalLayer(p paths.Paths) (Layer, error) {
	layer := NewLayer(filepath.Join(p.Config, "config.toml"))
	path := filepath.Join(p.Config, "config.toml")
	if !fileExists(path) {
		return layer, nil
	}
	var doc tomlDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return Layer{}, &errs.ConfigParseError{Path: path, Err: err}
	}
	layer.Project = doc.Project
	for name, spec := range doc.Tools {
		spec.Backend = name
		layer.Tools[name] = spec
	}
	for k, v := range doc.Env {
		layer.Env[k] = v
	}
	for tool, aliases := range doc.Alias {
		layer.Alias[tool] = aliases
	}
	return layer, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &errs.IOError{Op: "read", Path: path, Err: err}
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
