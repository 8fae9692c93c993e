// Package toolset builds the concrete set of tools a project needs,
// applying the precedence order between CLI flags, an MVX_<TOOL>_VERSION
// environment override convention, and merged config.
package toolset

import (
	"context"
	"fmt"
	"strings"

	"github.com/mvxproject/mvxcore/pkg/config"
	"github.com/mvxproject/mvxcore/pkg/resolve"
)

// Source records where a tool entry's version request came from, for
// diagnostics (`mvx doctor`, `mvx ls` source column).
type Source string

const (
	SourceCLI     Source = "cli"
	SourceEnv     Source = "env"
	SourceProject Source = "project"
	SourceGlobal  Source = "global"
)

// Entry is one resolved tool in a Toolset.
type Entry struct {
	Tool    string
	Backend string
	Request resolve.Request
	Source  Source
	Spec    config.ToolSpec
}

// Toolset is the fully resolved set of tools for a run, keyed by tool
// name (not backend, so "java" from a project config and a CLI
// "--tool java@21" override refer to the same entry).
type Toolset struct {
	Entries map[string]Entry
}

// Build applies the precedence CLI > env > project config > global
// config, for every tool entry merged.Config names. merged is the
// layer-folded config.Config from pkg/config.Merge; cliOverrides is a
// tool name -> version string map from --tool flags; env is the
// process environment (os.Environ() shape) consulted for
// MVX_<TOOL>_VERSION.
func Build(merged *config.Config, cliOverrides map[string]string, env []string) (*Toolset, error) {
	envOverrides := parseEnvOverrides(env)

	ts := &Toolset{Entries: make(map[string]Entry, len(merged.Tools))}
	for name, spec := range merged.Tools {
		version := spec.Version
		source := SourceProject

		if v, ok := envOverrides[name]; ok {
			version = v
			source = SourceEnv
		}
		if v, ok := cliOverrides[name]; ok {
			version = v
			source = SourceCLI
		}

		req, err := parseRequest(version)
		if err != nil {
			return nil, fmt.Errorf("tool %q: %w", name, err)
		}

		backendName := spec.Backend
		if backendName == "" {
			backendName = name
		}

		ts.Entries[name] = Entry{
			Tool:    name,
			Backend: backendName,
			Request: req,
			Source:  source,
			Spec:    spec,
		}
	}

	for name, version := range cliOverrides {
		if _, exists := ts.Entries[name]; exists {
			continue
		}
		req, err := parseRequest(version)
		if err != nil {
			return nil, fmt.Errorf("tool %q: %w", name, err)
		}
		ts.Entries[name] = Entry{Tool: name, Backend: name, Request: req, Source: SourceCLI}
	}

	return ts, nil
}

// parseRequest maps a raw version string to resolve's five-case
// request sum type: "system" short-circuits, "path:<p>" and "ref:<r>"
// are explicit prefixes a project config can use to pin an absolute
// install or a VCS ref, everything else is a Version request.
func parseRequest(raw string) (resolve.Request, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "" || raw == "system":
		return resolve.Request{Kind: resolve.KindSystem}, nil
	case strings.HasPrefix(raw, "path:"):
		return resolve.Request{Kind: resolve.KindPath, Path: strings.TrimPrefix(raw, "path:")}, nil
	case strings.HasPrefix(raw, "ref:"):
		return resolve.Request{Kind: resolve.KindRef, Ref: strings.TrimPrefix(raw, "ref:")}, nil
	default:
		return resolve.Request{Kind: resolve.KindVersion, Version: raw}, nil
	}
}

// parseEnvOverrides scans an os.Environ()-shaped slice for
// MVX_<TOOL>_VERSION entries (uppercased tool name).
func parseEnvOverrides(env []string) map[string]string {
	overrides := make(map[string]string)
	for _, kv := range env {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if !strings.HasPrefix(key, "MVX_") || !strings.HasSuffix(key, "_VERSION") {
			continue
		}
		tool := strings.TrimSuffix(strings.TrimPrefix(key, "MVX_"), "_VERSION")
		if tool == "" {
			continue
		}
		overrides[strings.ToLower(tool)] = value
	}
	return overrides
}

// Resolve runs resolve.Resolve for every entry against its backend,
// returning a map of tool name -> resolve.Result. Backends is a
// lookup supplied by the caller (typically pkg/backend.Registry.Resolve)
// to keep toolset free of a direct dependency on the backend package's
// concrete registry type. aliases is the merged config's tool -> alias
// table (config.Config.Alias); a nil map means no project aliases
// apply and every entry falls back to whatever its backend advertises
// natively.
func (ts *Toolset) Resolve(ctx context.Context, backends func(name string) (resolve.Backend, error), aliases map[string]map[string]string) (map[string]resolve.Result, error) {
	results := make(map[string]resolve.Result, len(ts.Entries))
	for name, entry := range ts.Entries {
		b, err := backends(entry.Backend)
		if err != nil {
			return nil, fmt.Errorf("resolve backend for tool %q: %w", name, err)
		}
		res, err := resolve.Resolve(ctx, entry.Request, b, aliases[entry.Tool])
		if err != nil {
			return nil, fmt.Errorf("resolve version for tool %q: %w", name, err)
		}
		results[name] = res
	}
	return results, nil
}
