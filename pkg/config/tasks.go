package config

import (
	"fmt"
	"runtime"
)

// CommandConfig is a task definition: a script (possibly per-platform),
// its working directory, declared tool dependencies, and optional
// pre/post hooks when it overrides or augments a built-in command.
type CommandConfig struct {
	Description string             `toml:"description,omitempty" json:"description" yaml:"description"`
	Script      any                `toml:"script,omitempty" json:"script" yaml:"script"`
	WorkingDir  string             `toml:"working_dir,omitempty" json:"working_dir,omitempty" yaml:"working_dir,omitempty"`
	Requires    []string           `toml:"requires,omitempty" json:"requires,omitempty" yaml:"requires,omitempty"`
	Args        []CommandArgConfig `toml:"args,omitempty" json:"args,omitempty" yaml:"args,omitempty"`
	Environment map[string]string  `toml:"environment,omitempty" json:"environment,omitempty" yaml:"environment,omitempty"`
	Interpreter string             `toml:"interpreter,omitempty" json:"interpreter,omitempty" yaml:"interpreter,omitempty"`

	Pre  any  `toml:"pre,omitempty" json:"pre,omitempty" yaml:"pre,omitempty"`
	Post any  `toml:"post,omitempty" json:"post,omitempty" yaml:"post,omitempty"`
	Override bool `toml:"override,omitempty" json:"override,omitempty" yaml:"override,omitempty"`
}

// PlatformScript is a per-OS script table.
type PlatformScript struct {
	Windows string `toml:"windows,omitempty" json:"windows,omitempty" yaml:"windows,omitempty"`
	Unix    string `toml:"unix,omitempty" json:"unix,omitempty" yaml:"unix,omitempty"`
	Linux   string `toml:"linux,omitempty" json:"linux,omitempty" yaml:"linux,omitempty"`
	MacOS   string `toml:"macos,omitempty" json:"macos,omitempty" yaml:"macos,omitempty"`
	Darwin  string `toml:"darwin,omitempty" json:"darwin,omitempty" yaml:"darwin,omitempty"`
	Default string `toml:"default,omitempty" json:"default,omitempty" yaml:"default,omitempty"`
}

// CommandArgConfig describes one named task argument.
type CommandArgConfig struct {
	Name        string `toml:"name" json:"name" yaml:"name"`
	Description string `toml:"description,omitempty" json:"description,omitempty" yaml:"description,omitempty"`
	Default     string `toml:"default,omitempty" json:"default,omitempty" yaml:"default,omitempty"`
	Required    bool   `toml:"required,omitempty" json:"required,omitempty" yaml:"required,omitempty"`
}

// ResolvePlatformScriptWithInterpreter picks the script text for the
// running GOOS and the interpreter it should run under: plain strings
// default to the "mvx-shell" builtin interpreter (cross-platform by
// construction), platform-keyed tables default to "native".
func ResolvePlatformScriptWithInterpreter(script any, defaultInterpreter string) (string, string, error) {
	switch s := script.(type) {
	case string:
		interp := defaultInterpreter
		if interp == "" {
			interp = "mvx-shell"
		}
		return s, interp, nil
	case map[string]any:
		platform := runtime.GOOS
		value, found := platformValue(s, platform)
		if !found {
			return "", "", fmt.Errorf("no script defined for platform %s", platform)
		}
		switch v := value.(type) {
		case string:
			interp := defaultInterpreter
			if interp == "" {
				interp = "native"
			}
			return v, interp, nil
		case map[string]any:
			scriptStr, _ := v["script"].(string)
			if scriptStr == "" {
				return "", "", fmt.Errorf("no script in nested config for platform %s", platform)
			}
			interp := defaultInterpreter
			if i, ok := v["interpreter"].(string); ok && i != "" {
				interp = i
			}
			if interp == "" {
				interp = "native"
			}
			return scriptStr, interp, nil
		default:
			return "", "", fmt.Errorf("invalid script value for platform %s", platform)
		}
	case PlatformScript:
		resolved, err := resolvePlatformScriptStruct(s)
		interp := defaultInterpreter
		if interp == "" {
			interp = "native"
		}
		return resolved, interp, err
	case nil:
		return "", "", fmt.Errorf("no script defined")
	default:
		return "", "", fmt.Errorf("invalid script type: %T", script)
	}
}

func platformValue(s map[string]any, platform string) (any, bool) {
	tryKeys := func(keys ...string) (any, bool) {
		for _, k := range keys {
			if v, ok := s[k]; ok {
				return v, true
			}
		}
		return nil, false
	}

	switch platform {
	case "windows":
		if v, ok := tryKeys("windows"); ok {
			return v, true
		}
	case "linux":
		if v, ok := tryKeys("linux", "unix"); ok {
			return v, true
		}
	case "darwin":
		if v, ok := tryKeys("macos", "darwin", "unix"); ok {
			return v, true
		}
	default:
		if v, ok := tryKeys("unix"); ok {
			return v, true
		}
	}
	return tryKeys("default")
}

func resolvePlatformScriptStruct(ps PlatformScript) (string, error) {
	platform := runtime.GOOS
	switch platform {
	case "windows":
		if ps.Windows != "" {
			return ps.Windows, nil
		}
	case "linux":
		if ps.Linux != "" {
			return ps.Linux, nil
		}
		if ps.Unix != "" {
			return ps.Unix, nil
		}
	case "darwin":
		if ps.MacOS != "" {
			return ps.MacOS, nil
		}
		if ps.Darwin != "" {
			return ps.Darwin, nil
		}
		if ps.Unix != "" {
			return ps.Unix, nil
		}
	default:
		if ps.Unix != "" {
			return ps.Unix, nil
		}
	}
	if ps.Default != "" {
		return ps.Default, nil
	}
	return "", fmt.Errorf("no script defined for platform %s", platform)
}

// HasValidScript reports whether a script field (string, platform
// table, or PlatformScript) has at least one non-empty value.
func HasValidScript(script any) bool {
	switch s := script.(type) {
	case string:
		return s != ""
	case map[string]any:
		for _, v := range s {
			if str, ok := v.(string); ok && str != "" {
				return true
			}
			if nested, ok := v.(map[string]any); ok {
				if str, ok := nested["script"].(string); ok && str != "" {
					return true
				}
			}
		}
		return false
	case PlatformScript:
		return s.Windows != "" || s.Unix != "" || s.Linux != "" || s.MacOS != "" || s.Darwin != "" || s.Default != ""
	default:
		return false
	}
}

// HasCommandHooks reports whether cmd carries pre/post hook scripts
// without overriding its built-in body entirely.
func HasCommandHooks(cmd CommandConfig) bool {
	return !cmd.Override && (HasValidScript(cmd.Pre) || HasValidScript(cmd.Post))
}
