package config

import "fmt"

// Config is the fully merged view of a project's configuration: every
// Layer (project file, local override, idiomatic version files, global
// config) folded together by Merge, in precedence order.
type Config struct {
	Project ProjectMeta
	Tools   map[string]ToolSpec
	Env     map[string]string
	Tasks   map[string]CommandConfig
	Alias   map[string]map[string]string // tool -> alias name -> version-or-alias
}

// GetToolSpec returns the resolved spec for a tool name, if configured.
func (c *Config) GetToolSpec(name string) (ToolSpec, bool) {
	s, ok := c.Tools[name]
	return s, ok
}

// AliasesFor returns the effective alias table for one tool, or nil if
// no layer defined any aliases for it.
func (c *Config) AliasesFor(tool string) map[string]string {
	return c.Alias[tool]
}

// RequiredToolsFor returns the tools a task declares via `requires`,
// falling back to every configured tool when the task declares none.
func (c *Config) RequiredToolsFor(taskName string) []string {
	if t, ok := c.Tasks[taskName]; ok && len(t.Requires) > 0 {
		return t.Requires
	}
	all := make([]string, 0, len(c.Tools))
	for name := range c.Tools {
		all = append(all, name)
	}
	return all
}

// Validate checks structural invariants that Merge cannot enforce on
// individual layers: every tool needs a version, every non-builtin
// task needs a runnable script, and interpreter names are one of the
// two mvxcore understands.
func (c *Config) Validate() error {
	for name, spec := range c.Tools {
		if spec.Version == "" {
			return fmt.Errorf("tool %s: version is required", name)
		}
	}
	for name, task := range c.Tasks {
		if task.Override || !isBuiltinTask(name) {
			if !HasValidScript(task.Script) {
				return fmt.Errorf("task %s: script is required", name)
			}
		}
		if isBuiltinTask(name) && !task.Override {
			if !HasValidScript(task.Script) && !HasCommandHooks(task) {
				return fmt.Errorf("task %s: at least one of script, pre, or post is required for a built-in task hook", name)
			}
		}
		if task.Interpreter != "" && task.Interpreter != "native" && task.Interpreter != "mvx-shell" {
			return fmt.Errorf("task %s: invalid interpreter %q, must be 'native' or 'mvx-shell'", name, task.Interpreter)
		}
	}
	return nil
}

var builtinTasks = map[string]bool{
	"build": true, "test": true, "setup": true, "init": true,
	"info": true, "doctor": true,
}

func isBuiltinTask(name string) bool { return builtinTasks[name] }
