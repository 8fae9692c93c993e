// Package config loads, merges, and renders mvxcore project
// configuration: the TOML-first mvx.toml/.mvx.toml project files, a
// legacy YAML .mvx/config.* format, and the per-tool idiomatic
// version files (.node-version, .tool-versions, ...).
package config

// ToolSpec is one tool entry from a config layer: a version constraint
// bound to a backend (e.g. "node" -> core backend, "cargo:ripgrep" ->
// the cargo wellknown backend).
type ToolSpec struct {
	Backend      string            `toml:"-" json:"backend" yaml:"backend"`
	Version      string            `toml:"version" json:"version" yaml:"version"`
	Distribution string            `toml:"distribution,omitempty" json:"distribution,omitempty" yaml:"distribution,omitempty"`
	RequiredFor  []string          `toml:"required_for,omitempty" json:"required_for,omitempty" yaml:"required_for,omitempty"`
	Options      map[string]string `toml:"options,omitempty" json:"options,omitempty" yaml:"options,omitempty"`
	Checksum     *ChecksumSpec     `toml:"checksum,omitempty" json:"checksum,omitempty" yaml:"checksum,omitempty"`
}

// ChecksumSpec pins an expected artifact checksum.
type ChecksumSpec struct {
	Type     string `toml:"type,omitempty" json:"type,omitempty" yaml:"type,omitempty"`
	Value    string `toml:"value,omitempty" json:"value,omitempty" yaml:"value,omitempty"`
	URL      string `toml:"url,omitempty" json:"url,omitempty" yaml:"url,omitempty"`
	Filename string `toml:"filename,omitempty" json:"filename,omitempty" yaml:"filename,omitempty"`
	Required bool   `toml:"required,omitempty" json:"required,omitempty" yaml:"required,omitempty"`
}

// ProjectMeta carries descriptive project metadata, unrelated to tool
// resolution.
type ProjectMeta struct {
	Name        string `toml:"name,omitempty" json:"name,omitempty" yaml:"name,omitempty"`
	Description string `toml:"description,omitempty" json:"description,omitempty" yaml:"description,omitempty"`
}

// Layer is one parsed config file before merging: a project's
// mvx.toml or .mvx.toml, a legacy .mvx/config.yml, the global
// config.toml (~/.mvx/config.toml by default), or a synthesized layer
// from a directory's idiomatic version files.
type Layer struct {
	Source      string // absolute path this layer was loaded from
	Project     ProjectMeta
	Tools       map[string]ToolSpec
	Env         map[string]string
	Tasks       map[string]CommandConfig
	Alias       map[string]map[string]string // tool -> alias name -> version-or-alias
	TemplateVal map[string]any                // arbitrary values exposed to [template.vars]
}

// NewLayer returns an empty, initialized Layer.
func NewLayer(source string) Layer {
	return Layer{
		Source: source,
		Tools:  make(map[string]ToolSpec),
		Env:    make(map[string]string),
		Tasks:  make(map[string]CommandConfig),
		Alias:  make(map[string]map[string]string),
	}
}

// tomlDoc is the literal shape of an mvx.toml/.mvx.toml file, the
// format BurntSushi/toml unmarshals directly into before Layer
// conversion fills in the Backend field each ToolSpec is missing (TOML
// key nesting gives us the tool name, not a struct field).
type tomlDoc struct {
	Project  ProjectMeta                       `toml:"project"`
	Tools    map[string]ToolSpec               `toml:"tools"`
	Env      map[string]string                 `toml:"env"`
	Tasks    map[string]CommandConfig          `toml:"tasks"`
	Alias    map[string]map[string]string      `toml:"alias"`
	Template map[string]any                    `toml:"template"`
}
