package config

// Merge folds layers (as returned by Discover, nearest-directory first,
// idiomatic-file and global layers last) into one Config. Earlier
// layers win: a tool, env var, or task named in a closer/more specific
// layer is never overwritten by a layer further down the list. The
// precedence order is CLI > project > ancestor project > idiomatic
// file > global, minus the CLI layer which the toolset builder applies
// on top of this result.
func Merge(layers []Layer) *Config {
	cfg := &Config{
		Tools: make(map[string]ToolSpec),
		Env:   make(map[string]string),
		Tasks: make(map[string]CommandConfig),
		Alias: make(map[string]map[string]string),
	}

	for _, layer := range layers {
		if cfg.Project.Name == "" && layer.Project.Name != "" {
			cfg.Project = layer.Project
		}
		for name, spec := range layer.Tools {
			if _, exists := cfg.Tools[name]; !exists {
				cfg.Tools[name] = spec
			}
		}
		for k, v := range layer.Env {
			if _, exists := cfg.Env[k]; !exists {
				cfg.Env[k] = v
			}
		}
		for name, task := range layer.Tasks {
			if _, exists := cfg.Tasks[name]; !exists {
				cfg.Tasks[name] = task
			}
		}
		for tool, aliases := range layer.Alias {
			dst, ok := cfg.Alias[tool]
			if !ok {
				dst = make(map[string]string, len(aliases))
				cfg.Alias[tool] = dst
			}
			for name, target := range aliases {
				if _, exists := dst[name]; !exists {
					dst[name] = target
				}
			}
		}
	}

	return cfg
}
