package core

import "github.com/mvxproject/mvxcore/pkg/backend"

// RegisterAll adds every built-in backend to reg. urlReplace is applied
// to each backend's resolved download URL, wiring in the global
// settings url_replacements table (pkg/config.Settings.ApplyURLReplacement).
func RegisterAll(reg *backend.Registry, urlReplace func(string) string) {
	reg.Register(&NodeBackend{URLReplace: urlReplace})
	reg.Register(&GoBackend{URLReplace: urlReplace})
	reg.Register(&JavaBackend{URLReplace: urlReplace})
	reg.Register(&PythonBackend{URLReplace: urlReplace})
}
