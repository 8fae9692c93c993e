package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/mvxproject/mvxcore/pkg/config"
)

// mvxTOMLDoc is the on-disk shape of mvx.toml, written by newUseCmd.
// Kept separate from config.Layer (an in-memory merged view) since the
// file format only needs the tool table, not every derived field.
type mvxTOMLDoc struct {
	Project config.ProjectMeta         `toml:"project,omitempty"`
	Tools   map[string]config.ToolSpec `toml:"tools"`
	Env     map[string]string          `toml:"env,omitempty"`
}

// newUseCmd pins a tool version into the project's mvx.toml, written
// directly here since pkg/config has no save helper (it only ever
// reads project files).
func newUseCmd(app *App) *cobra.Command {
	var dir string
	var global bool

	c := &cobra.Command{
		Use:   "use <tool>@<version>",
		Short: "Pin a tool version in the project (or global) config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, request, ok := cutAt(args[0])
			if !ok || request == "" {
				return fmt.Errorf("expected <tool>@<version>, got %q", args[0])
			}

			var path string
			if global {
				path = filepath.Join(app.Paths.Config, "config.toml")
			} else {
				root, err := rootDirFlagOrCwd(dir)
				if err != nil {
					return err
				}
				path = filepath.Join(root, "mvx.toml")
			}

			doc := mvxTOMLDoc{Tools: make(map[string]config.ToolSpec)}
			if data, err := os.ReadFile(path); err == nil {
				if _, err := toml.Decode(string(data), &doc); err != nil {
					return fmt.Errorf("parse %s: %w", path, err)
				}
			}
			if doc.Tools == nil {
				doc.Tools = make(map[string]config.ToolSpec)
			}

			spec := doc.Tools[name]
			spec.Version = request
			doc.Tools[name] = spec

			var buf bytes.Buffer
			if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
				return fmt.Errorf("encode %s: %w", path, err)
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			app.printInfo("pinned %s to %s in %s", name, request, path)
			return nil
		},
	}

	c.Flags().StringVar(&dir, "dir", "", "project root (defaults to cwd)")
	c.Flags().BoolVar(&global, "global", false, "write to the global config instead of the project's mvx.toml")
	return c
}
