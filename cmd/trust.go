package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// newTrustCmd marks a project config file as trusted, so Discover's
// requireTrust path accepts it, via a minimal hash-pinned trust store
// instead of blanket auto-trust.
func newTrustCmd(app *App) *cobra.Command {
	var dir string

	c := &cobra.Command{
		Use:   "trust",
		Short: "Trust the project config file in the given (or current) directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := rootDirFlagOrCwd(dir)
			if err != nil {
				return err
			}

			var path string
			for _, name := range []string{"mvx.toml", ".mvx.toml"} {
				candidate := filepath.Join(root, name)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
					break
				}
			}
			if path == "" {
				return fmt.Errorf("no mvx.toml or .mvx.toml found in %s", root)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			sum := sha256.Sum256(data)
			hash := hex.EncodeToString(sum[:])

			app.Trust.Trust(path, hash)
			if err := app.Trust.Save(app.Paths); err != nil {
				return fmt.Errorf("save trust store: %w", err)
			}

			app.printInfo("trusted %s", path)
			return nil
		},
	}

	c.Flags().StringVar(&dir, "dir", "", "project root (defaults to cwd)")
	return c
}
