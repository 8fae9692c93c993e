package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// newCacheCmd groups the version-listing cache's maintenance
// operations into explicit subcommands: clear, prune, and path.
func newCacheCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "cache",
		Short: "Manage the version-listing cache",
	}

	root.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached version listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := filepath.Join(app.Paths.Cache, "versions")
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			app.printInfo("cache cleared")
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Remove cached listings for backends no longer registered",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := filepath.Join(app.Paths.Cache, "versions")
			entries, err := os.ReadDir(dir)
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			known := make(map[string]bool)
			for _, name := range app.Registry.Names() {
				known[name+".json"] = true
			}
			pruned := 0
			for _, e := range entries {
				if !known[e.Name()] {
					_ = os.Remove(filepath.Join(dir, e.Name()))
					pruned++
				}
			}
			app.printInfo("pruned %d stale cache file(s)", pruned)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(app.Paths.Cache)
		},
	})

	return root
}
