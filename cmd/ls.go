package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

// newLsCmd lists installed versions per tool under the installs
// directory.
func newLsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List installed tool versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			root := app.Paths.InstallsDir()
			tools, err := os.ReadDir(root)
			if err != nil {
				if os.IsNotExist(err) {
					app.printInfo("no tools installed")
					return nil
				}
				return err
			}

			names := make([]string, 0, len(tools))
			for _, t := range tools {
				if t.IsDir() {
					names = append(names, t.Name())
				}
			}
			sort.Strings(names)

			for _, name := range names {
				versions := installedVersionsOf(filepath.Join(root, name))
				sort.Strings(versions)
				if len(versions) == 0 {
					continue
				}
				fmt.Printf("%s\n", name)
				for _, v := range versions {
					fmt.Printf("  %s\n", v)
				}
			}
			return nil
		},
	}
}
