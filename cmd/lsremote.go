package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// newLsRemoteCmd lists every version a backend advertises, caching
// the listing for the run's versionCache TTL to avoid re-hitting the
// network on repeated invocations.
func newLsRemoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls-remote <tool>",
		Short: "List versions a tool's backend can install",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			b, err := app.Registry.Resolve(name)
			if err != nil {
				return err
			}

			c, err := app.versionCache(name)
			if err != nil {
				return err
			}

			versions, err := c.GetOrFetch(name, func() ([]string, error) {
				return b.ListVersions(backgroundContext())
			})
			if err != nil {
				return err
			}
			if err := c.Flush(); err != nil {
				app.printVerbose("flush version cache: %v", err)
			}

			sort.Strings(versions)
			for _, v := range versions {
				fmt.Println(v)
			}
			return nil
		},
	}
}
