package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// newVersionCmd reports build metadata as a closure over app.
func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version information for mvx including version number, commit hash, build date, and runtime information.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mvx version %s\n", app.Version)
			if app.Verbose {
				fmt.Printf("Commit:      %s\n", app.Commit)
				fmt.Printf("Built:       %s\n", app.Date)
				fmt.Printf("Go version:  %s\n", runtime.Version())
				fmt.Printf("OS/Arch:     %s/%s\n", runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
