package cmd

import "github.com/spf13/cobra"

// newDeactivateCmd prints instructions for unwinding shell
// integration in the current session; the actual unset logic lives in
// the mvx_deactivate/mvx-deactivate shell function Activate installs.
func newDeactivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate",
		Short: "Print instructions for deactivating mvx shell integration",
		Run: func(cmd *cobra.Command, args []string) {
			app.printInfo("To deactivate mvx in your current shell session:")
			app.printInfo("")
			app.printInfo("  Bash/Zsh/Fish:")
			app.printInfo("    Run: mvx_deactivate")
			app.printInfo("")
			app.printInfo("  PowerShell:")
			app.printInfo("    Run: mvx-deactivate")
			app.printInfo("")
			app.printInfo("To permanently disable mvx activation, remove the activation")
			app.printInfo("line from your shell configuration file.")
		},
	}
}
