package main

import (
	"fmt"
	"os"

	"github.com/mvxproject/mvxcore/cmd"
	"github.com/mvxproject/mvxcore/pkg/shim"
)

var (
	// Version information - set during build via -ldflags
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	app, err := cmd.NewApp(Version, Commit, Date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if shim.InvokedAsShim("mvx") {
		os.Args = append([]string{os.Args[0]}, shim.Dispatch(os.Args)...)
	}

	root := cmd.NewRootCmd(app)
	root.SetArgs(os.Args[1:])
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
