package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build information, set with -ldflags "-X".
var (
	Version   = "dev"
	GitCommit = "none"
	BuildTime = "unknown"
)

func versionCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "graphview %s\n", Version)
			if verbose {
				fmt.Fprintf(out, "\nDetails:\n")
				fmt.Fprintf(out, "  Version:    %s\n", Version)
				fmt.Fprintf(out, "  Git Commit: %s\n", GitCommit)
				fmt.Fprintf(out, "  Built:      %s\n", BuildTime)
				fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
				fmt.Fprintf(out, "  Platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			}
		},
	}
	// No configuration is needed to print the version.
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error { return nil }
	cmd.PersistentPostRun = func(*cobra.Command, []string) {}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose version output")
	return cmd
}
