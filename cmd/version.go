package cmd

import (
	"fmt"

	"github.com/longkey1/ragchat/internal/version"
	"github.com/spf13/cobra"
)

var versionShort bool

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Show version information: version number, Git commit SHA, build time,
Go version and the User-Agent sent to the backend.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, version.Short())
			return nil
		}
		fmt.Fprintln(out, version.Info())
		fmt.Fprintf(out, "User-Agent: %s\n", version.UserAgent())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version.Short()

	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "Show only version number")
}
