package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/lounas/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if full, _ := cmd.Flags().GetBool("full"); full {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Full())
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("full", false, "show commit, build date and platform")
}
