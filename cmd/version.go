package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of vmfs.",
	Long:  `Print the release, commit, build time and Go runtime of this binary. Useful in bug reports.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, line := range [][2]string{
			{"Version", version},
			{"Commit", commit},
			{"Built", date},
			{"Runtime", runtime.Version()},
		} {
			cmd.Printf("%-8s %s\n", line[0]+":", line[1])
		}
	},
}
