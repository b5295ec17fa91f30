package cmd

import (
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/internal/tui"
	"github.com/spf13/cobra"
)

// exploreCmd opens the interactive radar editor.
var exploreCmd = &cobra.Command{
	Use:   "explore [id]",
	Short: "Explore mechanisms interactively and drag radar vertices",
	Long: `Open a terminal explorer with the ranked list, a radar chart of the selected
mechanism and the comparison panel. Drag a vertex with the mouse or use the
keyboard to edit scores. Edits are never saved.

Keys:
  up/down     select mechanism
  left/right  choose dimension
  +/-         edit the chosen dimension by 0.1
  space       add or remove from comparison
  c           clear comparison
  r           reset edits
  s           cycle sort
  g           toggle Global South filter
  q           quit

Examples:
  vmfs explore
  vmfs explore hem --sort gsa`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: localSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := tui.Execute(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run explorer", err)
		}
	},
}
