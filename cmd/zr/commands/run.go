package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/zr/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Run the given tasks or workflows",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			force, _ := cmd.Flags().GetBool("force")
			failFast, _ := cmd.Flags().GetBool("fail-fast")
			tuiEnabled, _ := cmd.Flags().GetBool("tui")
			return c.components.App.Run(cmd.Context(), args, app.RunOptions{
				Force:    force,
				FailFast: failFast,
				UI:       tuiEnabled,
			})
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Force rebuild, bypassing the cache")
	cmd.Flags().Bool("fail-fast", false, "Cancel remaining tasks as soon as one fails")
	cmd.Flags().Bool("tui", false, "Show a live terminal UI of task progress")
	return cmd
}
