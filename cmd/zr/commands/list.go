package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks declared by the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree, _ := cmd.Flags().GetBool("tree")

			graph, err := c.components.ConfigLoader().Load(".")
			if err != nil {
				return err
			}
			if err := graph.Validate(); err != nil {
				return err
			}

			for task := range graph.Walk() {
				if tree && len(task.Dependencies)+len(task.DepsSerial) > 0 {
					fmt.Printf("%s\n", task.Name.String())
					for _, dep := range task.DepsSerial {
						fmt.Printf("  -> %s (serial)\n", dep.String())
					}
					for _, dep := range task.Dependencies {
						fmt.Printf("  -> %s\n", dep.String())
					}
					continue
				}
				fmt.Println(task.Name.String())
			}
			return nil
		},
	}
	cmd.Flags().Bool("tree", false, "Show task dependencies as a tree")
	return cmd
}
