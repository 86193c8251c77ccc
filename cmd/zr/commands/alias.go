package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newAliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage CLI alias shorthands",
	}
	cmd.AddCommand(c.newAliasSetCmd())
	cmd.AddCommand(c.newAliasRemoveCmd())
	cmd.AddCommand(c.newAliasListCmd())
	return cmd
}

func (c *CLI) newAliasSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set NAME COMMAND...",
		Short: "Register an alias for a command",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			store := c.components.AliasStore()
			store.Set(args[0], strings.Join(args[1:], " "))
			return store.Save()
		},
	}
}

func (c *CLI) newAliasRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a registered alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store := c.components.AliasStore()
			store.Remove(args[0])
			return store.Save()
		},
	}
}

func (c *CLI) newAliasListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered aliases",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			names := c.components.AliasStore().Names()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
}
