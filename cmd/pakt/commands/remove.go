package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/pakt/internal/app"
)

func (c *CLI) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <package>",
		Short: "Drop a direct dependency and resolve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := app.ProjectRoot()
			if err != nil {
				return err
			}
			plan, err := c.app.RemoveDependency(cmd.Context(), root, args[0])
			if plan != nil {
				c.printPlan(plan)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "removed %s, run `pakt sync` to apply\n", args[0])
			return nil
		},
	}
}
