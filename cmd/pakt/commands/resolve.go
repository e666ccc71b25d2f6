package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/pakt/internal/app"
	"go.trai.ch/pakt/internal/core/domain"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Compute the resolution plan without touching the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := app.ProjectRoot()
			if err != nil {
				return err
			}
			plan, err := c.app.Resolve(cmd.Context(), root)
			if err != nil {
				return err
			}
			c.printPlan(plan)
			if plan.HasConflicts() {
				return domain.ErrConflict
			}
			return nil
		},
	}
}

func (c *CLI) printPlan(plan *domain.ResolutionPlan) {
	if plan.IsNoop() {
		fmt.Fprintln(c.out, "nothing to do, project is up to date")
		return
	}
	for _, pkg := range plan.ToInstall {
		fmt.Fprintf(c.out, "  + %s %s (%s)\n", pkg.Name, pkg.Version, pkg.SourceID)
	}
	for _, name := range plan.ToRemove {
		fmt.Fprintf(c.out, "  - %s\n", name)
	}
	for _, conflict := range plan.Conflicts {
		fmt.Fprintf(c.out, "  ! %s: %v\n", conflict.Package, conflict.Reason)
		for _, req := range conflict.Requirements {
			requirer := req.Requirer
			if requirer == "" {
				requirer = "project manifest"
			}
			fmt.Fprintf(c.out, "      %s requires %s\n", requirer, req.Range)
		}
	}
}
