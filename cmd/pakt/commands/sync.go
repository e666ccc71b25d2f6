package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/pakt/internal/app"
	"go.trai.ch/pakt/internal/core/domain"
)

func (c *CLI) newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Resolve and apply the plan to the packages directory",
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

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			if dryRun || plan.IsNoop() {
				return nil
			}

			if jobs, _ := cmd.Flags().GetInt("jobs"); jobs > 0 {
				c.app.SetSyncJobs(jobs)
			}
			report, err := c.app.Synchronize(cmd.Context(), root, plan)
			if err != nil {
				return err
			}
			c.printReport(report)
			if len(report.Failed) > 0 {
				return report.Failed[0].Err
			}
			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "Print the plan without applying it")
	cmd.Flags().IntP("jobs", "j", 0, "Cap concurrent package operations")
	return cmd
}

func (c *CLI) printReport(report *domain.SyncReport) {
	for _, name := range report.Installed {
		fmt.Fprintf(c.out, "installed %s\n", name)
	}
	for _, name := range report.Removed {
		fmt.Fprintf(c.out, "removed %s\n", name)
	}
	for _, failure := range report.Failed {
		fmt.Fprintf(c.out, "failed %s: %v\n", failure.Package, failure.Err)
	}
}
