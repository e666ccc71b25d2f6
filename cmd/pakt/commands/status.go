package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/pakt/internal/app"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Compare the lockfile against the packages directory",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			root, err := app.ProjectRoot()
			if err != nil {
				return err
			}
			report, err := c.app.Status(root)
			if err != nil {
				return err
			}
			if !report.Engine.IsZero() {
				fmt.Fprintf(c.out, "engine %s\n", report.Engine)
			}
			for _, pkg := range report.Packages {
				fmt.Fprintf(c.out, "%-10s %s %s\n", pkg.State, pkg.Name, pkg.Version)
			}
			for _, name := range report.Unlocked {
				fmt.Fprintf(c.out, "%-10s %s\n", "unlocked", name)
			}
			return nil
		},
	}
}
