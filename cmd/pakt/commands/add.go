package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/pakt/internal/app"
)

func (c *CLI) newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <package>[@range]",
		Short: "Declare a dependency and resolve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := app.ProjectRoot()
			if err != nil {
				return err
			}
			name, rangeText := splitSpec(args[0])
			plan, err := c.app.AddDependency(cmd.Context(), root, name, rangeText)
			if plan != nil {
				c.printPlan(plan)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "added %s, run `pakt sync` to apply\n", name)
			return nil
		},
	}
}

func (c *CLI) newUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <package>[@range]",
		Short: "Upgrade a dependency past its locked version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := app.ProjectRoot()
			if err != nil {
				return err
			}
			name, rangeText := splitSpec(args[0])
			plan, err := c.app.UpgradeDependency(cmd.Context(), root, name, rangeText)
			if plan != nil {
				c.printPlan(plan)
			}
			return err
		},
	}
}

// splitSpec separates "com.acme.pkg@^1.2.0" into name and range. A bare name
// returns an empty range, which means "highest published version".
func splitSpec(spec string) (name, rangeText string) {
	if i := strings.IndexByte(spec, '@'); i >= 0 {
		return spec[:i], spec[i+1:]
	}
	return spec, ""
}
