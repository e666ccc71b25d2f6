package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newReposCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List configured repository sources and their cache state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			refresh, _ := cmd.Flags().GetBool("refresh")
			if refresh {
				if _, err := c.app.RefreshAllRepositories(cmd.Context()); err != nil {
					return err
				}
			}

			statuses, err := c.app.ListRepositories(cmd.Context())
			if err != nil {
				return err
			}
			for _, status := range statuses {
				state := "not cached"
				if status.Cached {
					state = fmt.Sprintf("%d packages", status.Packages)
				}
				enabled := ""
				if !status.Source.Enabled {
					enabled = " (disabled)"
				}
				fmt.Fprintf(c.out, "%s  %s  priority=%d  %s%s\n",
					status.Source.ID, status.Source.URL, status.Source.Priority, state, enabled)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("refresh", "r", false, "Fetch fresh indices before listing")
	cmd.AddCommand(c.newReposRefreshCmd())
	return cmd
}

func (c *CLI) newReposRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh <source-id>",
		Short: "Fetch a fresh index for one source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := c.app.RefreshRepository(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "refreshed %s: %d packages\n", args[0], len(idx.Packages))
			return nil
		},
	}
}
