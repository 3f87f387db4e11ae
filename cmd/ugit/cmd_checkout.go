package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckoutCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <name>",
		Short: "Restore a commit into the working directory and detach HEAD at it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}
			h, err := r.GetOid(args[0])
			if err != nil {
				return err
			}
			if err := r.Checkout(h); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "HEAD is now at %s\n", shortHash(h))
			return nil
		},
	}
}

func newSwitchCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <branch>",
		Short: "Switch branches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}
			if err := r.SwitchBranch(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "switched to branch '%s'\n", args[0])
			return nil
		},
	}
}
