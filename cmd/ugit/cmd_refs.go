package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/repo"
)

func newShowRefCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show-ref",
		Short: "List refs and the objects they resolve to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}
			refs, err := r.IterRefs()
			if err != nil {
				return err
			}
			for _, ref := range refs {
				if ref.Value.IsAbsent() {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ref.Value, ref.Name)
			}
			return nil
		},
	}
}

func newSymbolicRefCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "symbolic-ref <name> [target]",
		Short: "Read or set a symbolic ref",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}
			if len(args) == 2 {
				return r.SetSymbolicRef(args[0], args[1])
			}

			v, err := r.ReadRef(args[0], false)
			if err != nil {
				return err
			}
			if !v.Symbolic {
				return fmt.Errorf("ref %s is not a symbolic ref: %w", args[0], repo.ErrPrecondition)
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.Value)
			return nil
		},
	}
}

func newVerifyCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify object integrity and ref reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			report, err := r.Verify()
			if err != nil {
				return err
			}

			fmt.Fprintf(
				cmd.OutOrStdout(),
				"ok: verified %d object(s), %d ref(s), %d reachable object(s)\n",
				report.Objects,
				report.Refs,
				report.Reachable,
			)
			return nil
		},
	}
}
