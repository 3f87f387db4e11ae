package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/repo"
)

func newTagCmd(g *globalFlags) *cobra.Command {
	var showHash bool

	cmd := &cobra.Command{
		Use:   "tag [name] [target]",
		Short: "List or create lightweight tags",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				tags, err := r.ListTags()
				if err != nil {
					return err
				}
				for _, tag := range tags {
					if showHash {
						fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tag.Value, tag.Name)
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), tag.Name)
					}
				}
				return nil
			}

			target := repo.HeadAlias
			if len(args) == 2 {
				target = args[1]
			}
			h, err := r.GetOid(target)
			if err != nil {
				return err
			}
			return r.CreateTag(args[0], h)
		},
	}

	cmd.Flags().BoolVar(&showHash, "show-hash", false, "show tag target hashes when listing")

	return cmd
}

func newBranchCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch [name] [target]",
		Short: "List or create branches",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				branches, err := r.ListBranches()
				if err != nil {
					return err
				}
				current, err := r.CurrentBranch()
				if err != nil {
					return err
				}
				for _, b := range branches {
					marker := " "
					if b.Name == current {
						marker = "*"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, b.Name)
				}
				return nil
			}

			target := repo.HeadAlias
			if len(args) == 2 {
				target = args[1]
			}
			h, err := r.GetOid(target)
			if err != nil {
				return err
			}
			if err := r.CreateBranch(args[0], h); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "branch '%s' at %s\n", args[0], shortHash(h))
			return nil
		},
	}

	return cmd
}
