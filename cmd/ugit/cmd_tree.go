package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWriteTreeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "write-tree",
		Short: "Snapshot the working directory and print the tree id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}
			h, err := r.WriteTree(r.RootDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}

func newReadTreeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "read-tree <name>",
		Short: "Replace the working directory with a tree",
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
			return r.ReadTree(h)
		},
	}
}
