package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/object"
)

func newHashObjectCmd(g *globalFlags) *cobra.Command {
	var objType string

	cmd := &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Store a file as an object and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(g.path(args[0]))
			if err != nil {
				return fmt.Errorf("hash-object: %w", err)
			}
			h, err := r.Store.Write(object.ObjectType(objType), data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&objType, "type", "t", string(object.TypeBlob), "object type [blob,tree,commit]")

	return cmd
}
