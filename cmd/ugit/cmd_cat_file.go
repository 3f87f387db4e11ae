package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/repo"
)

func newCatFileCmd(g *globalFlags) *cobra.Command {
	var expect string
	var showType bool

	cmd := &cobra.Command{
		Use:   "cat-file [-t type] <name>",
		Short: "Print the content of an object",
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

			var (
				objType object.ObjectType
				data    []byte
			)
			if expect != "" {
				objType = object.ObjectType(expect)
				if !objType.Valid() {
					return fmt.Errorf("cat-file: unknown object type %q: %w", expect, repo.ErrInvalidName)
				}
				data, err = r.Store.ReadExpect(h, objType)
			} else {
				objType, data, err = r.Store.Read(h)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showType {
				_, err = out.Write([]byte(string(objType) + "\n"))
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&expect, "type", "t", "", "fail unless the object has this type [blob,tree,commit]")
	cmd.Flags().BoolVar(&showType, "show-type", false, "print the object type instead of its content")

	return cmd
}
