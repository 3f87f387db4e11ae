package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/odvcencio/ugit/pkg/object"
	"github.com/odvcencio/ugit/pkg/repo"
)

func newLogCmd(g *globalFlags) *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log [name]",
		Short: "Show commit history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.openRepo()
			if err != nil {
				return err
			}

			var start object.Hash
			if len(args) > 0 {
				start, err = r.GetOid(args[0])
				if err != nil {
					return err
				}
			} else {
				head, err := r.GetRef(repo.HeadRef)
				if err != nil {
					return fmt.Errorf("cannot resolve HEAD: %w", err)
				}
				start = head.Hash()
			}
			if start == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no commits yet")
				return nil
			}

			entries, err := r.Log(start, limit)
			if err != nil {
				return err
			}
			decorations, err := refDecorations(r)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, entry := range entries {
				decoration := ""
				if names := decorations[entry.Hash]; len(names) > 0 {
					decoration = " (" + strings.Join(names, ", ") + ")"
				}

				if oneline {
					fmt.Fprintf(out, "%s%s %s\n", shortHash(entry.Hash), decoration, firstLine(entry.Commit.Message))
					continue
				}
				fmt.Fprintf(out, "commit %s%s\n", entry.Hash, decoration)
				fmt.Fprintln(out)
				for _, line := range strings.Split(entry.Commit.Message, "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of commits to show (0 for all)")

	return cmd
}

// refDecorations maps each commit id to the short names of the refs that
// point at it, in IterRefs order.
func refDecorations(r *repo.Repo) (map[object.Hash][]string, error) {
	refs, err := r.IterRefs()
	if err != nil {
		return nil, err
	}
	out := make(map[object.Hash][]string)
	for _, ref := range refs {
		h := ref.Value.Hash()
		if h == "" {
			continue
		}
		out[h] = append(out[h], shortRefName(ref.Name))
	}
	return out, nil
}

func shortRefName(name string) string {
	for _, prefix := range []string{"refs/heads/", "refs/tags/", "refs/"} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

func shortHash(h object.Hash) string {
	s := string(h)
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}
