package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/normalign/pkg/mesh"
	"github.com/matzehuels/normalign/pkg/normals"
)

// normalsCommand groups whole-mesh normal tools.
func (c *CLI) normalsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normals",
		Short: "Lock, unlock and recompute normals",
	}
	cmd.AddCommand(c.lockCommand(true))
	cmd.AddCommand(c.lockCommand(false))
	cmd.AddCommand(c.methodCommand())
	return cmd
}

func (c *CLI) lockCommand(lock bool) *cobra.Command {
	use, short := "unlock", "Unlock every normal so it follows the faces again"
	if lock {
		use, short = "lock", "Lock every normal at its current value"
	}
	return &cobra.Command{
		Use:   use + " <document>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var n int
			_, err := c.editDocument(cmd.Context(), args[0], "", func(_ context.Context, _ *docScene, m *mesh.Memory, _ *normals.History) (bool, error) {
				var err error
				n, err = normals.LockAll(m, lock)
				return err == nil, err
			})
			if err != nil {
				return err
			}
			printSuccess("%s %s on %s", pastTense(use), plural(n, "normal"), args[0])
			return nil
		},
	}
}

// methodCommand changes how default normals blend adjacent faces.
func (c *CLI) methodCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "method <document> <unweighted|area|angle|angle-area>",
		Short: "Set the face weighting of default normals",
		Long: `Set how unlocked normals blend the faces around a vertex and recompute them.
Locked normals keep their value.`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"unweighted", "area", "angle", "angle-area"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := mesh.ParseWeighting(args[1])
			if err != nil {
				return err
			}
			changed, err := c.editDocument(cmd.Context(), args[0], "", func(_ context.Context, _ *docScene, m *mesh.Memory, _ *normals.History) (bool, error) {
				if m.Weighting() == w {
					return false, nil
				}
				return true, m.SetWeighting(w)
			})
			if err != nil {
				return err
			}
			if !changed {
				printInfo("%s already uses %s weighting", args[0], w)
				return nil
			}
			printSuccess("Recomputed normals of %s with %s weighting", args[0], w)
			return nil
		},
	}
}

// edgesCommand softens or hardens edges.
func (c *CLI) edgesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edges",
		Short: "Soften or harden edges",
	}
	cmd.AddCommand(c.smoothCommand(true))
	cmd.AddCommand(c.smoothCommand(false))
	return cmd
}

func (c *CLI) smoothCommand(smooth bool) *cobra.Command {
	var list string
	use, short := "harden", "Mark edges hard so normals split across them"
	if smooth {
		use, short = "soften", "Mark edges smooth so normals are shared across them"
	}
	cmd := &cobra.Command{
		Use:   use + " <document>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := mesh.ParseIndices(list)
			if err != nil {
				return err
			}
			edges := make([]mesh.EdgeID, len(idx))
			for i, e := range idx {
				edges[i] = mesh.EdgeID(e)
			}
			_, err = c.editDocument(cmd.Context(), args[0], "", func(_ context.Context, _ *docScene, m *mesh.Memory, _ *normals.History) (bool, error) {
				if len(edges) == 0 {
					return false, nil
				}
				return true, normals.SetEdgesSmooth(m, edges, smooth)
			})
			if err != nil {
				return err
			}
			if len(edges) == 0 {
				printWarning("No edges given")
				return nil
			}
			printSuccess("%s %s on %s", pastTense(use), plural(len(edges), "edge"), args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&list, "edges", "e", "", "edge indices, e.g. 1,4-6")
	_ = cmd.MarkFlagRequired("edges")
	return cmd
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func pastTense(verb string) string {
	return fmt.Sprintf("%sed", capitalize(verb))
}
