package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/normalign/pkg/mesh"
	"github.com/matzehuels/normalign/pkg/normals"
)

// alignOpts holds flags shared by the align subcommands.
type alignOpts struct {
	selection string
	output    string
	normalize bool
	dryRun    bool
}

// alignCommand creates the align command with one subcommand per variant.
func (c *CLI) alignCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "align",
		Short: "Align vertex normals of a mesh document",
	}
	cmd.AddCommand(c.alignVariantCommand(normals.VariantAuto,
		"Align the normals under selected faces to the last selected component",
		`Faces in --select are aligned to the normal of the LAST selected component:
a face's polygon normal, an edge's direction (second endpoint minus first),
or a vertex normal.
Vertices on the border of the face selection keep their neighbours' normals
on unselected faces.

Examples:
  normalign align auto plane.yaml --select f:0-3
  normalign align auto plane.yaml --select f:0-3,e:7`))
	cmd.AddCommand(c.alignVariantCommand(normals.VariantRounded,
		"Blend normals along selected edges",
		`Both endpoints of each edge in --select take the blend of the faces around
the edge. Hard edges keep split normals, one per side.

Example:
  normalign align rounded cube.yaml --select e:0-3 --normalize`))
	return cmd
}

func (c *CLI) alignVariantCommand(variant normals.Variant, short, long string) *cobra.Command {
	var opts alignOpts

	cmd := &cobra.Command{
		Use:   string(variant) + " <document>",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAlign(cmd.Context(), variant, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.selection, "select", "s", "", "components, e.g. f:1-4,e:2,v:3 (last one seeds auto)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result here instead of in place")
	cmd.Flags().BoolVar(&opts.normalize, "normalize", false, "scale written normals to unit length")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "plan only, do not write")
	_ = cmd.MarkFlagRequired("select")

	return cmd
}

func (c *CLI) runAlign(ctx context.Context, variant normals.Variant, path string, opts alignOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	nopts := normals.Options{
		Normalize: opts.normalize || c.Config.Align.Normalize,
		Logger:    logger,
	}

	var inv *normals.Invocation
	changed, err := c.editDocument(ctx, path, opts.output, func(ctx context.Context, scene *docScene, m *mesh.Memory, h *normals.History) (bool, error) {
		sel, err := mesh.ParseSelection(m.Name(), opts.selection)
		if err != nil {
			return false, err
		}
		inv = normals.NewInvocation(scene, variant, sel, nopts)
		if opts.dryRun {
			return false, inv.Plan(ctx)
		}
		if err := inv.Do(ctx); err != nil {
			return false, err
		}
		h.Push(inv.Entry())
		return inv.Undoable(), nil
	})
	if err != nil {
		return err
	}

	entry := inv.Entry()
	if entry == nil {
		printWarning("Nothing to align for this selection")
		return nil
	}

	if opts.dryRun {
		printInfo("Would write %s on %s", plural(entry.Assignments(), "normal"), path)
		printPlan(entry)
		return nil
	}

	prog.done(fmt.Sprintf("Aligned %s (%s)", plural(entry.Assignments(), "normal"), variant))
	if changed {
		out := opts.output
		if out == "" {
			out = path
		}
		printSuccess("Aligned %s", path)
		printFile(out)
		printNextStep("Undo with", "normalign undo "+out)
	}
	return nil
}

// printPlan lists the planned assignments of every step.
func printPlan(e *normals.Entry) {
	for _, st := range e.Steps {
		for _, v := range st.Plan.SortedVertices() {
			printDetail("%s.v[%d] %s %s", st.Mesh, v, iconArrow, st.Plan.Vertices[v])
		}
		for _, fv := range st.Plan.SortedFaceVertices() {
			printDetail("%s.vtxFace[%d][%d] %s %s", st.Mesh, fv.Vertex, fv.Face, iconArrow, st.Plan.FaceVertices[fv])
		}
	}
}
