package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
	"github.com/matzehuels/normalign/pkg/render/topology"
)

type inspectOpts struct {
	selection  string
	projection string
	detailed   bool
	dotFile    string
	svgFile    string
	pngFile    string
}

// inspectCommand prints mesh statistics and renders the edge diagram.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect <document>",
		Short: "Show mesh statistics and render the edge diagram",
		Long: `Print vertex, edge and face counts with the edge classes of a document.
--dot, --svg and --png write a diagram where hard edges are bold and boundary
edges dashed. --select highlights components in the diagram.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.selection, "select", "s", "", "components to highlight, e.g. f:0,e:3")
	cmd.Flags().StringVar(&opts.projection, "projection", string(topology.ProjectXZ), "diagram plane: xy, xz or zy")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with positions and normals")
	cmd.Flags().StringVar(&opts.dotFile, "dot", "", "write the diagram as DOT")
	cmd.Flags().StringVar(&opts.svgFile, "svg", "", "write the diagram as SVG")
	cmd.Flags().StringVar(&opts.pngFile, "png", "", "write the diagram as PNG")

	return cmd
}

func (c *CLI) runInspect(path string, opts inspectOpts) error {
	m, err := mesh.ReadDocumentFile(path)
	if err != nil {
		return err
	}

	nv, _ := m.VertexCount()
	ne, _ := m.EdgeCount()
	nf, _ := m.FaceCount()

	classes := make(map[topology.EdgeClass]int)
	for e := mesh.EdgeID(0); int(e) < ne; e++ {
		cls, err := topology.Classify(m, e)
		if err != nil {
			return err
		}
		classes[cls]++
	}

	fmt.Fprintln(stdout, StyleTitle.Render(m.Name()))
	printKeyValue("vertices", fmt.Sprint(nv))
	printKeyValue("edges", fmt.Sprint(ne))
	printKeyValue("faces", fmt.Sprint(nf))
	printKeyValue("weighting", m.Weighting().String())
	printKeyValue("locked", fmt.Sprint(len(m.LockedNormals())))
	for _, cls := range []topology.EdgeClass{topology.SmoothInterior, topology.HardInterior, topology.SmoothBoundary, topology.HardBoundary, topology.NonManifold} {
		if n := classes[cls]; n > 0 {
			printKeyValue(cls.String(), fmt.Sprint(n))
		}
	}

	if opts.dotFile == "" && opts.svgFile == "" && opts.pngFile == "" {
		return nil
	}

	proj, err := topology.ParseProjection(opts.projection)
	if err != nil {
		return err
	}
	topts := topology.Options{Projection: proj, Detailed: opts.detailed}
	if opts.selection != "" {
		if topts.Highlight, err = mesh.ParseSelection(m.Name(), opts.selection); err != nil {
			return err
		}
	}
	dot, err := topology.ToDOT(m, m.Name(), topts)
	if err != nil {
		return err
	}

	printNewline()
	if opts.dotFile != "" {
		if err := writeOutput(opts.dotFile, []byte(dot)); err != nil {
			return err
		}
	}
	if opts.svgFile != "" {
		svg, err := topology.RenderSVG(dot)
		if err != nil {
			return err
		}
		if err := writeOutput(opts.svgFile, svg); err != nil {
			return err
		}
	}
	if opts.pngFile != "" {
		png, err := topology.Render(dot, topology.FormatPNG)
		if err != nil {
			return err
		}
		if err := writeOutput(opts.pngFile, png); err != nil {
			return err
		}
	}
	return nil
}

func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	printFile(path)
	return nil
}
