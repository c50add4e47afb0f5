package topology

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
)

// Projection picks the two axes used for node positions.
type Projection string

const (
	ProjectXY Projection = "xy"
	ProjectXZ Projection = "xz"
	ProjectZY Projection = "zy"
)

// ParseProjection validates a projection name. Empty selects ProjectXZ.
func ParseProjection(s string) (Projection, error) {
	switch p := Projection(strings.ToLower(s)); p {
	case "":
		return ProjectXZ, nil
	case ProjectXY, ProjectXZ, ProjectZY:
		return p, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown projection %q (want xy, xz or zy)", s)
	}
}

// Options configures diagram generation.
type Options struct {
	// Projection defaults to ProjectXZ, the ground plane.
	Projection Projection

	// Scale multiplies positions. Defaults to 1.
	Scale float64

	// Detailed adds positions and vertex normals to node labels.
	Detailed bool

	// Highlight marks vertices and edges. Faces highlight their edges.
	Highlight mesh.Selection
}

func (o *Options) setDefaults() {
	if o.Projection == "" {
		o.Projection = ProjectXZ
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
}

func (o Options) project(p mesh.Vector3) (float64, float64) {
	switch o.Projection {
	case ProjectXY:
		return p.X * o.Scale, p.Y * o.Scale
	case ProjectZY:
		return p.Z * o.Scale, p.Y * o.Scale
	default:
		return p.X * o.Scale, -p.Z * o.Scale
	}
}

// EdgeClass is the rendering class of one edge.
type EdgeClass int

const (
	SmoothInterior EdgeClass = iota
	HardInterior
	SmoothBoundary
	HardBoundary
	NonManifold
)

func (c EdgeClass) String() string {
	return [...]string{"smooth-interior", "hard-interior", "smooth-boundary", "hard-boundary", "non-manifold"}[c]
}

func (c EdgeClass) attrs() []string {
	switch c {
	case HardInterior:
		return []string{`color="black"`, `penwidth=3`}
	case SmoothBoundary:
		return []string{`color="#1f77b4"`, `style=dashed`, `penwidth=2`}
	case HardBoundary:
		return []string{`color="#d62728"`, `style=dashed`, `penwidth=3`}
	case NonManifold:
		return []string{`color="#9467bd"`, `penwidth=3`}
	default:
		return []string{`color="#999999"`, `penwidth=1.5`}
	}
}

// Classify returns the class of e.
func Classify(m mesh.Reader, e mesh.EdgeID) (EdgeClass, error) {
	faces, err := m.ConnectedFaces(e)
	if err != nil {
		return 0, errors.MeshQuery(err, "faces of edge %d", e)
	}
	if len(faces) > 2 {
		return NonManifold, nil
	}
	smooth, err := m.IsEdgeSmooth(e)
	if err != nil {
		return 0, errors.MeshQuery(err, "smoothing of edge %d", e)
	}
	switch {
	case len(faces) < 2 && smooth:
		return SmoothBoundary, nil
	case len(faces) < 2:
		return HardBoundary, nil
	case smooth:
		return SmoothInterior, nil
	default:
		return HardInterior, nil
	}
}

// ToDOT converts the edge graph of m to Graphviz DOT. name labels the graph.
func ToDOT(m mesh.Reader, name string, opts Options) (string, error) {
	opts.setDefaults()

	nv, err := m.VertexCount()
	if err != nil {
		return "", errors.MeshQuery(err, "vertex count")
	}
	ne, err := m.EdgeCount()
	if err != nil {
		return "", errors.MeshQuery(err, "edge count")
	}

	hiVerts, hiEdges, err := highlighted(m, opts.Highlight)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %q {\n", name)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3, fixedsize=false];\n")
	buf.WriteString("\n")

	for v := mesh.VertexID(0); int(v) < nv; v++ {
		p, err := m.Point(v)
		if err != nil {
			return "", errors.MeshQuery(err, "point of vertex %d", v)
		}
		label, err := fmtLabel(m, v, p, opts.Detailed)
		if err != nil {
			return "", err
		}
		x, y := opts.project(p)
		attrs := []string{
			fmt.Sprintf("label=%q", label),
			fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(x), fmtFloat(y)),
		}
		if hiVerts[v] {
			attrs = append(attrs, `fillcolor="#ff7f0e"`)
		}
		fmt.Fprintf(&buf, "  v%d [%s];\n", v, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for e := mesh.EdgeID(0); int(e) < ne; e++ {
		a, b, err := m.EdgeVertices(e)
		if err != nil {
			return "", errors.MeshQuery(err, "endpoints of edge %d", e)
		}
		class, err := Classify(m, e)
		if err != nil {
			return "", err
		}
		attrs := append([]string{fmt.Sprintf("tooltip=\"e%d %s\"", e, class)}, class.attrs()...)
		if hiEdges[e] {
			attrs = append(attrs, `color="#ff7f0e"`)
		}
		fmt.Fprintf(&buf, "  v%d -- v%d [%s];\n", a, b, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func fmtLabel(m mesh.Reader, v mesh.VertexID, p mesh.Vector3, detailed bool) (string, error) {
	id := strconv.Itoa(int(v))
	if !detailed {
		return id, nil
	}
	n, err := m.VertexNormal(v)
	if err != nil {
		return "", errors.MeshQuery(err, "normal of vertex %d", v)
	}
	return fmt.Sprintf("%s\np %s\nn %s", id, p, n), nil
}

func fmtFloat(f float64) string {
	if f == 0 {
		f = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func highlighted(m mesh.Reader, sel mesh.Selection) (map[mesh.VertexID]bool, map[mesh.EdgeID]bool, error) {
	verts := make(map[mesh.VertexID]bool)
	edges := make(map[mesh.EdgeID]bool)
	for _, c := range sel {
		switch c.Kind {
		case mesh.KindVertex:
			verts[mesh.VertexID(c.Index)] = true
		case mesh.KindEdge:
			edges[mesh.EdgeID(c.Index)] = true
		case mesh.KindFace:
			fe, err := m.FaceEdges(mesh.FaceID(c.Index))
			if err != nil {
				return nil, nil, errors.MeshQuery(err, "edges of face %d", c.Index)
			}
			for _, e := range fe {
				edges[e] = true
			}
		}
	}
	return verts, edges, nil
}

// =============================================================================
// Rendering
// =============================================================================

// Format is an output format of [Render].
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// RenderSVG renders DOT source to SVG.
func RenderSVG(dot string) ([]byte, error) {
	out, err := Render(dot, FormatSVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// Render renders DOT source with the embedded Graphviz.
func Render(dot string, format Format) ([]byte, error) {
	var gf graphviz.Format
	switch format {
	case FormatSVG:
		gf = graphviz.SVG
	case FormatPNG:
		gf = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported render format %q", format)
	}

	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gf, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
