package mesh

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/normalign/pkg/errors"
)

// ComponentKind identifies what a selected component refers to.
type ComponentKind int

const (
	KindUnknown ComponentKind = iota
	KindVertex
	KindEdge
	KindFace
)

func (k ComponentKind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindEdge:
		return "edge"
	case KindFace:
		return "face"
	default:
		return "unknown"
	}
}

func (k ComponentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ComponentKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "vertex":
		*k = KindVertex
	case "edge":
		*k = KindEdge
	case "face":
		*k = KindFace
	default:
		*k = KindUnknown
	}
	return nil
}

// prefix returns the short selection prefix for k ("v", "e", "f").
func (k ComponentKind) prefix() string {
	switch k {
	case KindVertex:
		return "v"
	case KindEdge:
		return "e"
	case KindFace:
		return "f"
	default:
		return "?"
	}
}

// Component is one selected element of a named mesh.
type Component struct {
	Mesh  string        `json:"mesh"`
	Kind  ComponentKind `json:"kind"`
	Index int           `json:"index"`
}

func (c Component) String() string {
	return fmt.Sprintf("%s.%s[%d]", c.Mesh, c.Kind.prefix(), c.Index)
}

// Selection is an ordered list of components. Order matters: the last
// component seeds Auto-Align.
type Selection []Component

// Last returns the most recently selected component.
func (s Selection) Last() (Component, bool) {
	if len(s) == 0 {
		return Component{}, false
	}
	return s[len(s)-1], true
}

// Meshes returns the distinct mesh names in order of first appearance.
func (s Selection) Meshes() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range s {
		if !seen[c.Mesh] {
			seen[c.Mesh] = true
			names = append(names, c.Mesh)
		}
	}
	return names
}

// OnMesh returns the components of one mesh, keeping selection order.
func (s Selection) OnMesh(name string) Selection {
	var out Selection
	for _, c := range s {
		if c.Mesh == name {
			out = append(out, c)
		}
	}
	return out
}

// Faces returns the face indices in selection order.
func (s Selection) Faces() []FaceID {
	var out []FaceID
	for _, c := range s {
		if c.Kind == KindFace {
			out = append(out, FaceID(c.Index))
		}
	}
	return out
}

// Edges returns the edge indices in selection order.
func (s Selection) Edges() []EdgeID {
	var out []EdgeID
	for _, c := range s {
		if c.Kind == KindEdge {
			out = append(out, EdgeID(c.Index))
		}
	}
	return out
}

// Vertices returns the vertex indices in selection order.
func (s Selection) Vertices() []VertexID {
	var out []VertexID
	for _, c := range s {
		if c.Kind == KindVertex {
			out = append(out, VertexID(c.Index))
		}
	}
	return out
}

// ParseSelection parses a component list such as "f:1,e:2,v:3" or "f:0-3"
// into a selection on the named mesh. Ranges expand in ascending order.
func ParseSelection(meshName, list string) (Selection, error) {
	if err := errors.ValidateMeshName(meshName); err != nil {
		return nil, err
	}

	var sel Selection
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		prefix, rest, ok := strings.Cut(part, ":")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidSelection, "component %q needs a kind prefix (v:, e:, f:)", part)
		}

		var kind ComponentKind
		switch strings.ToLower(prefix) {
		case "v", "vtx", "vertex":
			kind = KindVertex
		case "e", "edge":
			kind = KindEdge
		case "f", "face":
			kind = KindFace
		default:
			return nil, errors.New(errors.ErrCodeInvalidSelection, "unknown component kind %q", prefix)
		}

		lo, hi, err := parseRange(rest)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSelection, err, "component %q", part)
		}
		for i := lo; i <= hi; i++ {
			sel = append(sel, Component{Mesh: meshName, Kind: kind, Index: i})
		}
	}
	return sel, nil
}

func parseRange(s string) (int, int, error) {
	from, to, isRange := strings.Cut(s, "-")
	lo, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, fmt.Errorf("bad index %q", from)
	}
	if !isRange {
		if lo < 0 {
			return 0, 0, fmt.Errorf("negative index %d", lo)
		}
		return lo, lo, nil
	}
	hi, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return 0, 0, fmt.Errorf("bad index %q", to)
	}
	if lo < 0 || hi < lo {
		return 0, 0, fmt.Errorf("bad range %d-%d", lo, hi)
	}
	return lo, hi, nil
}

// ParseIndices parses a comma separated list of indices and ranges ("1,4-6").
func ParseIndices(list string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, err := parseRange(part)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "index list %q", list)
		}
		for i := lo; i <= hi; i++ {
			out = append(out, i)
		}
	}
	return out, nil
}
