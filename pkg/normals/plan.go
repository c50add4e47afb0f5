package normals

import (
	"cmp"
	"encoding/json"
	"maps"
	"slices"

	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
)

// FaceVertex identifies one corner of a face.
type FaceVertex struct {
	Face   mesh.FaceID   `json:"face"`
	Vertex mesh.VertexID `json:"vertex"`
}

func compareFaceVertex(a, b FaceVertex) int {
	if c := cmp.Compare(a.Face, b.Face); c != 0 {
		return c
	}
	return cmp.Compare(a.Vertex, b.Vertex)
}

// Plan is a set of absolute normal assignments for one mesh.
//
// A vertex appears either in Vertices (one uniform normal) or in the corners
// of FaceVertices, never in both. [Plan.Validate] checks this.
type Plan struct {
	Vertices     map[mesh.VertexID]mesh.Vector3
	FaceVertices map[FaceVertex]mesh.Vector3
}

// NewPlan returns an empty plan.
func NewPlan() Plan {
	return Plan{
		Vertices:     make(map[mesh.VertexID]mesh.Vector3),
		FaceVertices: make(map[FaceVertex]mesh.Vector3),
	}
}

// Empty reports whether the plan assigns nothing.
func (p Plan) Empty() bool {
	return len(p.Vertices) == 0 && len(p.FaceVertices) == 0
}

// Len returns the number of assignments.
func (p Plan) Len() int {
	return len(p.Vertices) + len(p.FaceVertices)
}

// SortedVertices returns the planned vertices in ascending order.
func (p Plan) SortedVertices() []mesh.VertexID {
	return slices.Sorted(maps.Keys(p.Vertices))
}

// SortedFaceVertices returns the planned corners ordered by face, then vertex.
func (p Plan) SortedFaceVertices() []FaceVertex {
	return slices.SortedFunc(maps.Keys(p.FaceVertices), compareFaceVertex)
}

// TouchedVertices returns every vertex the plan writes, ascending.
func (p Plan) TouchedVertices() []mesh.VertexID {
	seen := make(map[mesh.VertexID]bool, len(p.Vertices))
	for v := range p.Vertices {
		seen[v] = true
	}
	for fv := range p.FaceVertices {
		seen[fv.Vertex] = true
	}
	return slices.Sorted(maps.Keys(seen))
}

// Validate rejects plans that assign a vertex both uniformly and per corner.
func (p Plan) Validate() error {
	for _, fv := range p.SortedFaceVertices() {
		if _, ok := p.Vertices[fv.Vertex]; ok {
			return errors.New(errors.ErrCodeInconsistentPlan,
				"vertex %d planned both as vertex normal and on face %d", fv.Vertex, fv.Face)
		}
	}
	return nil
}

// Normalized returns a copy with every vector scaled to unit length.
func (p Plan) Normalized() Plan {
	out := NewPlan()
	for v, n := range p.Vertices {
		out.Vertices[v] = n.Normalize()
	}
	for fv, n := range p.FaceVertices {
		out.FaceVertices[fv] = n.Normalize()
	}
	return out
}

// =============================================================================
// JSON
// =============================================================================

type vertexAssignment struct {
	Vertex mesh.VertexID `json:"vertex"`
	Normal mesh.Vector3  `json:"normal"`
}

type cornerAssignment struct {
	FaceVertex
	Normal mesh.Vector3 `json:"normal"`
}

type planJSON struct {
	Vertices     []vertexAssignment `json:"vertices,omitempty"`
	FaceVertices []cornerAssignment `json:"face_vertices,omitempty"`
}

func (p Plan) MarshalJSON() ([]byte, error) {
	var out planJSON
	for _, v := range p.SortedVertices() {
		out.Vertices = append(out.Vertices, vertexAssignment{Vertex: v, Normal: p.Vertices[v]})
	}
	for _, fv := range p.SortedFaceVertices() {
		out.FaceVertices = append(out.FaceVertices, cornerAssignment{FaceVertex: fv, Normal: p.FaceVertices[fv]})
	}
	return json.Marshal(out)
}

func (p *Plan) UnmarshalJSON(data []byte) error {
	var in planJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*p = NewPlan()
	for _, a := range in.Vertices {
		p.Vertices[a.Vertex] = a.Normal
	}
	for _, a := range in.FaceVertices {
		p.FaceVertices[a.FaceVertex] = a.Normal
	}
	return nil
}
