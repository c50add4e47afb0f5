package normals

import (
	"slices"

	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
)

// PlanRounded plans Rounded-Align for an edge selection.
//
// Each selected edge assigns one vector to both endpoints: the sum of its
// first two polygon normals when smooth with at least two faces, otherwise
// the polygon normal of its first face. Later edges overwrite earlier ones. Vectors are left
// unnormalized.
//
// A planned vertex touching a mesh boundary edge, or a hard edge outside the
// selection, cannot take one uniform normal. It is moved to corner
// assignments on the faces it shares with the selected edges.
func PlanRounded(m mesh.Reader, edges []mesh.EdgeID) (Plan, error) {
	p := NewPlan()
	if len(edges) == 0 {
		return p, nil
	}

	w, err := WalkEdges(m, edges)
	if err != nil {
		return Plan{}, err
	}
	if len(w.Edges) == 0 {
		return p, nil
	}

	boundary, err := BoundaryEdges(m)
	if err != nil {
		return Plan{}, err
	}

	for _, e := range w.Edges {
		n := e.FaceNormals[0]
		if e.Smooth && len(e.FaceNormals) >= 2 {
			n = n.Add(e.FaceNormals[1])
		}
		p.Vertices[e.V0] = n
		p.Vertices[e.V1] = n
	}

	for _, v := range p.SortedVertices() {
		demote, err := needsCorners(m, v, w, boundary)
		if err != nil {
			return Plan{}, err
		}
		if !demote {
			continue
		}

		vf, err := m.VertexFaces(v)
		if err != nil {
			return Plan{}, errors.MeshQuery(err, "faces of vertex %d", v)
		}
		n := p.Vertices[v]
		delete(p.Vertices, v)
		for _, f := range w.Faces {
			if slices.Contains(vf, f) {
				p.FaceVertices[FaceVertex{Face: f, Vertex: v}] = n
			}
		}
	}
	return p, nil
}

// needsCorners reports whether v touches a boundary edge or an unselected
// hard edge.
func needsCorners(m mesh.Reader, v mesh.VertexID, w *EdgeWalk, boundary map[mesh.EdgeID]bool) (bool, error) {
	incident, err := m.ConnectedEdges(v)
	if err != nil {
		return false, errors.MeshQuery(err, "edges of vertex %d", v)
	}
	for _, e := range incident {
		if boundary[e] {
			return true, nil
		}
		if w.Selected[e] {
			continue
		}
		smooth, err := m.IsEdgeSmooth(e)
		if err != nil {
			return false, errors.MeshQuery(err, "smoothing of edge %d", e)
		}
		if !smooth {
			return true, nil
		}
	}
	return false, nil
}
