package normals

import (
	"slices"

	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
)

// =============================================================================
// Face walk (Auto-Align)
// =============================================================================

// WalkedEdge is one edge incident to a selected face.
type WalkedEdge struct {
	Edge   mesh.EdgeID
	V0, V1 mesh.VertexID
	Faces  []mesh.FaceID
	Smooth bool

	// Normals holds the face-vertex normals at both endpoints for every
	// connected face, read before anything is written.
	Normals map[FaceVertex]mesh.Vector3
}

// FaceWalk is the adjacency gathered around a face selection.
type FaceWalk struct {
	FaceSet map[mesh.FaceID]bool
	Edges   []WalkedEdge // ascending edge id
}

// Interior reports whether every face connected to e is selected. Mesh
// boundary edges of a selected face count as interior.
func (w *FaceWalk) Interior(e WalkedEdge) bool {
	for _, f := range e.Faces {
		if !w.FaceSet[f] {
			return false
		}
	}
	return true
}

// VertexFaces returns the walked faces around v in ascending order.
func (w *FaceWalk) VertexFaces(v mesh.VertexID) []mesh.FaceID {
	var out []mesh.FaceID
	for _, e := range w.Edges {
		if e.V0 != v && e.V1 != v {
			continue
		}
		for _, f := range e.Faces {
			if !slices.Contains(out, f) {
				out = append(out, f)
			}
		}
	}
	slices.Sort(out)
	return out
}

// WalkFaces lists every edge touching the selected faces once, in ascending
// edge order, together with its connected faces and current normals.
func WalkFaces(m mesh.Reader, faces []mesh.FaceID) (*FaceWalk, error) {
	w := &FaceWalk{FaceSet: make(map[mesh.FaceID]bool, len(faces))}

	var edges []mesh.EdgeID
	for _, f := range faces {
		if w.FaceSet[f] {
			continue
		}
		w.FaceSet[f] = true
		fe, err := m.FaceEdges(f)
		if err != nil {
			return nil, errors.MeshQuery(err, "edges of face %d", f)
		}
		edges = append(edges, fe...)
	}
	slices.Sort(edges)
	edges = slices.Compact(edges)

	for _, e := range edges {
		we := WalkedEdge{Edge: e, Normals: make(map[FaceVertex]mesh.Vector3)}
		var err error
		if we.V0, we.V1, err = m.EdgeVertices(e); err != nil {
			return nil, errors.MeshQuery(err, "endpoints of edge %d", e)
		}
		if we.Faces, err = m.ConnectedFaces(e); err != nil {
			return nil, errors.MeshQuery(err, "faces of edge %d", e)
		}
		if we.Smooth, err = m.IsEdgeSmooth(e); err != nil {
			return nil, errors.MeshQuery(err, "smoothing of edge %d", e)
		}
		for _, f := range we.Faces {
			for _, v := range []mesh.VertexID{we.V0, we.V1} {
				n, err := m.FaceVertexNormal(f, v)
				if err != nil {
					return nil, errors.MeshQuery(err, "normal of vertex %d on face %d", v, f)
				}
				we.Normals[FaceVertex{Face: f, Vertex: v}] = n
			}
		}
		w.Edges = append(w.Edges, we)
	}
	return w, nil
}

// =============================================================================
// Edge walk (Rounded-Align)
// =============================================================================

// SelectedEdge is one selected edge with the polygon normals of its faces.
type SelectedEdge struct {
	Edge        mesh.EdgeID
	V0, V1      mesh.VertexID
	Faces       []mesh.FaceID
	Smooth      bool
	FaceNormals []mesh.Vector3 // parallel to Faces
}

// EdgeWalk is the adjacency gathered around an edge selection.
type EdgeWalk struct {
	Edges    []SelectedEdge // selection order
	Selected map[mesh.EdgeID]bool

	// Faces is the edge-derived face list, in order of first appearance.
	Faces []mesh.FaceID
}

// WalkEdges reads the selected edges in selection order. Repeated edges are
// walked once and edges without faces are skipped.
func WalkEdges(m mesh.Reader, edges []mesh.EdgeID) (*EdgeWalk, error) {
	w := &EdgeWalk{Selected: make(map[mesh.EdgeID]bool, len(edges))}

	for _, e := range edges {
		if w.Selected[e] {
			continue
		}
		se := SelectedEdge{Edge: e}
		var err error
		if se.V0, se.V1, err = m.EdgeVertices(e); err != nil {
			return nil, errors.MeshQuery(err, "endpoints of edge %d", e)
		}
		if se.Faces, err = m.ConnectedFaces(e); err != nil {
			return nil, errors.MeshQuery(err, "faces of edge %d", e)
		}
		if len(se.Faces) == 0 {
			continue
		}
		if se.Smooth, err = m.IsEdgeSmooth(e); err != nil {
			return nil, errors.MeshQuery(err, "smoothing of edge %d", e)
		}
		for _, f := range se.Faces {
			n, err := m.PolygonNormal(f)
			if err != nil {
				return nil, errors.MeshQuery(err, "normal of face %d", f)
			}
			se.FaceNormals = append(se.FaceNormals, n)
			if !slices.Contains(w.Faces, f) {
				w.Faces = append(w.Faces, f)
			}
		}
		w.Selected[e] = true
		w.Edges = append(w.Edges, se)
	}
	return w, nil
}

// BoundaryEdges returns every mesh boundary edge, independent of selection.
func BoundaryEdges(m mesh.Reader) (map[mesh.EdgeID]bool, error) {
	n, err := m.EdgeCount()
	if err != nil {
		return nil, errors.MeshQuery(err, "edge count")
	}
	out := make(map[mesh.EdgeID]bool)
	for e := mesh.EdgeID(0); int(e) < n; e++ {
		onBoundary, err := m.IsEdgeOnBoundary(e)
		if err != nil {
			return nil, errors.MeshQuery(err, "boundary flag of edge %d", e)
		}
		if onBoundary {
			out[e] = true
		}
	}
	return out, nil
}
