package normals

import (
	"github.com/matzehuels/normalign/pkg/mesh"
)

// PlanAuto plans Auto-Align for a face selection: every corner inside the
// selection takes seed, corners on the selection border keep their current
// normals so the border stays continuous.
//
// Per walked edge and its endpoints:
//
//   - interior and smooth: both vertices take seed
//   - interior and hard: both corners on each connected face take seed
//   - selection border and smooth: both vertices take the normal currently
//     stored on the unselected face
//   - selection border and hard: corners on selected faces take seed, corners
//     on unselected faces keep their current normal
//
// When edges disagree about a vertex the last edge visited wins. Vertices
// that end up with both a uniform and a per-corner assignment are split into
// corner assignments on every walked face around them.
func PlanAuto(m mesh.Reader, faces []mesh.FaceID, seed mesh.Vector3) (Plan, error) {
	p := NewPlan()
	if len(faces) == 0 {
		return p, nil
	}

	w, err := WalkFaces(m, faces)
	if err != nil {
		return Plan{}, err
	}

	for _, e := range w.Edges {
		ends := [2]mesh.VertexID{e.V0, e.V1}
		interior := w.Interior(e)

		switch {
		case interior && e.Smooth:
			for _, v := range ends {
				p.Vertices[v] = seed
			}

		case interior:
			for _, f := range e.Faces {
				for _, v := range ends {
					p.FaceVertices[FaceVertex{Face: f, Vertex: v}] = seed
				}
			}

		case e.Smooth:
			for _, f := range e.Faces {
				if w.FaceSet[f] {
					continue
				}
				for _, v := range ends {
					p.Vertices[v] = e.Normals[FaceVertex{Face: f, Vertex: v}]
				}
			}

		default:
			for _, f := range e.Faces {
				for _, v := range ends {
					fv := FaceVertex{Face: f, Vertex: v}
					if w.FaceSet[f] {
						p.FaceVertices[fv] = seed
					} else {
						p.FaceVertices[fv] = e.Normals[fv]
					}
				}
			}
		}
	}

	splitMixed(&p, w)
	return p, nil
}

// splitMixed moves vertices that have both kinds of assignment into corner
// assignments, filling walked corners that have none yet.
func splitMixed(p *Plan, w *FaceWalk) {
	mixed := make(map[mesh.VertexID]bool)
	for fv := range p.FaceVertices {
		if _, ok := p.Vertices[fv.Vertex]; ok {
			mixed[fv.Vertex] = true
		}
	}
	for v := range mixed {
		n := p.Vertices[v]
		delete(p.Vertices, v)
		for _, f := range w.VertexFaces(v) {
			fv := FaceVertex{Face: f, Vertex: v}
			if _, ok := p.FaceVertices[fv]; !ok {
				p.FaceVertices[fv] = n
			}
		}
	}
}
