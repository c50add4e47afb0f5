package normals

import (
	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
)

// Apply writes every assignment of p. Values are absolute, so applying the
// same plan twice leaves the mesh as applying it once.
func Apply(p Plan, m mesh.Writer) error {
	for _, v := range p.SortedVertices() {
		if err := m.SetVertexNormal(v, p.Vertices[v]); err != nil {
			return errors.MeshQuery(err, "set normal of vertex %d", v)
		}
	}
	for _, fv := range p.SortedFaceVertices() {
		if err := m.SetFaceVertexNormal(fv.Face, fv.Vertex, p.FaceVertices[fv]); err != nil {
			return errors.MeshQuery(err, "set normal of vertex %d on face %d", fv.Vertex, fv.Face)
		}
	}
	return nil
}

// Revert restores the state captured in s: vertex normals first, then corner
// normals, then one bulk lock and one bulk unlock.
func Revert(s Snapshot, m mesh.Writer) error {
	p := Plan{Vertices: s.Vertices, FaceVertices: s.FaceVertices}
	if err := Apply(p, m); err != nil {
		return err
	}

	locked, unlocked := s.LockPartition()
	if err := m.LockVertexNormals(locked); err != nil {
		return errors.MeshQuery(err, "restore locked normals")
	}
	if err := m.UnlockVertexNormals(unlocked); err != nil {
		return errors.MeshQuery(err, "restore unlocked normals")
	}
	return nil
}
