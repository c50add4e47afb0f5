package normals

import (
	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
)

// ExtractSeed returns the Auto-Align seed vector for one component:
//
//   - face: its polygon normal
//   - edge: second endpoint minus first endpoint (a direction, not a normal)
//   - vertex: its averaged vertex normal
//
// Other kinds fail with [errors.ErrCodeUnsupportedComponent].
func ExtractSeed(m mesh.Reader, c mesh.Component) (mesh.Vector3, error) {
	switch c.Kind {
	case mesh.KindFace:
		n, err := m.PolygonNormal(mesh.FaceID(c.Index))
		return n, errors.MeshQuery(err, "seed from %s", c)

	case mesh.KindEdge:
		a, b, err := m.EdgeVertices(mesh.EdgeID(c.Index))
		if err != nil {
			return mesh.Vector3{}, errors.MeshQuery(err, "seed from %s", c)
		}
		pa, err := m.Point(a)
		if err != nil {
			return mesh.Vector3{}, errors.MeshQuery(err, "seed from %s", c)
		}
		pb, err := m.Point(b)
		if err != nil {
			return mesh.Vector3{}, errors.MeshQuery(err, "seed from %s", c)
		}
		return pb.Sub(pa), nil

	case mesh.KindVertex:
		n, err := m.VertexNormal(mesh.VertexID(c.Index))
		return n, errors.MeshQuery(err, "seed from %s", c)

	default:
		return mesh.Vector3{}, errors.New(errors.ErrCodeUnsupportedComponent, "cannot seed from %s component %s", c.Kind, c)
	}
}
