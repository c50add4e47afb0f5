package normals

import (
	"testing"

	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
)

// testScene resolves meshes by name.
type testScene map[string]mesh.Mesh

func (s testScene) Mesh(name string) (mesh.Mesh, error) {
	m, ok := s[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no mesh %q", name)
	}
	return m, nil
}

// countingMesh counts every write that reaches the wrapped mesh.
type countingMesh struct {
	*mesh.Memory
	writes int
}

func (c *countingMesh) SetVertexNormal(v mesh.VertexID, n mesh.Vector3) error {
	c.writes++
	return c.Memory.SetVertexNormal(v, n)
}

func (c *countingMesh) SetFaceVertexNormal(f mesh.FaceID, v mesh.VertexID, n mesh.Vector3) error {
	c.writes++
	return c.Memory.SetFaceVertexNormal(f, v, n)
}

func (c *countingMesh) LockVertexNormals(ids []mesh.NormalID) error {
	c.writes++
	return c.Memory.LockVertexNormals(ids)
}

func (c *countingMesh) UnlockVertexNormals(ids []mesh.NormalID) error {
	c.writes++
	return c.Memory.UnlockVertexNormals(ids)
}

func mustPlane(t *testing.T, name string, cols, rows int) *mesh.Memory {
	t.Helper()
	m, err := mesh.Plane(name, cols, rows)
	if err != nil {
		t.Fatalf("Plane: %v", err)
	}
	return m
}

// softCube returns a cube with every edge smooth.
func softCube(t *testing.T, name string) *mesh.Memory {
	t.Helper()
	m, err := mesh.Cube(name)
	if err != nil {
		t.Fatalf("Cube: %v", err)
	}
	n, _ := m.EdgeCount()
	for e := mesh.EdgeID(0); int(e) < n; e++ {
		if err := m.SetEdgeSmooth(e, true); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

// foldedPair returns two quads sharing edge 1-4: face 0 faces +Y, face 1 is
// tilted toward -X.
func foldedPair(t *testing.T) *mesh.Memory {
	t.Helper()
	points := []mesh.Vector3{
		{X: 0}, {X: 1}, {X: 2, Y: 1},
		{Z: 1}, {X: 1, Z: 1}, {X: 2, Y: 1, Z: 1},
	}
	faces := [][]mesh.VertexID{
		{0, 3, 4, 1},
		{1, 4, 5, 2},
	}
	m, err := mesh.NewMemory("fold", points, faces)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	return m
}

func mustEdge(t *testing.T, m *mesh.Memory, a, b mesh.VertexID) mesh.EdgeID {
	t.Helper()
	e, ok := m.FindEdge(a, b)
	if !ok {
		t.Fatalf("no edge %d-%d", a, b)
	}
	return e
}

func selFaces(name string, ids ...int) mesh.Selection {
	return components(name, 'f', ids...)
}

func selEdges(name string, ids ...int) mesh.Selection {
	return components(name, 'e', ids...)
}

func components(name string, kind byte, ids ...int) mesh.Selection {
	k := map[byte]mesh.ComponentKind{'f': mesh.KindFace, 'e': mesh.KindEdge, 'v': mesh.KindVertex}[kind]
	sel := make(mesh.Selection, len(ids))
	for i, id := range ids {
		sel[i] = mesh.Component{Mesh: name, Kind: k, Index: id}
	}
	return sel
}

// assertDisjoint checks that no vertex has both kinds of assignment.
func assertDisjoint(t *testing.T, p Plan) {
	t.Helper()
	for fv := range p.FaceVertices {
		if _, ok := p.Vertices[fv.Vertex]; ok {
			t.Errorf("vertex %d is planned both uniformly and on face %d", fv.Vertex, fv.Face)
		}
	}
}
