package normals

import (
	"context"
	"maps"
	"testing"

	"github.com/matzehuels/normalign/pkg/mesh"
)

func TestPlanRounded(t *testing.T) {
	blend := mesh.Vector3{Y: 1, Z: 1}

	tests := []struct {
		name      string
		setup     func(t *testing.T) *mesh.Memory
		edge      [2]mesh.VertexID
		wantVerts map[mesh.VertexID]mesh.Vector3
		wantFV    map[FaceVertex]mesh.Vector3
	}{
		{
			name:      "smooth edge blends both faces",
			setup:     func(t *testing.T) *mesh.Memory { return softCube(t, "cube") },
			edge:      [2]mesh.VertexID{6, 7},
			wantVerts: map[mesh.VertexID]mesh.Vector3{6: blend, 7: blend},
			wantFV:    map[FaceVertex]mesh.Vector3{},
		},
		{
			name: "selected hard edge takes its first face",
			setup: func(t *testing.T) *mesh.Memory {
				m := softCube(t, "cube")
				if err := m.SetEdgeSmooth(mustEdge(t, m, 6, 7), false); err != nil {
					t.Fatal(err)
				}
				return m
			},
			edge:      [2]mesh.VertexID{6, 7},
			wantVerts: map[mesh.VertexID]mesh.Vector3{6: {Z: 1}, 7: {Z: 1}},
			wantFV:    map[FaceVertex]mesh.Vector3{},
		},
		{
			name: "unselected hard edge demotes its vertex",
			setup: func(t *testing.T) *mesh.Memory {
				m := softCube(t, "cube")
				if err := m.SetEdgeSmooth(mustEdge(t, m, 5, 6), false); err != nil {
					t.Fatal(err)
				}
				return m
			},
			edge:      [2]mesh.VertexID{6, 7},
			wantVerts: map[mesh.VertexID]mesh.Vector3{7: blend},
			wantFV: map[FaceVertex]mesh.Vector3{
				{Face: mesh.CubeFront, Vertex: 6}: blend,
				{Face: mesh.CubeTop, Vertex: 6}:   blend,
			},
		},
		{
			name:      "boundary vertices are demoted on open meshes",
			setup:     func(t *testing.T) *mesh.Memory { return mustPlane(t, "plane", 2, 1) },
			edge:      [2]mesh.VertexID{1, 4},
			wantVerts: map[mesh.VertexID]mesh.Vector3{},
			wantFV: map[FaceVertex]mesh.Vector3{
				{Face: 0, Vertex: 1}: {Y: 2},
				{Face: 0, Vertex: 4}: {Y: 2},
				{Face: 1, Vertex: 1}: {Y: 2},
				{Face: 1, Vertex: 4}: {Y: 2},
			},
		},
		{
			name: "smooth non-manifold edge sums its first two faces",
			setup: func(t *testing.T) *mesh.Memory {
				points := []mesh.Vector3{{}, {X: 1}, {Z: 1}, {Z: -1}, {Y: 1}}
				m, err := mesh.NewMemory("fan", points, [][]mesh.VertexID{{0, 1, 2}, {1, 0, 3}, {0, 1, 4}})
				if err != nil {
					t.Fatalf("NewMemory: %v", err)
				}
				return m
			},
			edge:      [2]mesh.VertexID{0, 1},
			wantVerts: map[mesh.VertexID]mesh.Vector3{},
			wantFV: map[FaceVertex]mesh.Vector3{
				{Face: 0, Vertex: 0}: {Y: -2},
				{Face: 0, Vertex: 1}: {Y: -2},
				{Face: 1, Vertex: 0}: {Y: -2},
				{Face: 1, Vertex: 1}: {Y: -2},
				{Face: 2, Vertex: 0}: {Y: -2},
				{Face: 2, Vertex: 1}: {Y: -2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.setup(t)
			p, err := PlanRounded(m, []mesh.EdgeID{mustEdge(t, m, tt.edge[0], tt.edge[1])})
			if err != nil {
				t.Fatalf("PlanRounded: %v", err)
			}
			assertDisjoint(t, p)
			if !maps.Equal(p.Vertices, tt.wantVerts) {
				t.Errorf("Vertices = %v, want %v", p.Vertices, tt.wantVerts)
			}
			if !maps.Equal(p.FaceVertices, tt.wantFV) {
				t.Errorf("FaceVertices = %v, want %v", p.FaceVertices, tt.wantFV)
			}
		})
	}
}

func TestPlanRoundedEmpty(t *testing.T) {
	m := mustPlane(t, "plane", 1, 1)
	p, err := PlanRounded(m, nil)
	if err != nil || !p.Empty() {
		t.Errorf("PlanRounded(nil) = %v, %v; want empty plan", p, err)
	}
}

func TestAlignRoundedNormalize(t *testing.T) {
	m := softCube(t, "cube")
	scene := testScene{"cube": m}
	e := mustEdge(t, m, 6, 7)

	entry, err := Align(context.Background(), scene, VariantRounded, selEdges("cube", int(e)), Options{Normalize: true})
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	want := mesh.Vector3{Y: 1, Z: 1}.Normalize()
	for _, v := range []mesh.VertexID{6, 7} {
		if got := entry.Steps[0].Plan.Vertices[v]; got != want {
			t.Errorf("planned %d = %v, want %v", v, got, want)
		}
		for _, f := range []mesh.FaceID{mesh.CubeFront, mesh.CubeTop, mesh.CubeRight} {
			n, err := m.FaceVertexNormal(f, v)
			if err != nil {
				continue // vertex 7 is not on the right face
			}
			if n != want {
				t.Errorf("corner (%d, %d) = %v, want %v", f, v, n, want)
			}
		}
	}
}
