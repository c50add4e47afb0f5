package normals

import (
	"context"
	"maps"
	"math"
	"testing"

	"github.com/matzehuels/normalign/pkg/mesh"
)

var (
	up   = mesh.Vector3{Y: 1}
	seed = mesh.Vector3{Z: 1}
)

func TestPlanAuto(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T) *mesh.Memory
		faces     []mesh.FaceID
		wantVerts map[mesh.VertexID]mesh.Vector3
		wantFV    map[FaceVertex]mesh.Vector3
	}{
		{
			name:  "smooth border takes outside normal until a later edge overwrites it",
			setup: func(t *testing.T) *mesh.Memory { return mustPlane(t, "plane", 2, 1) },
			faces: []mesh.FaceID{1},
			wantVerts: map[mesh.VertexID]mesh.Vector3{
				1: seed, 2: seed, 4: seed, 5: seed,
			},
			wantFV: map[FaceVertex]mesh.Vector3{},
		},
		{
			name: "hard border splits corners",
			setup: func(t *testing.T) *mesh.Memory {
				m := mustPlane(t, "plane", 2, 1)
				if err := m.SetEdgeSmooth(mustEdge(t, m, 1, 4), false); err != nil {
					t.Fatal(err)
				}
				return m
			},
			faces:     []mesh.FaceID{1},
			wantVerts: map[mesh.VertexID]mesh.Vector3{2: seed, 5: seed},
			wantFV: map[FaceVertex]mesh.Vector3{
				{Face: 0, Vertex: 4}: up,
				{Face: 0, Vertex: 1}: up,
				{Face: 1, Vertex: 4}: seed,
				{Face: 1, Vertex: 1}: seed,
			},
		},
		{
			name: "hard interior edge writes corners on both faces",
			setup: func(t *testing.T) *mesh.Memory {
				m := mustPlane(t, "plane", 2, 1)
				if err := m.SetEdgeSmooth(mustEdge(t, m, 1, 4), false); err != nil {
					t.Fatal(err)
				}
				return m
			},
			faces:     []mesh.FaceID{0, 1},
			wantVerts: map[mesh.VertexID]mesh.Vector3{0: seed, 2: seed, 3: seed, 5: seed},
			wantFV: map[FaceVertex]mesh.Vector3{
				{Face: 0, Vertex: 4}: seed,
				{Face: 0, Vertex: 1}: seed,
				{Face: 1, Vertex: 4}: seed,
				{Face: 1, Vertex: 1}: seed,
			},
		},
		{
			name:  "empty face list plans nothing",
			setup: func(t *testing.T) *mesh.Memory { return mustPlane(t, "plane", 1, 1) },
			faces: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.setup(t)
			p, err := PlanAuto(m, tt.faces, seed)
			if err != nil {
				t.Fatalf("PlanAuto: %v", err)
			}
			assertDisjoint(t, p)
			if err := p.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if len(tt.wantVerts) == 0 && len(tt.wantFV) == 0 {
				if !p.Empty() {
					t.Fatalf("expected empty plan, got %d assignments", p.Len())
				}
				return
			}
			if !maps.Equal(p.Vertices, tt.wantVerts) {
				t.Errorf("Vertices = %v, want %v", p.Vertices, tt.wantVerts)
			}
			if !maps.Equal(p.FaceVertices, tt.wantFV) {
				t.Errorf("FaceVertices = %v, want %v", p.FaceVertices, tt.wantFV)
			}
		})
	}
}

func TestAlignAutoFoldedPair(t *testing.T) {
	m := foldedPair(t)
	scene := testScene{"fold": m}
	want := mesh.Vector3{X: -1, Y: 1}.Normalize()

	entry, err := Align(context.Background(), scene, VariantAuto, selFaces("fold", 0, 1), Options{})
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if entry == nil {
		t.Fatal("expected an entry")
	}

	plan := entry.Steps[0].Plan
	if len(plan.Vertices) != 6 || len(plan.FaceVertices) != 0 {
		t.Fatalf("plan = %d vertices, %d corners; want 6, 0", len(plan.Vertices), len(plan.FaceVertices))
	}
	for v := mesh.VertexID(0); v < 6; v++ {
		n, err := m.VertexNormal(v)
		if err != nil {
			t.Fatal(err)
		}
		if !n.ApproxEqual(want, 1e-12) {
			t.Errorf("vertex %d normal = %v, want %v", v, n, want)
		}
	}
	if math.Abs(plan.Vertices[1].Length()-1) > 1e-12 {
		t.Errorf("seed should already be unit length, got %v", plan.Vertices[1])
	}
}

func TestAlignAutoEdgeSeed(t *testing.T) {
	m := mustPlane(t, "plane", 1, 1)
	scene := testScene{"plane": m}

	// Edge 0 runs 0 -> 2, i.e. +Z.
	sel := append(selFaces("plane", 0), mesh.Component{Mesh: "plane", Kind: mesh.KindEdge, Index: 0})
	entry, err := Align(context.Background(), scene, VariantAuto, sel, Options{})
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if entry == nil {
		t.Fatal("expected an entry")
	}
	for v := mesh.VertexID(0); v < 4; v++ {
		if n, _ := m.VertexNormal(v); n != seed {
			t.Errorf("vertex %d normal = %v, want %v", v, n, seed)
		}
	}
}
