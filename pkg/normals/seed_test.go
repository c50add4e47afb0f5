package normals

import (
	"testing"

	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
)

func TestExtractSeed(t *testing.T) {
	cube, _ := mesh.Cube("cube")
	e := mustEdge(t, cube, 6, 7)
	a, b, _ := cube.EdgeVertices(e)
	pa, _ := cube.Point(a)
	pb, _ := cube.Point(b)

	tests := []struct {
		name string
		c    mesh.Component
		want mesh.Vector3
	}{
		{"face", mesh.Component{Mesh: "cube", Kind: mesh.KindFace, Index: int(mesh.CubeTop)}, mesh.Vector3{Y: 1}},
		{"edge direction", mesh.Component{Mesh: "cube", Kind: mesh.KindEdge, Index: int(e)}, pb.Sub(pa)},
		{"vertex average", mesh.Component{Mesh: "cube", Kind: mesh.KindVertex, Index: 6}, mesh.Vector3{X: 1, Y: 1, Z: 1}.Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSeed(cube, tt.c)
			if err != nil {
				t.Fatalf("ExtractSeed error: %v", err)
			}
			if !got.ApproxEqual(tt.want, 1e-12) {
				t.Errorf("ExtractSeed(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestExtractSeedErrors(t *testing.T) {
	cube, _ := mesh.Cube("cube")

	_, err := ExtractSeed(cube, mesh.Component{Mesh: "cube", Kind: mesh.KindUnknown, Index: 0})
	if !errors.Is(err, errors.ErrCodeUnsupportedComponent) {
		t.Errorf("unknown kind: got %v, want UNSUPPORTED_COMPONENT_KIND", err)
	}

	_, err = ExtractSeed(cube, mesh.Component{Mesh: "cube", Kind: mesh.KindFace, Index: 99})
	if !errors.Is(err, errors.ErrCodeMeshQuery) {
		t.Errorf("out of range face: got %v, want MESH_QUERY_FAILURE", err)
	}

	cube.Invalidate()
	_, err = ExtractSeed(cube, mesh.Component{Mesh: "cube", Kind: mesh.KindEdge, Index: 0})
	if !errors.Is(err, errors.ErrCodeMeshQuery) {
		t.Errorf("stale mesh: got %v, want MESH_QUERY_FAILURE", err)
	}
}
