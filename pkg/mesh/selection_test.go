package mesh

import (
	"slices"
	"testing"

	"github.com/matzehuels/normalign/pkg/errors"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Selection
	}{
		{
			name:  "mixed kinds keep order",
			input: "f:1,e:2,v:3",
			want: Selection{
				{Mesh: "cube", Kind: KindFace, Index: 1},
				{Mesh: "cube", Kind: KindEdge, Index: 2},
				{Mesh: "cube", Kind: KindVertex, Index: 3},
			},
		},
		{
			name:  "range",
			input: "face:0-2",
			want: Selection{
				{Mesh: "cube", Kind: KindFace, Index: 0},
				{Mesh: "cube", Kind: KindFace, Index: 1},
				{Mesh: "cube", Kind: KindFace, Index: 2},
			},
		},
		{
			name:  "whitespace and empty parts",
			input: " e:4 , ,E:5",
			want: Selection{
				{Mesh: "cube", Kind: KindEdge, Index: 4},
				{Mesh: "cube", Kind: KindEdge, Index: 5},
			},
		},
		{name: "empty", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelection("cube", tt.input)
			if err != nil {
				t.Fatalf("ParseSelection(%q) error: %v", tt.input, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseSelection(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSelectionErrors(t *testing.T) {
	tests := []struct {
		name  string
		mesh  string
		input string
		code  errors.Code
	}{
		{"missing prefix", "cube", "3", errors.ErrCodeInvalidSelection},
		{"unknown kind", "cube", "uv:3", errors.ErrCodeInvalidSelection},
		{"bad index", "cube", "f:x", errors.ErrCodeInvalidSelection},
		{"negative", "cube", "f:-1", errors.ErrCodeInvalidSelection},
		{"reversed range", "cube", "f:3-1", errors.ErrCodeInvalidSelection},
		{"bad mesh name", "my cube", "f:1", errors.ErrCodeInvalidMeshName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSelection(tt.mesh, tt.input)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("ParseSelection(%q, %q) code = %q, want %q (err %v)", tt.mesh, tt.input, got, tt.code, err)
			}
		})
	}
}

func TestSelectionHelpers(t *testing.T) {
	sel := Selection{
		{Mesh: "a", Kind: KindFace, Index: 2},
		{Mesh: "b", Kind: KindEdge, Index: 7},
		{Mesh: "a", Kind: KindEdge, Index: 1},
		{Mesh: "a", Kind: KindVertex, Index: 4},
	}

	if got := sel.Meshes(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Meshes = %v", got)
	}
	onA := sel.OnMesh("a")
	if len(onA) != 3 {
		t.Fatalf("OnMesh(a) = %v", onA)
	}
	if got := onA.Faces(); !slices.Equal(got, []FaceID{2}) {
		t.Errorf("Faces = %v", got)
	}
	if got := onA.Edges(); !slices.Equal(got, []EdgeID{1}) {
		t.Errorf("Edges = %v", got)
	}
	if got := onA.Vertices(); !slices.Equal(got, []VertexID{4}) {
		t.Errorf("Vertices = %v", got)
	}

	last, ok := sel.Last()
	if !ok || last.String() != "a.v[4]" {
		t.Errorf("Last = %v, %v", last, ok)
	}
	if _, ok := Selection(nil).Last(); ok {
		t.Error("Last on empty selection should report false")
	}
}

func TestParseIndices(t *testing.T) {
	got, err := ParseIndices("1, 4-6,9")
	if err != nil {
		t.Fatalf("ParseIndices error: %v", err)
	}
	if !slices.Equal(got, []int{1, 4, 5, 6, 9}) {
		t.Errorf("ParseIndices = %v", got)
	}
	if _, err := ParseIndices("1,a"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseIndices(1,a) = %v, want INVALID_INPUT", err)
	}
}
