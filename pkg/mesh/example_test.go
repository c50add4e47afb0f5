package mesh_test

import (
	"fmt"

	"github.com/matzehuels/normalign/pkg/mesh"
)

func ExamplePlane() {
	m, err := mesh.Plane("ground", 2, 1)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	verts, _ := m.VertexCount()
	edges, _ := m.EdgeCount()
	faces, _ := m.FaceCount()
	fmt.Printf("%d vertices, %d edges, %d faces\n", verts, edges, faces)

	shared, _ := m.FindEdge(1, 4)
	onBoundary, _ := m.IsEdgeOnBoundary(shared)
	fmt.Println("shared edge on boundary:", onBoundary)
	// Output:
	// 6 vertices, 7 edges, 2 faces
	// shared edge on boundary: false
}

func ExampleParseSelection() {
	sel, err := mesh.ParseSelection("box", "f:0-1,e:5")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, c := range sel {
		fmt.Println(c)
	}
	last, _ := sel.Last()
	fmt.Println("seed:", last.Kind)
	// Output:
	// box.f[0]
	// box.f[1]
	// box.e[5]
	// seed: edge
}
