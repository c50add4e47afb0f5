package mesh

import "github.com/matzehuels/normalign/pkg/errors"

// Plane builds a cols x rows grid of unit quads in the XZ plane facing +Y.
// Vertex (i, j) has index j*(cols+1)+i and sits at (i, 0, j). Face (i, j)
// has index j*cols+i. Every edge is smooth.
func Plane(name string, cols, rows int) (*Memory, error) {
	if cols < 1 || rows < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "plane needs at least one column and row, got %dx%d", cols, rows)
	}

	idx := func(i, j int) VertexID { return VertexID(j*(cols+1) + i) }

	points := make([]Vector3, 0, (cols+1)*(rows+1))
	for j := 0; j <= rows; j++ {
		for i := 0; i <= cols; i++ {
			points = append(points, Vector3{X: float64(i), Z: float64(j)})
		}
	}

	faces := make([][]VertexID, 0, cols*rows)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			faces = append(faces, []VertexID{idx(i, j), idx(i, j+1), idx(i+1, j+1), idx(i+1, j)})
		}
	}
	return NewMemory(name, points, faces)
}

// Cube face indices.
const (
	CubeBack FaceID = iota
	CubeFront
	CubeBottom
	CubeTop
	CubeLeft
	CubeRight
)

// Cube builds a closed unit cube centred on the origin with outward facing
// polygons. All edges are hard, so every corner starts with its face normal.
func Cube(name string) (*Memory, error) {
	const h = 0.5
	points := []Vector3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	faces := [][]VertexID{
		CubeBack:   {0, 3, 2, 1},
		CubeFront:  {4, 5, 6, 7},
		CubeBottom: {0, 1, 5, 4},
		CubeTop:    {3, 7, 6, 2},
		CubeLeft:   {0, 4, 7, 3},
		CubeRight:  {1, 2, 6, 5},
	}

	m, err := NewMemory(name, points, faces)
	if err != nil {
		return nil, err
	}
	for e := range m.edges {
		if err := m.SetEdgeSmooth(EdgeID(e), false); err != nil {
			return nil, err
		}
	}
	return m, nil
}
