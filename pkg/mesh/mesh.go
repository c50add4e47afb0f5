package mesh

// Component indices. All are zero-based and dense within one mesh.
type (
	VertexID int
	EdgeID   int
	FaceID   int
	NormalID int
)

// Reader is the read side of a mesh capability.
//
// Every method may fail: a host handle can go stale between commands, and
// implementations report that as an error rather than a panic. Errors from a
// Reader should carry [errors.ErrCodeMeshQuery] so callers can abort cleanly.
type Reader interface {
	VertexCount() (int, error)
	EdgeCount() (int, error)
	FaceCount() (int, error)

	// Point returns the position of v.
	Point(v VertexID) (Vector3, error)

	// ConnectedEdges returns the edges incident to v in ascending order.
	ConnectedEdges(v VertexID) ([]EdgeID, error)

	// EdgeVertices returns the first and second endpoint of e.
	EdgeVertices(e EdgeID) (VertexID, VertexID, error)

	// ConnectedFaces returns the faces sharing e in ascending order.
	// Boundary edges have one face, non-manifold edges more than two.
	ConnectedFaces(e EdgeID) ([]FaceID, error)

	// VertexFaces returns the faces using v in ascending order.
	VertexFaces(v VertexID) ([]FaceID, error)

	// FaceVertices returns the vertex loop of f in winding order.
	FaceVertices(f FaceID) ([]VertexID, error)

	// FaceEdges returns the edges of f in winding order.
	FaceEdges(f FaceID) ([]EdgeID, error)

	IsEdgeSmooth(e EdgeID) (bool, error)
	IsEdgeOnBoundary(e EdgeID) (bool, error)

	// PolygonNormal returns the unit geometric normal of f.
	PolygonNormal(f FaceID) (Vector3, error)

	// FaceVertexNormal returns the shading normal of v as seen from f.
	FaceVertexNormal(f FaceID, v VertexID) (Vector3, error)

	// VertexNormal returns the averaged shading normal of v.
	VertexNormal(v VertexID) (Vector3, error)

	// NormalIDs returns the normal ids referenced by v, one per face-vertex
	// in VertexFaces order.
	NormalIDs(v VertexID) ([]NormalID, error)

	IsNormalLocked(n NormalID) (bool, error)
}

// Writer is the mutation side of a mesh capability.
type Writer interface {
	// SetVertexNormal sets every face-vertex normal of v to n.
	SetVertexNormal(v VertexID, n Vector3) error

	// SetFaceVertexNormal sets the normal of v on face f only.
	SetFaceVertexNormal(f FaceID, v VertexID, n Vector3) error

	LockVertexNormals(ids []NormalID) error
	UnlockVertexNormals(ids []NormalID) error
}

// Mesh is a borrowed read/write mesh capability.
type Mesh interface {
	Reader
	Writer
}

// EdgeEditor is a Mesh that can also change edge smoothing.
type EdgeEditor interface {
	Mesh
	SetEdgeSmooth(e EdgeID, smooth bool) error
}
