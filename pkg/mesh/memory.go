package mesh

import (
	"slices"

	"github.com/matzehuels/normalign/pkg/errors"
)

// =============================================================================
// Memory - in-memory polygon mesh
// =============================================================================

type edgeRecord struct {
	v0, v1 VertexID
	faces  []FaceID
	smooth bool
}

// Memory is an in-memory polygon mesh implementing [EdgeEditor].
//
// Edges are derived from the face loops and are smooth by default. Every
// face-vertex owns one normal id. Writing a normal locks it, and unlocked
// normals are recomputed whenever edge smoothing or weighting changes.
// Memory is not safe for concurrent use.
type Memory struct {
	name   string
	points []Vector3
	loops  [][]VertexID

	edges       []edgeRecord
	edgeIndex   map[[2]VertexID]EdgeID
	vertexEdges [][]EdgeID
	vertexFaces [][]FaceID
	faceEdges   [][]EdgeID

	normals   [][]Vector3  // per face, parallel to loops
	normalIDs [][]NormalID // per face, parallel to loops
	locked    []bool       // by NormalID

	weighting Weighting
	invalid   bool
}

// NewMemory builds a mesh from points and vertex loops. Normals start at
// their defaults and nothing is locked.
func NewMemory(name string, points []Vector3, faces [][]VertexID) (*Memory, error) {
	if err := errors.ValidateMeshName(name); err != nil {
		return nil, err
	}

	m := &Memory{
		name:        name,
		points:      slices.Clone(points),
		loops:       make([][]VertexID, len(faces)),
		edgeIndex:   make(map[[2]VertexID]EdgeID),
		vertexEdges: make([][]EdgeID, len(points)),
		vertexFaces: make([][]FaceID, len(points)),
		faceEdges:   make([][]EdgeID, len(faces)),
		normals:     make([][]Vector3, len(faces)),
		normalIDs:   make([][]NormalID, len(faces)),
	}

	next := NormalID(0)
	for fi, loop := range faces {
		f := FaceID(fi)
		if len(loop) < 3 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "face %d has %d vertices (need at least 3)", f, len(loop))
		}
		seen := make(map[VertexID]bool, len(loop))
		for _, v := range loop {
			if v < 0 || int(v) >= len(points) {
				return nil, errors.New(errors.ErrCodeInvalidInput, "face %d references vertex %d out of range", f, v)
			}
			if seen[v] {
				return nil, errors.New(errors.ErrCodeInvalidInput, "face %d repeats vertex %d", f, v)
			}
			seen[v] = true
			m.vertexFaces[v] = append(m.vertexFaces[v], f)
		}

		m.loops[f] = slices.Clone(loop)
		m.normals[f] = make([]Vector3, len(loop))
		m.normalIDs[f] = make([]NormalID, len(loop))
		for i := range loop {
			m.normalIDs[f][i] = next
			next++
		}

		for i, a := range loop {
			b := loop[(i+1)%len(loop)]
			key := edgeKey(a, b)
			e, ok := m.edgeIndex[key]
			if !ok {
				e = EdgeID(len(m.edges))
				m.edges = append(m.edges, edgeRecord{v0: a, v1: b, smooth: true})
				m.edgeIndex[key] = e
				m.vertexEdges[a] = append(m.vertexEdges[a], e)
				m.vertexEdges[b] = append(m.vertexEdges[b], e)
			}
			if !slices.Contains(m.edges[e].faces, f) {
				m.edges[e].faces = append(m.edges[e].faces, f)
			}
			m.faceEdges[f] = append(m.faceEdges[f], e)
		}
	}
	m.locked = make([]bool, next)

	for f := range m.loops {
		for i := range m.loops[f] {
			m.normals[f][i] = m.defaultNormal(FaceID(f), i)
		}
	}
	return m, nil
}

func edgeKey(a, b VertexID) [2]VertexID {
	if a > b {
		a, b = b, a
	}
	return [2]VertexID{a, b}
}

// Name returns the mesh name.
func (m *Memory) Name() string { return m.name }

// Invalidate marks the mesh as stale. Every later query or write fails with
// a MESH_QUERY_FAILURE error.
func (m *Memory) Invalidate() { m.invalid = true }

// Valid reports whether the mesh can still be queried.
func (m *Memory) Valid() bool { return !m.invalid }

// Clone returns a deep copy of the mesh.
func (m *Memory) Clone() *Memory {
	c := &Memory{
		name:        m.name,
		points:      slices.Clone(m.points),
		loops:       cloneNested(m.loops),
		edges:       make([]edgeRecord, len(m.edges)),
		edgeIndex:   make(map[[2]VertexID]EdgeID, len(m.edgeIndex)),
		vertexEdges: cloneNested(m.vertexEdges),
		vertexFaces: cloneNested(m.vertexFaces),
		faceEdges:   cloneNested(m.faceEdges),
		normals:     cloneNested(m.normals),
		normalIDs:   cloneNested(m.normalIDs),
		locked:      slices.Clone(m.locked),
		weighting:   m.weighting,
		invalid:     m.invalid,
	}
	for i, e := range m.edges {
		e.faces = slices.Clone(e.faces)
		c.edges[i] = e
	}
	for k, v := range m.edgeIndex {
		c.edgeIndex[k] = v
	}
	return c
}

func cloneNested[T any](s [][]T) [][]T {
	out := make([][]T, len(s))
	for i := range s {
		out[i] = slices.Clone(s[i])
	}
	return out
}

// =============================================================================
// Reader
// =============================================================================

func (m *Memory) check() error {
	if m.invalid {
		return errors.New(errors.ErrCodeMeshQuery, "mesh %q is no longer valid", m.name)
	}
	return nil
}

func (m *Memory) checkVertex(v VertexID) error {
	if err := m.check(); err != nil {
		return err
	}
	if v < 0 || int(v) >= len(m.points) {
		return errors.New(errors.ErrCodeMeshQuery, "vertex %d out of range on %q", v, m.name)
	}
	return nil
}

func (m *Memory) checkEdge(e EdgeID) error {
	if err := m.check(); err != nil {
		return err
	}
	if e < 0 || int(e) >= len(m.edges) {
		return errors.New(errors.ErrCodeMeshQuery, "edge %d out of range on %q", e, m.name)
	}
	return nil
}

func (m *Memory) checkFace(f FaceID) error {
	if err := m.check(); err != nil {
		return err
	}
	if f < 0 || int(f) >= len(m.loops) {
		return errors.New(errors.ErrCodeMeshQuery, "face %d out of range on %q", f, m.name)
	}
	return nil
}

// corner returns the loop position of v on f.
func (m *Memory) corner(f FaceID, v VertexID) (int, error) {
	if err := m.checkFace(f); err != nil {
		return 0, err
	}
	i := slices.Index(m.loops[f], v)
	if i < 0 {
		return 0, errors.New(errors.ErrCodeMeshQuery, "vertex %d is not on face %d of %q", v, f, m.name)
	}
	return i, nil
}

func (m *Memory) VertexCount() (int, error) {
	if err := m.check(); err != nil {
		return 0, err
	}
	return len(m.points), nil
}

func (m *Memory) EdgeCount() (int, error) {
	if err := m.check(); err != nil {
		return 0, err
	}
	return len(m.edges), nil
}

func (m *Memory) FaceCount() (int, error) {
	if err := m.check(); err != nil {
		return 0, err
	}
	return len(m.loops), nil
}

func (m *Memory) Point(v VertexID) (Vector3, error) {
	if err := m.checkVertex(v); err != nil {
		return Vector3{}, err
	}
	return m.points[v], nil
}

func (m *Memory) ConnectedEdges(v VertexID) ([]EdgeID, error) {
	if err := m.checkVertex(v); err != nil {
		return nil, err
	}
	return slices.Clone(m.vertexEdges[v]), nil
}

func (m *Memory) EdgeVertices(e EdgeID) (VertexID, VertexID, error) {
	if err := m.checkEdge(e); err != nil {
		return 0, 0, err
	}
	return m.edges[e].v0, m.edges[e].v1, nil
}

func (m *Memory) ConnectedFaces(e EdgeID) ([]FaceID, error) {
	if err := m.checkEdge(e); err != nil {
		return nil, err
	}
	return slices.Clone(m.edges[e].faces), nil
}

func (m *Memory) VertexFaces(v VertexID) ([]FaceID, error) {
	if err := m.checkVertex(v); err != nil {
		return nil, err
	}
	return slices.Clone(m.vertexFaces[v]), nil
}

func (m *Memory) FaceVertices(f FaceID) ([]VertexID, error) {
	if err := m.checkFace(f); err != nil {
		return nil, err
	}
	return slices.Clone(m.loops[f]), nil
}

func (m *Memory) FaceEdges(f FaceID) ([]EdgeID, error) {
	if err := m.checkFace(f); err != nil {
		return nil, err
	}
	return slices.Clone(m.faceEdges[f]), nil
}

func (m *Memory) IsEdgeSmooth(e EdgeID) (bool, error) {
	if err := m.checkEdge(e); err != nil {
		return false, err
	}
	return m.edges[e].smooth, nil
}

func (m *Memory) IsEdgeOnBoundary(e EdgeID) (bool, error) {
	if err := m.checkEdge(e); err != nil {
		return false, err
	}
	return len(m.edges[e].faces) == 1, nil
}

func (m *Memory) PolygonNormal(f FaceID) (Vector3, error) {
	if err := m.checkFace(f); err != nil {
		return Vector3{}, err
	}
	return m.polygonNormal(f), nil
}

func (m *Memory) FaceVertexNormal(f FaceID, v VertexID) (Vector3, error) {
	i, err := m.corner(f, v)
	if err != nil {
		return Vector3{}, err
	}
	return m.normals[f][i], nil
}

// VertexNormal returns the shared face-vertex normal of v, or the normalized
// mean when the face-vertices disagree. Isolated vertices have a zero normal.
func (m *Memory) VertexNormal(v VertexID) (Vector3, error) {
	if err := m.checkVertex(v); err != nil {
		return Vector3{}, err
	}
	var (
		sum   Vector3
		first Vector3
		split bool
		count int
	)
	for _, f := range m.vertexFaces[v] {
		n := m.normals[f][slices.Index(m.loops[f], v)]
		if count == 0 {
			first = n
		} else if n != first {
			split = true
		}
		sum = sum.Add(n)
		count++
	}
	if count == 0 || !split {
		return first, nil
	}
	return sum.Normalize(), nil
}

func (m *Memory) NormalIDs(v VertexID) ([]NormalID, error) {
	if err := m.checkVertex(v); err != nil {
		return nil, err
	}
	ids := make([]NormalID, 0, len(m.vertexFaces[v]))
	for _, f := range m.vertexFaces[v] {
		ids = append(ids, m.normalIDs[f][slices.Index(m.loops[f], v)])
	}
	return ids, nil
}

func (m *Memory) IsNormalLocked(n NormalID) (bool, error) {
	if err := m.check(); err != nil {
		return false, err
	}
	if n < 0 || int(n) >= len(m.locked) {
		return false, errors.New(errors.ErrCodeMeshQuery, "normal id %d out of range on %q", n, m.name)
	}
	return m.locked[n], nil
}

// =============================================================================
// Writer
// =============================================================================

func (m *Memory) SetVertexNormal(v VertexID, n Vector3) error {
	if err := m.checkVertex(v); err != nil {
		return err
	}
	for _, f := range m.vertexFaces[v] {
		i := slices.Index(m.loops[f], v)
		m.normals[f][i] = n
		m.locked[m.normalIDs[f][i]] = true
	}
	return nil
}

func (m *Memory) SetFaceVertexNormal(f FaceID, v VertexID, n Vector3) error {
	i, err := m.corner(f, v)
	if err != nil {
		return err
	}
	m.normals[f][i] = n
	m.locked[m.normalIDs[f][i]] = true
	return nil
}

func (m *Memory) LockVertexNormals(ids []NormalID) error {
	return m.setLocked(ids, true)
}

// UnlockVertexNormals unlocks ids. Unlocked normals keep their value until the
// next edge or weighting change recomputes them.
func (m *Memory) UnlockVertexNormals(ids []NormalID) error {
	return m.setLocked(ids, false)
}

func (m *Memory) setLocked(ids []NormalID, locked bool) error {
	if err := m.check(); err != nil {
		return err
	}
	for _, n := range ids {
		if n < 0 || int(n) >= len(m.locked) {
			return errors.New(errors.ErrCodeMeshQuery, "normal id %d out of range on %q", n, m.name)
		}
	}
	for _, n := range ids {
		m.locked[n] = locked
	}
	return nil
}

// SetEdgeSmooth changes the smoothing of e and recomputes the unlocked
// normals around its endpoints.
func (m *Memory) SetEdgeSmooth(e EdgeID, smooth bool) error {
	if err := m.checkEdge(e); err != nil {
		return err
	}
	if m.edges[e].smooth == smooth {
		return nil
	}
	m.edges[e].smooth = smooth
	m.refreshVertex(m.edges[e].v0)
	m.refreshVertex(m.edges[e].v1)
	return nil
}

// =============================================================================
// Extras
// =============================================================================

// Weighting returns the blend mode for default normals.
func (m *Memory) Weighting() Weighting { return m.weighting }

// SetWeighting changes the blend mode and recomputes every unlocked normal.
func (m *Memory) SetWeighting(w Weighting) error {
	if err := m.check(); err != nil {
		return err
	}
	if _, ok := weightingNames[w]; !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown weighting %d", w)
	}
	m.weighting = w
	for v := range m.points {
		m.refreshVertex(VertexID(v))
	}
	return nil
}

// FindEdge returns the edge joining a and b.
func (m *Memory) FindEdge(a, b VertexID) (EdgeID, bool) {
	e, ok := m.edgeIndex[edgeKey(a, b)]
	return e, ok
}

// HardEdges returns all hard edges in ascending order.
func (m *Memory) HardEdges() []EdgeID {
	var out []EdgeID
	for i, e := range m.edges {
		if !e.smooth {
			out = append(out, EdgeID(i))
		}
	}
	return out
}

// LockedNormals returns all locked normal ids in ascending order.
func (m *Memory) LockedNormals() []NormalID {
	var out []NormalID
	for i, l := range m.locked {
		if l {
			out = append(out, NormalID(i))
		}
	}
	return out
}

// =============================================================================
// Default normals
// =============================================================================

func (m *Memory) facePoints(f FaceID) []Vector3 {
	pts := make([]Vector3, len(m.loops[f]))
	for i, v := range m.loops[f] {
		pts[i] = m.points[v]
	}
	return pts
}

func (m *Memory) polygonNormal(f FaceID) Vector3 {
	return newell(m.facePoints(f)).Normalize()
}

func (m *Memory) hasHardEdge(v VertexID) bool {
	for _, e := range m.vertexEdges[v] {
		if !m.edges[e].smooth {
			return true
		}
	}
	return false
}

func (m *Memory) faceWeight(f FaceID, v VertexID) float64 {
	area := func() float64 { return newell(m.facePoints(f)).Length() / 2 }
	angle := func() float64 {
		loop := m.loops[f]
		i := slices.Index(loop, v)
		prev := loop[(i+len(loop)-1)%len(loop)]
		next := loop[(i+1)%len(loop)]
		return cornerAngle(m.points[prev], m.points[v], m.points[next])
	}
	switch m.weighting {
	case WeightArea:
		return area()
	case WeightAngle:
		return angle()
	case WeightAngleArea:
		return area() * angle()
	default:
		return 1
	}
}

// defaultNormal is the host-computed normal for the corner at loop position i
// of f: the weighted mean of the surrounding face normals, or the face normal
// when the vertex touches a hard edge.
func (m *Memory) defaultNormal(f FaceID, i int) Vector3 {
	v := m.loops[f][i]
	own := m.polygonNormal(f)
	if m.hasHardEdge(v) {
		return own
	}
	var sum Vector3
	for _, g := range m.vertexFaces[v] {
		sum = sum.Add(m.polygonNormal(g).Scale(m.faceWeight(g, v)))
	}
	if n := sum.Normalize(); !n.IsZero() {
		return n
	}
	return own
}

// refreshVertex recomputes the unlocked face-vertex normals of v.
func (m *Memory) refreshVertex(v VertexID) {
	for _, f := range m.vertexFaces[v] {
		i := slices.Index(m.loops[f], v)
		if !m.locked[m.normalIDs[f][i]] {
			m.normals[f][i] = m.defaultNormal(f, i)
		}
	}
}

var _ EdgeEditor = (*Memory)(nil)
