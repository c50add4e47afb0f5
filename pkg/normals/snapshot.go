package normals

import (
	"cmp"
	"encoding/json"
	"slices"

	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
)

// LockRecord is the lock state of one normal id before a plan was applied.
type LockRecord struct {
	Normal mesh.NormalID `json:"normal"`
	Locked bool          `json:"locked"`
}

// Snapshot holds everything needed to restore a mesh after a plan is applied.
//
// For each planned vertex it keeps the vertex normal and the corner normals
// on every face around it, since a vertex write replaces all of them. For
// each planned corner it keeps that corner's normal. Locks cover every
// normal id of every touched vertex.
type Snapshot struct {
	Vertices     map[mesh.VertexID]mesh.Vector3
	FaceVertices map[FaceVertex]mesh.Vector3
	Locks        []LockRecord // ascending normal id
}

// Capture reads the current state of everything p will write. Each vertex
// and corner is read exactly once.
func Capture(p Plan, m mesh.Reader) (Snapshot, error) {
	s := Snapshot{
		Vertices:     make(map[mesh.VertexID]mesh.Vector3, len(p.Vertices)),
		FaceVertices: make(map[FaceVertex]mesh.Vector3, len(p.FaceVertices)),
	}

	readCorner := func(fv FaceVertex) error {
		if _, ok := s.FaceVertices[fv]; ok {
			return nil
		}
		n, err := m.FaceVertexNormal(fv.Face, fv.Vertex)
		if err != nil {
			return errors.MeshQuery(err, "capture normal of vertex %d on face %d", fv.Vertex, fv.Face)
		}
		s.FaceVertices[fv] = n
		return nil
	}

	for _, v := range p.SortedVertices() {
		n, err := m.VertexNormal(v)
		if err != nil {
			return Snapshot{}, errors.MeshQuery(err, "capture normal of vertex %d", v)
		}
		s.Vertices[v] = n

		faces, err := m.VertexFaces(v)
		if err != nil {
			return Snapshot{}, errors.MeshQuery(err, "capture faces of vertex %d", v)
		}
		for _, f := range faces {
			if err := readCorner(FaceVertex{Face: f, Vertex: v}); err != nil {
				return Snapshot{}, err
			}
		}
	}
	for _, fv := range p.SortedFaceVertices() {
		if err := readCorner(fv); err != nil {
			return Snapshot{}, err
		}
	}

	seen := make(map[mesh.NormalID]bool)
	for _, v := range p.TouchedVertices() {
		ids, err := m.NormalIDs(v)
		if err != nil {
			return Snapshot{}, errors.MeshQuery(err, "capture normal ids of vertex %d", v)
		}
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			locked, err := m.IsNormalLocked(id)
			if err != nil {
				return Snapshot{}, errors.MeshQuery(err, "capture lock of normal %d", id)
			}
			s.Locks = append(s.Locks, LockRecord{Normal: id, Locked: locked})
		}
	}
	slices.SortFunc(s.Locks, func(a, b LockRecord) int { return cmp.Compare(a.Normal, b.Normal) })
	return s, nil
}

// LockPartition splits the lock records into ids that were locked and ids
// that were unlocked.
func (s Snapshot) LockPartition() (locked, unlocked []mesh.NormalID) {
	for _, r := range s.Locks {
		if r.Locked {
			locked = append(locked, r.Normal)
		} else {
			unlocked = append(unlocked, r.Normal)
		}
	}
	return locked, unlocked
}

type snapshotJSON struct {
	Vertices     []vertexAssignment `json:"vertices,omitempty"`
	FaceVertices []cornerAssignment `json:"face_vertices,omitempty"`
	Locks        []LockRecord       `json:"locks,omitempty"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	p := Plan{Vertices: s.Vertices, FaceVertices: s.FaceVertices}
	out := snapshotJSON{Locks: s.Locks}
	for _, v := range p.SortedVertices() {
		out.Vertices = append(out.Vertices, vertexAssignment{Vertex: v, Normal: s.Vertices[v]})
	}
	for _, fv := range p.SortedFaceVertices() {
		out.FaceVertices = append(out.FaceVertices, cornerAssignment{FaceVertex: fv, Normal: s.FaceVertices[fv]})
	}
	return json.Marshal(out)
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var in snapshotJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Snapshot{
		Vertices:     make(map[mesh.VertexID]mesh.Vector3, len(in.Vertices)),
		FaceVertices: make(map[FaceVertex]mesh.Vector3, len(in.FaceVertices)),
		Locks:        in.Locks,
	}
	for _, a := range in.Vertices {
		s.Vertices[a.Vertex] = a.Normal
	}
	for _, a := range in.FaceVertices {
		s.FaceVertices[a.FaceVertex] = a.Normal
	}
	return nil
}
