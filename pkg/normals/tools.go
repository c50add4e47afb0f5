package normals

import (
	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
)

// LockAll locks or unlocks every normal on m and returns the number of
// normal ids changed in one bulk call.
func LockAll(m mesh.Mesh, lock bool) (int, error) {
	n, err := m.VertexCount()
	if err != nil {
		return 0, errors.MeshQuery(err, "vertex count")
	}

	seen := make(map[mesh.NormalID]bool)
	var ids []mesh.NormalID
	for v := mesh.VertexID(0); int(v) < n; v++ {
		vids, err := m.NormalIDs(v)
		if err != nil {
			return 0, errors.MeshQuery(err, "normal ids of vertex %d", v)
		}
		for _, id := range vids {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	if lock {
		err = m.LockVertexNormals(ids)
	} else {
		err = m.UnlockVertexNormals(ids)
	}
	if err != nil {
		return 0, errors.MeshQuery(err, "toggle normal locks")
	}
	return len(ids), nil
}

// SetEdgesSmooth softens or hardens the given edges. Edges are validated
// before any is changed.
func SetEdgesSmooth(m mesh.EdgeEditor, edges []mesh.EdgeID, smooth bool) error {
	n, err := m.EdgeCount()
	if err != nil {
		return errors.MeshQuery(err, "edge count")
	}
	for _, e := range edges {
		if e < 0 || int(e) >= n {
			return errors.New(errors.ErrCodeInvalidSelection, "edge %d out of range (mesh has %d edges)", e, n)
		}
	}
	for _, e := range edges {
		if err := m.SetEdgeSmooth(e, smooth); err != nil {
			return errors.MeshQuery(err, "set smoothing of edge %d", e)
		}
	}
	return nil
}
