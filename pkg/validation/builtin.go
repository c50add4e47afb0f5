package validation

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
	"github.com/matzehuels/normalign/pkg/normals"
)

// Builtins returns a registry holding the built-in mesh validators in a
// fixed order.
func Builtins() *Registry {
	r, err := NewRegistry(
		NonManifoldEdges{},
		OpenEdges{},
		ZeroNormals{},
		UnnormalizedNormals{Tolerance: DefaultNormalTolerance},
		LockedNormals{},
	)
	if err != nil {
		panic(err) // names are constants
	}
	return r
}

func node(t Target, kind mesh.ComponentKind, i int) string {
	return mesh.Component{Mesh: t.Name, Kind: kind, Index: i}.String()
}

func cornerNode(t Target, f mesh.FaceID, v mesh.VertexID) string {
	return fmt.Sprintf("%s.vtxFace[%d][%d]", t.Name, v, f)
}

// forEachEdge steps through every edge of t.
func forEachEdge(t Target, r *Report, fn func(e mesh.EdgeID) error) error {
	n, err := t.Mesh.EdgeCount()
	if err != nil {
		return errors.MeshQuery(err, "edge count of %s", t.Name)
	}
	r.SetCount(n)
	for e := mesh.EdgeID(0); int(e) < n; e++ {
		if err := r.Step(); err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

// forEachCorner steps once per vertex and visits every face-vertex of it.
func forEachCorner(t Target, r *Report, fn func(v mesh.VertexID, f mesh.FaceID, id mesh.NormalID) error) error {
	n, err := t.Mesh.VertexCount()
	if err != nil {
		return errors.MeshQuery(err, "vertex count of %s", t.Name)
	}
	if r != nil {
		r.SetCount(n)
	}
	for v := mesh.VertexID(0); int(v) < n; v++ {
		if r != nil {
			if err := r.Step(); err != nil {
				return err
			}
		}
		faces, err := t.Mesh.VertexFaces(v)
		if err != nil {
			return errors.MeshQuery(err, "faces of vertex %d", v)
		}
		ids, err := t.Mesh.NormalIDs(v)
		if err != nil {
			return errors.MeshQuery(err, "normal ids of vertex %d", v)
		}
		for i, f := range faces {
			if err := fn(v, f, ids[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// =============================================================================
// Topology
// =============================================================================

// NonManifoldEdges reports edges shared by more than two faces.
type NonManifoldEdges struct{}

func (NonManifoldEdges) Name() string        { return "non-manifold-edges" }
func (NonManifoldEdges) Description() string { return "edges shared by more than two faces" }

func (NonManifoldEdges) Validate(_ context.Context, t Target, r *Report) error {
	return forEachEdge(t, r, func(e mesh.EdgeID) error {
		faces, err := t.Mesh.ConnectedFaces(e)
		if err != nil {
			return errors.MeshQuery(err, "faces of edge %d", e)
		}
		if len(faces) > 2 {
			r.Error(node(t, mesh.KindEdge, int(e)), "edge is shared by %d faces", len(faces))
		}
		return nil
	})
}

// OpenEdges reports mesh boundary edges. Open meshes are legal, so these are
// warnings.
type OpenEdges struct{}

func (OpenEdges) Name() string        { return "open-edges" }
func (OpenEdges) Description() string { return "boundary edges with a single face" }

func (OpenEdges) Validate(_ context.Context, t Target, r *Report) error {
	return forEachEdge(t, r, func(e mesh.EdgeID) error {
		open, err := t.Mesh.IsEdgeOnBoundary(e)
		if err != nil {
			return errors.MeshQuery(err, "boundary flag of edge %d", e)
		}
		if open {
			r.Warn(node(t, mesh.KindEdge, int(e)), "open edge")
		}
		return nil
	})
}

// =============================================================================
// Normals
// =============================================================================

// DefaultNormalTolerance is the allowed deviation from unit length.
const DefaultNormalTolerance = 1e-6

// ZeroNormals reports face-vertex normals of zero length. The fix resets them
// to the polygon normal of their face.
type ZeroNormals struct{}

func (ZeroNormals) Name() string        { return "zero-normals" }
func (ZeroNormals) Description() string { return "face-vertex normals with zero length" }

func (ZeroNormals) Validate(_ context.Context, t Target, r *Report) error {
	return forEachCorner(t, r, func(v mesh.VertexID, f mesh.FaceID, _ mesh.NormalID) error {
		n, err := t.Mesh.FaceVertexNormal(f, v)
		if err != nil {
			return errors.MeshQuery(err, "normal of vertex %d on face %d", v, f)
		}
		if n.IsZero() {
			r.Error(cornerNode(t, f, v), "zero-length normal")
		}
		return nil
	})
}

func (ZeroNormals) Fix(_ context.Context, t Target, _ []Issue) (int, error) {
	fixed := 0
	err := forEachCorner(t, nil, func(v mesh.VertexID, f mesh.FaceID, _ mesh.NormalID) error {
		n, err := t.Mesh.FaceVertexNormal(f, v)
		if err != nil {
			return errors.MeshQuery(err, "normal of vertex %d on face %d", v, f)
		}
		if !n.IsZero() {
			return nil
		}
		p, err := t.Mesh.PolygonNormal(f)
		if err != nil {
			return errors.MeshQuery(err, "normal of face %d", f)
		}
		if err := t.Mesh.SetFaceVertexNormal(f, v, p); err != nil {
			return errors.MeshQuery(err, "set normal of vertex %d on face %d", v, f)
		}
		fixed++
		return nil
	})
	return fixed, err
}

// UnnormalizedNormals reports face-vertex normals that are not unit length.
// The fix rescales them and keeps their lock state.
type UnnormalizedNormals struct {
	Tolerance float64
}

func (UnnormalizedNormals) Name() string { return "unnormalized-normals" }
func (UnnormalizedNormals) Description() string {
	return "face-vertex normals that are not unit length"
}

func (u UnnormalizedNormals) tolerance() float64 {
	if u.Tolerance <= 0 {
		return DefaultNormalTolerance
	}
	return u.Tolerance
}

func (u UnnormalizedNormals) off(n mesh.Vector3) bool {
	return !n.IsZero() && math.Abs(n.Length()-1) > u.tolerance()
}

func (u UnnormalizedNormals) Validate(_ context.Context, t Target, r *Report) error {
	return forEachCorner(t, r, func(v mesh.VertexID, f mesh.FaceID, _ mesh.NormalID) error {
		n, err := t.Mesh.FaceVertexNormal(f, v)
		if err != nil {
			return errors.MeshQuery(err, "normal of vertex %d on face %d", v, f)
		}
		if u.off(n) {
			r.Warn(cornerNode(t, f, v), "normal length %.6g", n.Length())
		}
		return nil
	})
}

func (u UnnormalizedNormals) Fix(_ context.Context, t Target, _ []Issue) (int, error) {
	var unlock []mesh.NormalID
	fixed := 0
	err := forEachCorner(t, nil, func(v mesh.VertexID, f mesh.FaceID, id mesh.NormalID) error {
		n, err := t.Mesh.FaceVertexNormal(f, v)
		if err != nil {
			return errors.MeshQuery(err, "normal of vertex %d on face %d", v, f)
		}
		if !u.off(n) {
			return nil
		}
		locked, err := t.Mesh.IsNormalLocked(id)
		if err != nil {
			return errors.MeshQuery(err, "lock of normal %d", id)
		}
		if err := t.Mesh.SetFaceVertexNormal(f, v, n.Normalize()); err != nil {
			return errors.MeshQuery(err, "set normal of vertex %d on face %d", v, f)
		}
		if !locked {
			unlock = append(unlock, id)
		}
		fixed++
		return nil
	})
	if err != nil {
		return fixed, err
	}
	if len(unlock) > 0 {
		if err := t.Mesh.UnlockVertexNormals(unlock); err != nil {
			return fixed, errors.MeshQuery(err, "restore unlocked normals")
		}
	}
	return fixed, nil
}

// LockedNormals reports vertices with locked normals. Locked normals ignore
// edge smoothing changes, which is usually unintended after an export. The
// fix unlocks every normal of the mesh.
type LockedNormals struct{}

func (LockedNormals) Name() string        { return "locked-normals" }
func (LockedNormals) Description() string { return "vertices with locked (user) normals" }

func (LockedNormals) Validate(_ context.Context, t Target, r *Report) error {
	last := mesh.VertexID(-1)
	return forEachCorner(t, r, func(v mesh.VertexID, _ mesh.FaceID, id mesh.NormalID) error {
		if v == last {
			return nil
		}
		locked, err := t.Mesh.IsNormalLocked(id)
		if err != nil {
			return errors.MeshQuery(err, "lock of normal %d", id)
		}
		if locked {
			r.Warn(node(t, mesh.KindVertex, int(v)), "vertex has locked normals")
			last = v
		}
		return nil
	})
}

func (LockedNormals) Fix(_ context.Context, t Target, _ []Issue) (int, error) {
	return normals.LockAll(t.Mesh, false)
}
