// Package normals implements vertex normal alignment for polygon meshes.
//
// Two commands share one pipeline:
//
//   - Auto-Align ([VariantAuto]): faces under the selection take the seed
//     vector of the last selected component, while the selection border keeps
//     its current normals.
//   - Rounded-Align ([VariantRounded]): the endpoints of each selected edge
//     take the blend of the faces around that edge.
//
// # Pipeline
//
//	ExtractSeed -> WalkFaces / WalkEdges -> PlanAuto / PlanRounded -> Capture -> Apply
//
// [Prepare] runs the read-only part for every mesh of a selection and returns
// an immutable [Entry] holding one (plan, snapshot) [Step] per mesh. No mesh
// is written until every read is done. [Align] prepares and applies.
//
// # Undo
//
// Entries restore the captured normals and lock flags with [Entry.Revert]
// and replay with [Entry.Apply]. Hosts drive them through an [Invocation]
// state machine or keep them on a [History] stack:
//
//	h := normals.NewHistory(50)
//	entry, err := normals.Align(ctx, scene, normals.VariantAuto, sel, normals.Options{})
//	h.Push(entry)
//	_, err = h.Undo(ctx, scene)
//
// Entries hold mesh names, never mesh handles, and marshal to JSON for
// persistent journals.
package normals
