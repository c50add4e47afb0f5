// Package pkg provides the core libraries for normalign, a toolkit for
// aligning custom split normals on polygon meshes.
//
// # Overview
//
// normalign rewrites the per-corner normals of a mesh so that shading follows
// the intent of the artist: a flat selection takes the direction of one chosen
// component, and rounded edges take the blend of the faces they join. Every
// command is planned first, captured, and only then written, so it can be
// undone and redone exactly. The pkg directory is organized into these areas:
//
//  1. [mesh] - Mesh capability interfaces, an in-memory mesh, documents and selections
//  2. [normals] - Alignment planning, snapshots, entries and undo history
//  3. [journal] - Persistent history keyed by document path and content
//  4. [cache] - Key-value stores (file, Redis, MongoDB) backing the journal
//  5. [validation] - Named mesh checks with progress, stop and fix support
//  6. [render/topology] - Graphviz views of mesh topology and edge classes
//
// # Architecture
//
// The typical data flow for one alignment command:
//
//	Mesh document (YAML/JSON)
//	         ↓
//	[mesh.ReadDocumentFile] → *mesh.Memory
//	         ↓
//	[normals.Prepare] → Entry (plan + snapshot per mesh)
//	         ↓
//	[normals.Entry.Apply] → normals written, locks set
//	         ↓
//	[normals.History.Push] → [journal.Journal.Save]
//
// # Quick Start
//
//	m, _ := mesh.ReadDocumentFile("plane.yaml")
//	sel, _ := mesh.ParseSelection(m.Name(), "f:0-3")
//
//	h := normals.NewHistory(normals.DefaultHistoryDepth)
//	entry, _ := normals.Align(ctx, scene, normals.VariantAuto, sel, normals.Options{})
//	if entry != nil {
//	    h.Push(entry)
//	}
//
//	// later
//	_, _ = h.Undo(ctx, scene)
//
// # Supporting Packages
//
// [errors] - Coded errors shared by every package, with input validation
// helpers for names, paths and namespaces.
//
// [observability] - Hook interfaces for alignment, validation and cache
// events. Hooks default to no-ops; the CLI installs logging hooks at debug
// level.
//
// [buildinfo] - Version, commit and build date injected at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/normals/...    # Specific package
//	go test -run Example ./...   # Examples only
//
// [mesh]: https://pkg.go.dev/github.com/matzehuels/normalign/pkg/mesh
// [normals]: https://pkg.go.dev/github.com/matzehuels/normalign/pkg/normals
// [journal]: https://pkg.go.dev/github.com/matzehuels/normalign/pkg/journal
// [cache]: https://pkg.go.dev/github.com/matzehuels/normalign/pkg/cache
// [validation]: https://pkg.go.dev/github.com/matzehuels/normalign/pkg/validation
// [render/topology]: https://pkg.go.dev/github.com/matzehuels/normalign/pkg/render/topology
// [errors]: https://pkg.go.dev/github.com/matzehuels/normalign/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/normalign/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/normalign/pkg/buildinfo
//
// [mesh.ReadDocumentFile]: https://pkg.go.dev/github.com/matzehuels/normalign/pkg/mesh#ReadDocumentFile
// [normals.Prepare]: https://pkg.go.dev/github.com/matzehuels/normalign/pkg/normals#Prepare
// [normals.Entry.Apply]: https://pkg.go.dev/github.com/matzehuels/normalign/pkg/normals#Entry.Apply
// [normals.History.Push]: https://pkg.go.dev/github.com/matzehuels/normalign/pkg/normals#History.Push
// [journal.Journal.Save]: https://pkg.go.dev/github.com/matzehuels/normalign/pkg/journal#Journal.Save
package pkg
