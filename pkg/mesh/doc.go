// Package mesh defines the polygon mesh capability consumed by the normal
// engine, plus an in-memory implementation and its document format.
//
// # Capabilities
//
// The engine never owns a mesh. Hosts lend one through two small interfaces:
//
//   - [Reader]: adjacency (vertex/edge/face), smoothing, boundary flags,
//     polygon, face-vertex and vertex normals, normal locks
//   - [Writer]: vertex and face-vertex normal writes, bulk lock and unlock
//
// [Mesh] combines both, [EdgeEditor] additionally changes edge smoothing.
//
// # In-Memory Meshes
//
// [Memory] implements [EdgeEditor] over points and vertex loops:
//
//	m, _ := mesh.Plane("ground", 4, 4)   // grid of quads facing +Y
//	c, _ := mesh.Cube("box")             // hard-edged unit cube
//
// Meshes round-trip through [Document] as YAML or JSON:
//
//	m, err := mesh.ReadDocumentFile("box.yaml")
//	err = mesh.WriteDocumentFile("box.json", m)
//
// # Selections
//
// A [Selection] is an ordered list of [Component] values. [ParseSelection]
// reads the compact form used on the command line:
//
//	sel, _ := mesh.ParseSelection("box", "f:0-2,e:5,v:3")
package mesh
