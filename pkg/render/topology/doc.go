// Package topology renders the edge classification of a mesh as a Graphviz
// diagram.
//
// Vertices become nodes placed at their projected positions. Edges are drawn
// by class:
//
//   - smooth interior: solid grey
//   - hard interior: solid black, bold
//   - smooth boundary: dashed blue
//   - hard boundary: dashed red, bold
//   - non-manifold: purple, bold
//
// Highlighted components (usually the current selection) are filled or drawn
// in orange. This is the view to check when an alignment splits or blends
// normals unexpectedly:
//
//	dot, err := topology.ToDOT(m, "plane", topology.Options{Highlight: sel})
//	svg, err := topology.RenderSVG(dot)
//
// Node positions carry a trailing "!" and the graph requests the neato
// engine, so external Graphviz tools keep the mesh shape. [RenderSVG] uses
// the embedded dot engine and produces a readable but unpinned layout.
package topology
