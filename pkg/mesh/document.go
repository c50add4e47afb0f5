package mesh

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/normalign/pkg/errors"
)

// Document is the serialized form of a [Memory] mesh.
//
// Hard edges are stored as vertex pairs so that documents stay valid when
// faces are reordered. Locked normals use the normal ids of the face-vertex
// layout (faces in order, loop positions in order).
type Document struct {
	Name      string         `yaml:"name" json:"name"`
	Weighting string         `yaml:"weighting,omitempty" json:"weighting,omitempty"`
	Points    [][]float64    `yaml:"points" json:"points"`
	Faces     []DocumentFace `yaml:"faces" json:"faces"`
	HardEdges [][]int        `yaml:"hard_edges,omitempty" json:"hard_edges,omitempty"`
	Locked    []int          `yaml:"locked,omitempty" json:"locked,omitempty"`
}

// DocumentFace is one polygon with optional per-corner normals.
type DocumentFace struct {
	Vertices []int       `yaml:"vertices,flow" json:"vertices"`
	Normals  [][]float64 `yaml:"normals,omitempty" json:"normals,omitempty"`
}

// FromDocument builds a mesh from a document. Faces without normals get the
// default normals for the document's edge smoothing.
func FromDocument(doc *Document) (*Memory, error) {
	points := make([]Vector3, len(doc.Points))
	for i, p := range doc.Points {
		v, err := VectorFromSlice(p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "point %d", i)
		}
		points[i] = v
	}

	faces := make([][]VertexID, len(doc.Faces))
	for i, f := range doc.Faces {
		loop := make([]VertexID, len(f.Vertices))
		for j, v := range f.Vertices {
			loop[j] = VertexID(v)
		}
		faces[i] = loop
	}

	m, err := NewMemory(doc.Name, points, faces)
	if err != nil {
		return nil, err
	}

	w, err := ParseWeighting(doc.Weighting)
	if err != nil {
		return nil, err
	}
	m.weighting = w

	for i, pair := range doc.HardEdges {
		if len(pair) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "hard edge %d needs 2 vertices, got %d", i, len(pair))
		}
		e, ok := m.FindEdge(VertexID(pair[0]), VertexID(pair[1]))
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "hard edge %d-%d does not exist", pair[0], pair[1])
		}
		m.edges[e].smooth = false
	}

	// Defaults depend on the final smoothing, so they are computed after all
	// hard edges are known and before explicit normals override them.
	for f := range m.loops {
		for i := range m.loops[f] {
			m.normals[f][i] = m.defaultNormal(FaceID(f), i)
		}
	}

	for fi, f := range doc.Faces {
		if len(f.Normals) == 0 {
			continue
		}
		if len(f.Normals) != len(f.Vertices) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "face %d has %d normals for %d vertices", fi, len(f.Normals), len(f.Vertices))
		}
		for i, n := range f.Normals {
			v, err := VectorFromSlice(n)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "face %d normal %d", fi, i)
			}
			m.normals[fi][i] = v
		}
	}

	for _, id := range doc.Locked {
		if id < 0 || id >= len(m.locked) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "locked normal id %d out of range", id)
		}
		m.locked[id] = true
	}
	return m, nil
}

// Document returns the serialized form of m, including every normal.
func (m *Memory) Document() *Document {
	doc := &Document{
		Name:   m.name,
		Points: make([][]float64, len(m.points)),
		Faces:  make([]DocumentFace, len(m.loops)),
	}
	if m.weighting != WeightUnweighted {
		doc.Weighting = m.weighting.String()
	}
	for i, p := range m.points {
		doc.Points[i] = p.Slice()
	}
	for f, loop := range m.loops {
		face := DocumentFace{
			Vertices: make([]int, len(loop)),
			Normals:  make([][]float64, len(loop)),
		}
		for i, v := range loop {
			face.Vertices[i] = int(v)
			face.Normals[i] = m.normals[f][i].Slice()
		}
		doc.Faces[f] = face
	}
	for _, e := range m.HardEdges() {
		doc.HardEdges = append(doc.HardEdges, []int{int(m.edges[e].v0), int(m.edges[e].v1)})
	}
	for _, id := range m.LockedNormals() {
		doc.Locked = append(doc.Locked, int(id))
	}
	return doc
}

// =============================================================================
// File IO
// =============================================================================

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// ReadDocumentFile reads a mesh document. Files ending in .json are decoded
// as JSON, everything else as YAML. An empty name defaults to the file stem.
func ReadDocumentFile(path string) (*Memory, error) {
	if err := errors.ValidateDocumentPath(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "mesh document %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}

	var doc Document
	if isJSON(path) {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
	}

	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return FromDocument(&doc)
}

// WriteDocumentFile writes m to path, creating parent directories.
func WriteDocumentFile(path string, m *Memory) error {
	if err := errors.ValidateDocumentPath(path); err != nil {
		return err
	}

	doc := m.Document()
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create directory for %s", path)
	}
	return os.WriteFile(path, data, 0644)
}

// Equal reports whether a and b have the same topology, smoothing, normals
// and locks. Normals are compared bit for bit.
func Equal(a, b *Memory) bool {
	if a.name != b.name || !slices.Equal(a.points, b.points) || len(a.loops) != len(b.loops) {
		return false
	}
	for f := range a.loops {
		if !slices.Equal(a.loops[f], b.loops[f]) || !slices.Equal(a.normals[f], b.normals[f]) {
			return false
		}
	}
	return slices.Equal(a.HardEdges(), b.HardEdges()) && slices.Equal(a.locked, b.locked)
}
