package cli

import (
	"context"
	"os"

	"github.com/matzehuels/normalign/pkg/cache"
	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
	"github.com/matzehuels/normalign/pkg/normals"
)

// docScene exposes the meshes of loaded documents by name.
type docScene struct {
	meshes map[string]*mesh.Memory
}

func newDocScene(ms ...*mesh.Memory) *docScene {
	s := &docScene{meshes: make(map[string]*mesh.Memory, len(ms))}
	for _, m := range ms {
		s.meshes[m.Name()] = m
	}
	return s
}

func (s *docScene) Mesh(name string) (mesh.Mesh, error) {
	m, ok := s.meshes[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no mesh named %q", name)
	}
	return m, nil
}

// loadDocument reads a mesh document and hashes its bytes.
func loadDocument(path string) (*mesh.Memory, string, error) {
	m, err := mesh.ReadDocumentFile(path)
	if err != nil {
		return nil, "", err
	}
	hash, err := hashFile(path)
	if err != nil {
		return nil, "", err
	}
	return m, hash, nil
}

// saveDocument writes m and returns the hash of the written bytes.
func saveDocument(path string, m *mesh.Memory) (string, error) {
	if err := mesh.WriteDocumentFile(path, m); err != nil {
		return "", err
	}
	return hashFile(path)
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return cache.Hash(data), nil
}

// editFunc changes m through the scene and may push onto h. It reports
// whether the document must be written.
type editFunc func(ctx context.Context, scene *docScene, m *mesh.Memory, h *normals.History) (bool, error)

// editDocument runs fn on the document at path with its journaled history,
// then writes the result to out (path when empty) and saves the history
// under the written path with the new content hash.
func (c *CLI) editDocument(ctx context.Context, path, out string, fn editFunc) (bool, error) {
	if out == "" {
		out = path
	}

	m, hash, err := loadDocument(path)
	if err != nil {
		return false, err
	}

	j, store := c.openJournal(ctx)
	defer store.Close()

	h, err := j.LoadOrNew(ctx, path, hash)
	if err != nil {
		return false, err
	}

	changed, err := fn(ctx, newDocScene(m), m, h)
	if err != nil || !changed {
		return false, err
	}

	newHash, err := saveDocument(out, m)
	if err != nil {
		return false, err
	}
	if err := j.Save(ctx, out, newHash, h); err != nil {
		c.Logger.Warn("could not save undo history", "document", out, "error", err)
	}
	return true, nil
}
