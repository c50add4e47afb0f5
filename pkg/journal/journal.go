// Package journal persists the undo history of mesh documents between CLI
// invocations.
//
// Each document path maps to one record in a [cache.Cache]. The record keeps
// the [normals.History] together with the content hash of the document as
// it was after the last recorded command, so an undo is refused once the
// file has been edited by something else.
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/normalign/pkg/cache"
	"github.com/matzehuels/normalign/pkg/normals"
)

var (
	// ErrEmpty is returned by Load when no history is stored for a document.
	ErrEmpty = errors.New("journal is empty")

	// ErrStale is returned by Load when the document changed since the
	// history was saved.
	ErrStale = errors.New("journal does not match the document")
)

// DefaultTTL keeps a journal for a week after its last save.
const DefaultTTL = 7 * 24 * time.Hour

// Options configures a Journal.
type Options struct {
	// Keyer builds storage keys. Defaults to cache.NewDefaultKeyer().
	Keyer cache.Keyer

	// TTL of stored records. Zero uses DefaultTTL, negative keeps forever.
	TTL time.Duration

	// Depth overrides the depth of loaded histories when positive.
	Depth int

	Logger *log.Logger
}

// Journal loads and saves histories.
type Journal struct {
	store cache.Cache
	opts  Options
}

// New creates a journal on top of store.
func New(store cache.Cache, opts Options) *Journal {
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.TTL == 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Journal{store: store, opts: opts}
}

type record struct {
	Document string           `json:"document"`
	DocHash  string           `json:"doc_hash"`
	SavedAt  time.Time        `json:"saved_at"`
	History  *normals.History `json:"history"`
}

func (j *Journal) key(docPath string) (string, string, error) {
	abs, err := filepath.Abs(docPath)
	if err != nil {
		return "", "", fmt.Errorf("resolve %s: %w", docPath, err)
	}
	return j.opts.Keyer.JournalKey(abs), abs, nil
}

// Load returns the stored history of docPath. docHash is the hash of the
// document's current content; a mismatch yields ErrStale.
func (j *Journal) Load(ctx context.Context, docPath, docHash string) (*normals.History, error) {
	key, abs, err := j.key(docPath)
	if err != nil {
		return nil, err
	}
	data, ok, err := j.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load journal for %s: %w", abs, err)
	}
	if !ok {
		return nil, ErrEmpty
	}

	rec := record{History: normals.NewHistory(j.opts.Depth)}
	if err := json.Unmarshal(data, &rec); err != nil || rec.History == nil {
		j.opts.Logger.Warn("discarding unreadable journal", "document", abs, "error", err)
		_ = j.store.Delete(ctx, key)
		return nil, ErrEmpty
	}
	if rec.DocHash != docHash {
		j.opts.Logger.Debug("journal hash mismatch", "document", abs, "stored", rec.DocHash, "current", docHash)
		return nil, ErrStale
	}
	if j.opts.Depth > 0 {
		rec.History.SetMaxDepth(j.opts.Depth)
	}
	j.opts.Logger.Debug("loaded journal", "document", abs,
		"undo", len(rec.History.Entries()), "redo", len(rec.History.RedoEntries()))
	return rec.History, nil
}

// LoadOrNew is Load with ErrEmpty and ErrStale mapped to a fresh history.
// A stale journal is dropped.
func (j *Journal) LoadOrNew(ctx context.Context, docPath, docHash string) (*normals.History, error) {
	h, err := j.Load(ctx, docPath, docHash)
	switch {
	case errors.Is(err, ErrStale):
		j.opts.Logger.Warn("document changed outside normalign, starting a new history", "document", docPath)
		if err := j.Clear(ctx, docPath); err != nil {
			return nil, err
		}
		return normals.NewHistory(j.opts.Depth), nil
	case errors.Is(err, ErrEmpty):
		return normals.NewHistory(j.opts.Depth), nil
	case err != nil:
		return nil, err
	}
	return h, nil
}

// Save stores h for docPath. docHash is the hash of the document content
// the history now leads to. An empty history removes the record.
func (j *Journal) Save(ctx context.Context, docPath, docHash string, h *normals.History) error {
	key, abs, err := j.key(docPath)
	if err != nil {
		return err
	}
	if !h.CanUndo() && !h.CanRedo() {
		return j.store.Delete(ctx, key)
	}

	data, err := json.Marshal(record{
		Document: abs,
		DocHash:  docHash,
		SavedAt:  time.Now().UTC(),
		History:  h,
	})
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}

	ttl := j.opts.TTL
	if ttl < 0 {
		ttl = 0
	}
	if err := j.store.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("save journal for %s: %w", abs, err)
	}
	j.opts.Logger.Debug("saved journal", "document", abs, "bytes", len(data))
	return nil
}

// Clear removes the history of docPath.
func (j *Journal) Clear(ctx context.Context, docPath string) error {
	key, _, err := j.key(docPath)
	if err != nil {
		return err
	}
	return j.store.Delete(ctx, key)
}
