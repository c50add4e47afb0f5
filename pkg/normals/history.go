package normals

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/normalign/pkg/errors"
)

// DefaultHistoryDepth is the undo depth used when none is configured.
const DefaultHistoryDepth = 50

// History is an undo/redo stack of applied entries. Pushing a new entry
// clears the redo stack, and the oldest entry is dropped once the stack is
// deeper than its limit. History is not safe for concurrent use.
type History struct {
	undo     []*Entry
	redo     []*Entry
	maxDepth int
}

// NewHistory creates a history. A non-positive depth selects
// [DefaultHistoryDepth].
func NewHistory(maxDepth int) *History {
	if maxDepth <= 0 {
		maxDepth = DefaultHistoryDepth
	}
	return &History{maxDepth: maxDepth}
}

// MaxDepth returns the undo limit.
func (h *History) MaxDepth() int { return h.maxDepth }

// SetMaxDepth changes the undo limit, trimming the oldest entries.
func (h *History) SetMaxDepth(n int) {
	if n <= 0 {
		n = DefaultHistoryDepth
	}
	h.maxDepth = n
	h.trim()
}

// Push records an applied entry. Nil entries are ignored.
func (h *History) Push(e *Entry) {
	if e == nil {
		return
	}
	h.undo = append(h.undo, e)
	h.redo = nil
	h.trim()
}

func (h *History) trim() {
	if over := len(h.undo) - h.maxDepth; over > 0 {
		h.undo = append([]*Entry(nil), h.undo[over:]...)
	}
}

// CanUndo reports whether there is an entry to undo.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether there is an entry to redo.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Undo reverts the most recent entry and moves it to the redo stack. On
// failure the entry stays where it was.
func (h *History) Undo(ctx context.Context, scene Scene) (*Entry, error) {
	if !h.CanUndo() {
		return nil, errors.New(errors.ErrCodeInvalidState, "nothing to undo")
	}
	e := h.undo[len(h.undo)-1]
	if err := e.Revert(ctx, scene); err != nil {
		return nil, err
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, e)
	return e, nil
}

// Redo re-applies the most recently undone entry.
func (h *History) Redo(ctx context.Context, scene Scene) (*Entry, error) {
	if !h.CanRedo() {
		return nil, errors.New(errors.ErrCodeInvalidState, "nothing to redo")
	}
	e := h.redo[len(h.redo)-1]
	if err := e.Apply(ctx, scene); err != nil {
		return nil, err
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, e)
	return e, nil
}

// Entries returns the undo stack, oldest first.
func (h *History) Entries() []*Entry {
	return append([]*Entry(nil), h.undo...)
}

// RedoEntries returns the redo stack, most recently undone last.
func (h *History) RedoEntries() []*Entry {
	return append([]*Entry(nil), h.redo...)
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}

type historyJSON struct {
	MaxDepth int      `json:"max_depth"`
	Undo     []*Entry `json:"undo"`
	Redo     []*Entry `json:"redo,omitempty"`
}

func (h *History) MarshalJSON() ([]byte, error) {
	return json.Marshal(historyJSON{MaxDepth: h.maxDepth, Undo: h.undo, Redo: h.redo})
}

func (h *History) UnmarshalJSON(data []byte) error {
	var in historyJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	h.maxDepth = in.MaxDepth
	if h.maxDepth <= 0 {
		h.maxDepth = DefaultHistoryDepth
	}
	h.undo = in.Undo
	h.redo = in.Redo
	h.trim()
	return nil
}
