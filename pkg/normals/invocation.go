package normals

import (
	"context"

	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
)

// State is the lifecycle position of an [Invocation].
type State int

const (
	StateIdle State = iota
	StatePlanned
	StateApplied
	StateReverted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlanned:
		return "planned"
	case StateApplied:
		return "applied"
	case StateReverted:
		return "reverted"
	default:
		return "unknown"
	}
}

// Invocation is one host command instance:
//
//	Idle -> Planned -> Applied <-> Reverted
//
// Planning and capture run once. Undo and redo replay the same entry. An
// invocation whose selection yields nothing stays Idle and is not undoable.
// Invocations are not safe for concurrent use.
type Invocation struct {
	scene   Scene
	variant Variant
	sel     mesh.Selection
	opts    Options

	entry *Entry
	state State
}

// NewInvocation creates an idle invocation.
func NewInvocation(scene Scene, variant Variant, sel mesh.Selection, opts Options) *Invocation {
	return &Invocation{scene: scene, variant: variant, sel: sel, opts: opts}
}

// State returns the current lifecycle state.
func (inv *Invocation) State() State { return inv.state }

// Entry returns the planned entry, or nil before planning or for a no-op.
func (inv *Invocation) Entry() *Entry { return inv.entry }

// Undoable reports whether the invocation produced something to undo.
func (inv *Invocation) Undoable() bool { return inv.entry != nil }

// Plan walks, plans and captures. It is only legal from Idle.
func (inv *Invocation) Plan(ctx context.Context) error {
	if inv.state != StateIdle {
		return inv.illegal("plan")
	}
	entry, err := Prepare(ctx, inv.scene, inv.variant, inv.sel, inv.opts)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}
	inv.entry = entry
	inv.state = StatePlanned
	return nil
}

// Do plans if needed and applies. A no-op selection leaves the invocation
// Idle and returns nil.
func (inv *Invocation) Do(ctx context.Context) error {
	if inv.state == StateIdle {
		if err := inv.Plan(ctx); err != nil {
			return err
		}
		if inv.entry == nil {
			return nil
		}
	}
	if inv.state != StatePlanned {
		return inv.illegal("do")
	}
	return inv.apply(ctx)
}

// Redo applies the entry again after an undo.
func (inv *Invocation) Redo(ctx context.Context) error {
	if inv.state != StateReverted {
		return inv.illegal("redo")
	}
	return inv.apply(ctx)
}

// Undo restores the captured snapshot.
func (inv *Invocation) Undo(ctx context.Context) error {
	if inv.state != StateApplied {
		return inv.illegal("undo")
	}
	if err := inv.entry.Revert(ctx, inv.scene); err != nil {
		return err
	}
	inv.state = StateReverted
	return nil
}

func (inv *Invocation) apply(ctx context.Context) error {
	if err := inv.entry.Apply(ctx, inv.scene); err != nil {
		return err
	}
	inv.state = StateApplied
	return nil
}

func (inv *Invocation) illegal(op string) error {
	return errors.New(errors.ErrCodeInvalidState, "cannot %s from state %s", op, inv.state)
}
