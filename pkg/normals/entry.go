package normals

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
	"github.com/matzehuels/normalign/pkg/observability"
)

// =============================================================================
// Variants & Options
// =============================================================================

// Variant names an alignment algorithm.
type Variant string

const (
	// VariantAuto aligns a face selection to the normal of the last
	// selected component.
	VariantAuto Variant = "auto"

	// VariantRounded aligns the endpoints of selected edges to the blend of
	// their adjacent faces.
	VariantRounded Variant = "rounded"
)

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantAuto, VariantRounded:
		return v, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown align variant %q (want auto or rounded)", s)
	}
}

// wants reports whether the variant consumes components of kind k.
func (v Variant) wants(k mesh.ComponentKind) bool {
	switch v {
	case VariantAuto:
		return k == mesh.KindFace
	case VariantRounded:
		return k == mesh.KindEdge
	default:
		return false
	}
}

// Options configures planning.
type Options struct {
	// Normalize scales every planned vector to unit length. Off by default:
	// Rounded-Align sums of two face normals are written as-is.
	Normalize bool

	// Logger receives debug output. Defaults to a discarding logger.
	Logger *log.Logger
}

// SetDefaults fills unset options.
func (o *Options) SetDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Scene resolves mesh names to borrowed mesh capabilities. Entries store
// names only and resolve them again on every apply or revert.
type Scene interface {
	Mesh(name string) (mesh.Mesh, error)
}

// =============================================================================
// Entry
// =============================================================================

// Step is the plan and snapshot for one mesh.
type Step struct {
	Mesh     string   `json:"mesh"`
	Plan     Plan     `json:"plan"`
	Snapshot Snapshot `json:"snapshot"`
}

// Entry is the immutable result of planning one alignment command. It can be
// applied and reverted any number of times.
type Entry struct {
	ID        string         `json:"id"`
	Variant   Variant        `json:"variant"`
	CreatedAt time.Time      `json:"created_at"`
	Selection mesh.Selection `json:"selection"`
	Steps     []Step         `json:"steps"`
}

// Meshes returns the mesh names touched by e, in step order.
func (e *Entry) Meshes() []string {
	names := make([]string, len(e.Steps))
	for i, s := range e.Steps {
		names[i] = s.Mesh
	}
	return names
}

// Assignments returns the total number of planned writes.
func (e *Entry) Assignments() int {
	n := 0
	for _, s := range e.Steps {
		n += s.Plan.Len()
	}
	return n
}

// Apply writes every step. If a step fails, the steps written so far are
// reverted before the error is returned. Failed reverts are joined to the
// returned error; its code stays that of the original failure.
func (e *Entry) Apply(ctx context.Context, scene Scene) (err error) {
	defer func() { observability.Normals().OnApply(ctx, string(e.Variant), e.ID, err) }()

	for i, st := range e.Steps {
		m, err := resolve(scene, st.Mesh)
		if err == nil {
			err = Apply(st.Plan, m)
		}
		if err != nil {
			errs := []error{err}
			for j := i; j >= 0; j-- {
				rm, rerr := resolve(scene, e.Steps[j].Mesh)
				if rerr == nil {
					rerr = Revert(e.Steps[j].Snapshot, rm)
				}
				if rerr != nil {
					errs = append(errs, errors.Wrap(errors.ErrCodeMeshQuery, rerr, "rollback of mesh %q", e.Steps[j].Mesh))
				}
			}
			return stderrors.Join(errs...)
		}
	}
	return nil
}

// Revert restores every step in reverse order.
func (e *Entry) Revert(ctx context.Context, scene Scene) (err error) {
	defer func() { observability.Normals().OnRevert(ctx, string(e.Variant), e.ID, err) }()

	for i := len(e.Steps) - 1; i >= 0; i-- {
		st := e.Steps[i]
		m, err := resolve(scene, st.Mesh)
		if err != nil {
			return err
		}
		if err := Revert(st.Snapshot, m); err != nil {
			return err
		}
	}
	return nil
}

func resolve(scene Scene, name string) (mesh.Mesh, error) {
	m, err := scene.Mesh(name)
	if err != nil {
		return nil, errors.MeshQuery(err, "resolve mesh %q", name)
	}
	return m, nil
}

// =============================================================================
// Planning
// =============================================================================

// Prepare walks, plans and captures every mesh in sel without writing.
//
// A nil entry with a nil error means there is nothing to do: the selection is
// empty, the seed component has an unsupported kind, or no mesh has
// components the variant uses. Any mesh failure aborts before the first
// write. ctx is only consulted before planning starts.
func Prepare(ctx context.Context, scene Scene, variant Variant, sel mesh.Selection, opts Options) (entry *Entry, err error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCanceled, err, "align %s", variant)
	}
	if _, err := ParseVariant(string(variant)); err != nil {
		return nil, err
	}
	opts.SetDefaults()

	if len(sel) == 0 {
		opts.Logger.Debug("empty selection, nothing to align", "variant", variant)
		return nil, nil
	}

	start := time.Now()
	observability.Normals().OnPlanStart(ctx, string(variant), len(sel))
	defer func() {
		meshes, assignments := 0, 0
		if entry != nil {
			meshes, assignments = len(entry.Steps), entry.Assignments()
		}
		observability.Normals().OnPlanComplete(ctx, string(variant), meshes, assignments, time.Since(start), err)
	}()

	var seed mesh.Vector3
	if variant == VariantAuto {
		last, _ := sel.Last()
		m, err := resolve(scene, last.Mesh)
		if err != nil {
			return nil, err
		}
		seed, err = ExtractSeed(m, last)
		if errors.Is(err, errors.ErrCodeUnsupportedComponent) {
			opts.Logger.Debug("skipping alignment", "component", last, "reason", errors.UserMessage(err))
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		opts.Logger.Debug("seed", "component", last, "vector", seed)
	}

	var steps []Step
	for _, name := range sel.Meshes() {
		part := sel.OnMesh(name)
		for _, c := range part {
			if !variant.wants(c.Kind) {
				opts.Logger.Debug("component not used by variant", "component", c, "variant", variant)
			}
		}

		var plan Plan
		switch variant {
		case VariantAuto:
			faces := part.Faces()
			if len(faces) == 0 {
				continue
			}
			m, err := resolve(scene, name)
			if err != nil {
				return nil, err
			}
			if plan, err = PlanAuto(m, faces, seed); err != nil {
				return nil, err
			}
		case VariantRounded:
			edges := part.Edges()
			if len(edges) == 0 {
				continue
			}
			m, err := resolve(scene, name)
			if err != nil {
				return nil, err
			}
			if plan, err = PlanRounded(m, edges); err != nil {
				return nil, err
			}
		}

		if opts.Normalize {
			plan = plan.Normalized()
		}
		if plan.Empty() {
			continue
		}
		if err := plan.Validate(); err != nil {
			return nil, err
		}

		m, err := resolve(scene, name)
		if err != nil {
			return nil, err
		}
		snap, err := Capture(plan, m)
		if err != nil {
			return nil, err
		}
		opts.Logger.Debug("planned mesh", "mesh", name,
			"vertices", len(plan.Vertices), "face_vertices", len(plan.FaceVertices), "locks", len(snap.Locks))
		steps = append(steps, Step{Mesh: name, Plan: plan, Snapshot: snap})
	}

	if len(steps) == 0 {
		return nil, nil
	}
	return &Entry{
		ID:        uuid.NewString(),
		Variant:   variant,
		CreatedAt: time.Now().UTC(),
		Selection: sel,
		Steps:     steps,
	}, nil
}

// Align prepares and applies one alignment command. It returns the applied
// entry, or nil when there was nothing to do.
func Align(ctx context.Context, scene Scene, variant Variant, sel mesh.Selection, opts Options) (*Entry, error) {
	entry, err := Prepare(ctx, scene, variant, sel, opts)
	if err != nil || entry == nil {
		return nil, err
	}
	if err := entry.Apply(ctx, scene); err != nil {
		return nil, err
	}
	return entry, nil
}
