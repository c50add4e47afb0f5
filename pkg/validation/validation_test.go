package validation

import (
	"context"
	stderrors "errors"
	"slices"
	"testing"

	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/mesh"
)

type funcValidator struct {
	name string
	fn   func(ctx context.Context, t Target, r *Report) error
}

func (f funcValidator) Name() string        { return f.name }
func (f funcValidator) Description() string { return "test validator " + f.name }
func (f funcValidator) Validate(ctx context.Context, t Target, r *Report) error {
	return f.fn(ctx, t, r)
}

func stepping(name string, steps int) funcValidator {
	return funcValidator{name: name, fn: func(_ context.Context, t Target, r *Report) error {
		r.SetCount(steps)
		for i := 0; i < steps; i++ {
			if err := r.Step(); err != nil {
				return err
			}
		}
		r.Warn(t.Name, "checked %d steps", steps)
		return nil
	}}
}

func planeTarget(t *testing.T) Target {
	t.Helper()
	m, err := mesh.Plane("plane", 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	return Target{Name: "plane", Mesh: m}
}

func TestReport(t *testing.T) {
	r := NewReport()
	if r.Count() != 1 {
		t.Errorf("default count = %d, want 1", r.Count())
	}
	r.SetCount(0)
	if r.Count() != 1 {
		t.Errorf("SetCount(0) should clamp to 1, got %d", r.Count())
	}
	r.SetCount(3)
	for i := 0; i < 3; i++ {
		if err := r.Step(); err != nil {
			t.Fatal(err)
		}
	}
	r.Error("a", "bad %d", 1)
	r.Warn("b", "meh")
	r.Error("", "mesh-wide")

	if r.Steps() != 3 || len(r.Issues()) != 3 || len(r.Errors()) != 2 || len(r.Warnings()) != 1 {
		t.Errorf("steps %d, issues %d, errors %d, warnings %d", r.Steps(), len(r.Issues()), len(r.Errors()), len(r.Warnings()))
	}
	if got := r.Errors()[0].Message; got != "bad 1" {
		t.Errorf("message = %q", got)
	}
}

func TestRegistry(t *testing.T) {
	a, b, c := stepping("a", 1), stepping("b", 1), stepping("c", 1)
	reg, err := NewRegistry(a, b, c)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewRegistry(a, a); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate registration: %v", err)
	}
	if err := reg.Register(funcValidator{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unnamed validator: %v", err)
	}

	if got := reg.Names(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Names = %v", got)
	}
	if v, ok := reg.Get("b"); !ok || v.Name() != "b" {
		t.Error("Get(b) failed")
	}

	if err := reg.SetEnabled("b", false); err != nil {
		t.Fatal(err)
	}
	if reg.Enabled("b") || !reg.Enabled("a") || reg.Enabled("zzz") {
		t.Error("Enabled flags wrong after SetEnabled")
	}
	if err := reg.SetEnabled("zzz", true); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("SetEnabled unknown: %v", err)
	}

	if err := reg.Only("c", "b"); err != nil {
		t.Fatal(err)
	}
	var active []string
	for _, v := range reg.Active() {
		active = append(active, v.Name())
	}
	if !slices.Equal(active, []string{"b", "c"}) {
		t.Errorf("Active = %v, want registration order [b c]", active)
	}

	if err := reg.Only("a", "nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Only with unknown name: %v", err)
	}
	if reg.Enabled("a") {
		t.Error("failed Only must not change flags")
	}
}

func TestRunnerRun(t *testing.T) {
	reg, _ := NewRegistry(stepping("first", 2), stepping("second", 3))
	runner := NewRunner(reg, RunnerOptions{})
	targets := []Target{planeTarget(t), {Name: "other", Mesh: planeTarget(t).Mesh}}

	var seen []Progress
	sum, err := runner.Run(context.Background(), targets, func(p Progress) { seen = append(seen, p) })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(sum.Results) != 4 {
		t.Fatalf("results = %d, want 4", len(sum.Results))
	}
	if sum.Count != 10 || len(seen) != 10 || seen[9].Total != 10 {
		t.Errorf("count = %d, progress calls = %d", sum.Count, len(seen))
	}
	if sum.Warnings != 4 || sum.Errors != 0 || !sum.OK() {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Results[0].Validator != "first" || sum.Results[1].Target != "other" {
		t.Errorf("results out of order: %+v", sum.Results)
	}
	if runner.Running() || runner.Canceled() {
		t.Error("runner should be idle and not canceled")
	}
}

func TestRunnerFailures(t *testing.T) {
	reg, _ := NewRegistry(
		funcValidator{name: "panics", fn: func(context.Context, Target, *Report) error { panic("boom") }},
		funcValidator{name: "fails", fn: func(context.Context, Target, *Report) error { return stderrors.New("broken") }},
		funcValidator{name: "errors", fn: func(_ context.Context, t Target, r *Report) error {
			r.Error(t.Name, "bad")
			return nil
		}},
	)
	sum, err := NewRunner(reg, RunnerOptions{}).Run(context.Background(), []Target{planeTarget(t)}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.Failures != 2 || sum.Errors != 1 || sum.OK() {
		t.Errorf("summary = %+v", sum)
	}
	for _, r := range sum.Results[:2] {
		if !errors.Is(r.Err, errors.ErrCodeValidator) || r.ErrText == "" {
			t.Errorf("%s: err = %v, want VALIDATOR_ERROR", r.Validator, r.Err)
		}
	}
}

// fixFunc is a stepping validator with a custom Fix.
type fixFunc struct {
	funcValidator
	fix func(ctx context.Context, t Target, issues []Issue) (int, error)
}

func (f fixFunc) Fix(ctx context.Context, t Target, issues []Issue) (int, error) {
	return f.fix(ctx, t, issues)
}

func TestRunnerFixerPanics(t *testing.T) {
	reg, _ := NewRegistry(
		fixFunc{
			funcValidator: stepping("panicky-fix", 1),
			fix:           func(context.Context, Target, []Issue) (int, error) { panic("boom") },
		},
		stepping("after", 1),
	)
	sum, err := NewRunner(reg, RunnerOptions{Fix: true}).Run(context.Background(), []Target{planeTarget(t)}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(sum.Results) != 2 || sum.Results[1].Validator != "after" {
		t.Fatalf("results = %+v, want the run to reach the next validator", sum.Results)
	}
	if sum.Failures != 1 {
		t.Errorf("Failures = %d, want 1", sum.Failures)
	}
	first := sum.Results[0]
	if !errors.Is(first.Err, errors.ErrCodeValidator) || first.ErrText == "" || first.Fixed != 0 {
		t.Errorf("fixer result = %+v, want VALIDATOR_ERROR", first)
	}
}

func TestRunnerStop(t *testing.T) {
	reg, _ := NewRegistry(stepping("long", 100), stepping("never", 1))
	runner := NewRunner(reg, RunnerOptions{})

	sum, err := runner.Run(context.Background(), []Target{planeTarget(t)}, func(p Progress) {
		if p.Step == 5 {
			runner.Stop()
		}
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !sum.Canceled || !runner.Canceled() {
		t.Error("run should be canceled")
	}
	if len(sum.Results) != 1 || sum.Results[0].Steps != 5 || sum.Results[0].Err != nil {
		t.Errorf("results = %+v", sum.Results)
	}

	// a new run clears the stop flag
	sum, err = runner.Run(context.Background(), []Target{planeTarget(t)}, nil)
	if err != nil || sum.Canceled || len(sum.Results) != 2 {
		t.Errorf("second run = %+v, %v", sum, err)
	}
}

func TestRunnerContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reg, _ := NewRegistry(stepping("a", 10))
	sum, err := NewRunner(reg, RunnerOptions{}).Run(ctx, []Target{planeTarget(t)}, func(p Progress) {
		if p.Step == 2 {
			cancel()
		}
	})
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Fatalf("err = %v, want CANCELED", err)
	}
	if sum == nil || !sum.Canceled {
		t.Errorf("summary = %+v", sum)
	}
}

func TestRunnerRejectsNestedRun(t *testing.T) {
	reg, _ := NewRegistry(stepping("a", 1))
	runner := NewRunner(reg, RunnerOptions{})

	var nested error
	_, err := runner.Run(context.Background(), []Target{planeTarget(t)}, func(Progress) {
		_, nested = runner.Run(context.Background(), nil, nil)
	})
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(nested, errors.ErrCodeInvalidState) {
		t.Errorf("nested Run = %v, want INVALID_STATE", nested)
	}
}
