package validation

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/normalign/pkg/errors"
	"github.com/matzehuels/normalign/pkg/observability"
)

// Progress is reported after every validator step.
type Progress struct {
	Validator string
	Target    string
	Step      int
	Count     int
	Total     int // steps taken in this run so far
}

// Result is the outcome of one validator on one target.
type Result struct {
	Validator string        `json:"validator"`
	Target    string        `json:"target"`
	Issues    []Issue       `json:"issues,omitempty"`
	Steps     int           `json:"steps"`
	Fixed     int           `json:"fixed,omitempty"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
	ErrText   string        `json:"error,omitempty"`
}

// Errors counts error findings.
func (r Result) Errors() int { return countSeverity(r.Issues, SeverityError) }

// Warnings counts warning findings.
func (r Result) Warnings() int { return countSeverity(r.Issues, SeverityWarning) }

func countSeverity(issues []Issue, s Severity) int {
	n := 0
	for _, is := range issues {
		if is.Severity == s {
			n++
		}
	}
	return n
}

// Summary aggregates a run.
type Summary struct {
	Results  []Result      `json:"results"`
	Errors   int           `json:"errors"`
	Warnings int           `json:"warnings"`
	Failures int           `json:"failures"` // validators that returned an error
	Count    int           `json:"count"`    // total steps
	Duration time.Duration `json:"duration"`
	Canceled bool          `json:"canceled"`
}

// OK reports whether the run finished without errors or validator failures.
// Warnings do not count.
func (s *Summary) OK() bool {
	return !s.Canceled && s.Errors == 0 && s.Failures == 0
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	// Fix runs Fixer validators on the issues they report.
	Fix bool

	Logger *log.Logger
}

// Runner executes the active validators of a registry. One run at a time;
// Stop may be called from any goroutine.
type Runner struct {
	registry *Registry
	opts     RunnerOptions

	running  atomic.Bool
	canceled atomic.Bool
}

// NewRunner creates a runner over reg.
func NewRunner(reg *Registry, opts RunnerOptions) *Runner {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{registry: reg, opts: opts}
}

// Running reports whether a run is in progress.
func (r *Runner) Running() bool { return r.running.Load() }

// Canceled reports whether the current or last run was stopped.
func (r *Runner) Canceled() bool { return r.canceled.Load() }

// Stop asks the current run to finish at the next validator step.
func (r *Runner) Stop() { r.canceled.Store(true) }

// Run validates every target with every active validator. Validator errors
// and panics are recorded in their Result with code VALIDATOR_ERROR and the
// run continues. Stop ends the run early with a partial summary and no
// error; context cancellation does the same but returns a CANCELED error.
func (r *Runner) Run(ctx context.Context, targets []Target, progress func(Progress)) (*Summary, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, errors.New(errors.ErrCodeInvalidState, "validation already running")
	}
	defer r.running.Store(false)
	r.canceled.Store(false)

	start := time.Now()
	sum := &Summary{}
	r.opts.Logger.Info("started validations", "validators", len(r.registry.Active()), "targets", len(targets))

	stopped := func() bool { return r.canceled.Load() || ctx.Err() != nil }

outer:
	for _, v := range r.registry.Active() {
		for _, t := range targets {
			if stopped() {
				break outer
			}
			res := r.runOne(ctx, v, t, stopped, func(step, count int) {
				sum.Count++
				if progress != nil {
					progress(Progress{Validator: v.Name(), Target: t.Name, Step: step, Count: count, Total: sum.Count})
				}
			})
			halted := stderrors.Is(res.Err, ErrStopped)
			if halted {
				res.Err = nil
			}
			sum.Results = append(sum.Results, res)
			sum.Errors += res.Errors()
			sum.Warnings += res.Warnings()
			if res.Err != nil {
				sum.Failures++
			}
			if halted {
				break outer
			}
		}
	}

	sum.Duration = time.Since(start)
	sum.Canceled = stopped()
	r.opts.Logger.Info(fmt.Sprintf("validations took %.2fs", sum.Duration.Seconds()),
		"errors", sum.Errors, "warnings", sum.Warnings, "canceled", sum.Canceled)

	if err := ctx.Err(); err != nil {
		return sum, errors.Wrap(errors.ErrCodeCanceled, err, "validation")
	}
	return sum, nil
}

func (r *Runner) runOne(ctx context.Context, v Validator, t Target, stopped func() bool, progress func(int, int)) (res Result) {
	name := v.Name()
	res = Result{Validator: name, Target: t.Name}
	rep := &Report{stopped: stopped, progress: progress}
	rep.reset()

	r.opts.Logger.Debug("validating", "validator", name, "target", t.Name)
	observability.Validation().OnValidatorStart(ctx, name, t.Name)
	start := time.Now()

	defer func() {
		res.Duration = time.Since(start)
		res.Issues = rep.Issues()
		res.Steps = rep.Steps()
		if res.Err != nil && !stderrors.Is(res.Err, ErrStopped) {
			res.ErrText = res.Err.Error()
			r.opts.Logger.Warn("validator failed", "validator", name, "target", t.Name, "error", res.Err)
		}
		observability.Validation().OnValidatorComplete(ctx, name, t.Name, res.Errors(), res.Warnings(), res.Duration, res.Err)
	}()

	res.Err = safeValidate(ctx, v, t, rep)
	if res.Err != nil || !r.opts.Fix || len(rep.Issues()) == 0 {
		return res
	}

	fixer, ok := v.(Fixer)
	if !ok {
		return res
	}
	res.Fixed, res.Err = safeFix(ctx, fixer, name, t, rep.Issues())
	return res
}

func safeFix(ctx context.Context, f Fixer, name string, t Target, issues []Issue) (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			n, err = 0, errors.New(errors.ErrCodeValidator, "fixer %s panicked on %s: %v", name, t.Name, p)
		}
	}()
	n, err = f.Fix(ctx, t, issues)
	if err != nil {
		return n, errors.Wrap(errors.ErrCodeValidator, err, "fix %s on %s", name, t.Name)
	}
	return n, nil
}

func safeValidate(ctx context.Context, v Validator, t Target, rep *Report) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.New(errors.ErrCodeValidator, "validator %s panicked on %s: %v", v.Name(), t.Name, p)
		}
	}()
	if err := v.Validate(ctx, t, rep); err != nil {
		if stderrors.Is(err, ErrStopped) {
			return ErrStopped
		}
		return errors.Wrap(errors.ErrCodeValidator, err, "validator %s on %s", v.Name(), t.Name)
	}
	return nil
}
