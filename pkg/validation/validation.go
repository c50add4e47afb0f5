package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/normalign/pkg/mesh"
)

// ErrStopped is returned by [Report.Step] once the run has been stopped.
var ErrStopped = errors.New("validation stopped")

// Target is one mesh to validate.
type Target struct {
	Name string
	Mesh mesh.Mesh
}

// Severity ranks an issue.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}

// Issue is one finding. Node names the offending component, such as
// "plane.e[4]", and may be empty for mesh-wide findings.
type Issue struct {
	Severity Severity `json:"severity"`
	Node     string   `json:"node,omitempty"`
	Message  string   `json:"message"`
}

// Validator checks one target and records findings in r.
type Validator interface {
	Name() string
	Description() string
	Validate(ctx context.Context, t Target, r *Report) error
}

// Fixer is implemented by validators that can repair their own findings.
// Fix returns the number of repaired components.
type Fixer interface {
	Fix(ctx context.Context, t Target, issues []Issue) (int, error)
}

// Report collects the findings of one validator on one target.
type Report struct {
	count    int
	step     int
	issues   []Issue
	stopped  func() bool
	progress func(step, count int)
}

// NewReport returns a standalone report that is never stopped.
func NewReport() *Report {
	return &Report{count: 1}
}

// SetCount announces how many steps the validator will take.
func (r *Report) SetCount(n int) {
	if n < 1 {
		n = 1
	}
	r.count = n
}

// Count returns the announced number of steps.
func (r *Report) Count() int { return r.count }

// Steps returns the number of steps taken so far.
func (r *Report) Steps() int { return r.step }

// Step advances progress by one. It returns ErrStopped when the run was
// stopped, and the validator should return that error unchanged.
func (r *Report) Step() error {
	if r.stopped != nil && r.stopped() {
		return ErrStopped
	}
	r.step++
	if r.progress != nil {
		r.progress(r.step, r.count)
	}
	return nil
}

// Error records an error on node.
func (r *Report) Error(node, format string, args ...any) {
	r.issues = append(r.issues, Issue{Severity: SeverityError, Node: node, Message: fmt.Sprintf(format, args...)})
}

// Warn records a warning on node.
func (r *Report) Warn(node, format string, args ...any) {
	r.issues = append(r.issues, Issue{Severity: SeverityWarning, Node: node, Message: fmt.Sprintf(format, args...)})
}

// Issues returns every finding in report order.
func (r *Report) Issues() []Issue { return r.issues }

// Errors returns the error findings.
func (r *Report) Errors() []Issue { return r.filter(SeverityError) }

// Warnings returns the warning findings.
func (r *Report) Warnings() []Issue { return r.filter(SeverityWarning) }

func (r *Report) filter(s Severity) []Issue {
	var out []Issue
	for _, is := range r.issues {
		if is.Severity == s {
			out = append(out, is)
		}
	}
	return out
}

func (r *Report) reset() {
	r.count = 1
	r.step = 0
	r.issues = nil
}
