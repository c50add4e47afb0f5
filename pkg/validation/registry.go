package validation

import (
	"github.com/matzehuels/normalign/pkg/errors"
)

// Registry is an ordered set of validators with per-name enable flags.
// Validators run in registration order.
type Registry struct {
	validators []Validator
	index      map[string]int
	disabled   map[string]bool
}

// NewRegistry registers vs in order. Duplicate names are rejected.
func NewRegistry(vs ...Validator) (*Registry, error) {
	r := &Registry{
		index:    make(map[string]int),
		disabled: make(map[string]bool),
	}
	for _, v := range vs {
		if err := r.Register(v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends v, enabled.
func (r *Registry) Register(v Validator) error {
	name := v.Name()
	if name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "validator has no name")
	}
	if _, ok := r.index[name]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "validator %q registered twice", name)
	}
	r.index[name] = len(r.validators)
	r.validators = append(r.validators, v)
	return nil
}

// Get returns the validator called name.
func (r *Registry) Get(name string) (Validator, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.validators[i], true
}

// All returns every validator in registration order.
func (r *Registry) All() []Validator {
	return append([]Validator(nil), r.validators...)
}

// Names returns every validator name in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.validators))
	for i, v := range r.validators {
		names[i] = v.Name()
	}
	return names
}

// SetEnabled toggles one validator.
func (r *Registry) SetEnabled(name string, enabled bool) error {
	if _, ok := r.index[name]; !ok {
		return errors.New(errors.ErrCodeNotFound, "unknown validator %q", name)
	}
	if enabled {
		delete(r.disabled, name)
	} else {
		r.disabled[name] = true
	}
	return nil
}

// Enabled reports whether name is registered and enabled.
func (r *Registry) Enabled(name string) bool {
	_, ok := r.index[name]
	return ok && !r.disabled[name]
}

// Only enables exactly the named validators. Unknown names are an error and
// leave the flags unchanged.
func (r *Registry) Only(names ...string) error {
	for _, n := range names {
		if _, ok := r.index[n]; !ok {
			return errors.New(errors.ErrCodeNotFound, "unknown validator %q", n)
		}
	}
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		keep[n] = true
	}
	for _, v := range r.validators {
		if keep[v.Name()] {
			delete(r.disabled, v.Name())
		} else {
			r.disabled[v.Name()] = true
		}
	}
	return nil
}

// Active returns the enabled validators in registration order.
func (r *Registry) Active() []Validator {
	var out []Validator
	for _, v := range r.validators {
		if !r.disabled[v.Name()] {
			out = append(out, v)
		}
	}
	return out
}
