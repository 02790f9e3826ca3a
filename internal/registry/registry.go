package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStep is returned when a step name was never registered.
var ErrUnknownStep = errors.New("unknown step")

// Module is the interface that all step modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered steps of a single application instance.
type Registry struct {
	steps  []*RegisteredStep
	byName map[string]*RegisteredStep
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		byName: make(map[string]*RegisteredStep),
	}
}

// Steps returns the registered steps in execution order.
func (r *Registry) Steps() []*RegisteredStep {
	return append([]*RegisteredStep(nil), r.steps...)
}

// Lookup finds a step by name.
func (r *Registry) Lookup(name string) (*RegisteredStep, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Names lists the registered step names in execution order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.steps))
	for _, s := range r.steps {
		names = append(names, s.Name)
	}
	return names
}

// Validate checks that every name refers to a registered step.
func (r *Registry) Validate(names []string) error {
	var unknown []string
	for _, n := range names {
		if _, ok := r.byName[n]; !ok {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s (known: %s)", ErrUnknownStep,
			strings.Join(unknown, ", "), strings.Join(r.Names(), ", "))
	}
	return nil
}
