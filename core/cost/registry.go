// Package cost - Calculator registry
package cost

import (
	"cdk-cost/core/template"
)

// Registry holds calculators in registration order. Lookup is linear:
// the first calculator whose Supports matches and whose optional
// CanCalculate precondition holds wins.
type Registry struct {
	calculators []Calculator
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends calculators to the registry
func (r *Registry) Register(calculators ...Calculator) {
	r.calculators = append(r.calculators, calculators...)
}

// Lookup finds the calculator responsible for a resource, or false when
// the resource type is unknown.
func (r *Registry) Lookup(resource template.ResourceWithID) (Calculator, bool) {
	for _, calc := range r.calculators {
		if !calc.Supports(resource.Type) {
			continue
		}
		if pre, ok := calc.(Preconditioner); ok && !pre.CanCalculate(resource) {
			continue
		}
		return calc, true
	}
	return nil, false
}

// Len returns the number of registered calculators
func (r *Registry) Len() int {
	return len(r.calculators)
}
