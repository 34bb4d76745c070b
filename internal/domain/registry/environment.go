package registry

// Environment is the variable binding environment described in
// spec.md §3: a mapping from identifier to f64, consulted alongside the
// constant registry and a handful of special symbols during lookup.
type Environment struct {
	vars      map[string]float64
	constants *ConstantRegistry
}

// NewEnvironment builds an Environment over a copy of vars (nil is
// treated as empty), resolving constants against reg (the process-wide
// default registry when reg is nil).
func NewEnvironment(vars map[string]float64, reg *ConstantRegistry) *Environment {
	if reg == nil {
		reg = Constants
	}
	cp := make(map[string]float64, len(vars))
	for k, v := range vars {
		cp[k] = v
	}
	return &Environment{vars: cp, constants: reg}
}

// LookupResult distinguishes the three ways a name can resolve, so the
// evaluator can promote the "imaginary unit" case to a complex result
// without the Environment needing to know about numeric.Result itself
// (keeps this package free of a numeric import).
type LookupResult int

const (
	NotFound LookupResult = iota
	FoundReal
	FoundImaginaryUnit
)

// Lookup resolves name per spec.md §3's order: (1) user env, (2)
// constant registry, (3) the imaginary unit "i", (4) undefined.
func (e *Environment) Lookup(name string) (float64, LookupResult) {
	if v, ok := e.vars[name]; ok {
		return v, FoundReal
	}
	if v, ok := e.constants.Lookup(name); ok {
		return v, FoundReal
	}
	if name == "i" {
		return 0, FoundImaginaryUnit
	}
	return 0, NotFound
}

// With returns a new Environment with name bound to val, sharing the
// same constant registry. Used to shadow the index variable of
// Sum/Product per iteration (spec.md §4.3) without mutating the
// caller's environment.
func (e *Environment) With(name string, val float64) *Environment {
	cp := make(map[string]float64, len(e.vars)+1)
	for k, v := range e.vars {
		cp[k] = v
	}
	cp[name] = val
	return &Environment{vars: cp, constants: e.constants}
}

// Vars returns the underlying user-bound variables (not constants).
// Used by the cache to hash an environment and by the evaluator to
// list candidate names for "did you mean" suggestions.
func (e *Environment) Vars() map[string]float64 {
	return e.vars
}
