// Package engine is the public façade of texeval: Parse, Evaluate, and
// the symbolic Differentiate/Integrate operations, wired together with
// the four-layer cache and a per-instance (optionally extended)
// registry pair. Grounded on the teacher's ApplicationService façade
// (internal/app/service.go), which wires Parser+Generator+ports behind
// one Run() entrypoint — generalized here into several narrower public
// methods since texeval is a library, not a one-shot CLI pipeline.
package engine

import (
	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/cache"
	"github.com/ZanzyTHEbar/texeval/internal/domain/diagnostics"
	"github.com/ZanzyTHEbar/texeval/internal/domain/evaluator"
	"github.com/ZanzyTHEbar/texeval/internal/domain/numeric"
	"github.com/ZanzyTHEbar/texeval/internal/domain/parser"
	"github.com/ZanzyTHEbar/texeval/internal/domain/registry"
	"github.com/ZanzyTHEbar/texeval/internal/domain/transformer"
)

// Config controls one Engine instance.
type Config struct {
	// DisableImplicitMultiplication turns the parser's "xy" -> x*y / "2x"
	// -> 2*x inference into a hard parse error instead of an inferred
	// product. False (the zero value) stays permissive, matching the
	// LaTeX source the spec targets; callers embedding texeval in a
	// stricter authoring tool may want it true.
	DisableImplicitMultiplication bool

	// Cache sizes/configures the four cache layers. The zero value
	// (all layers size 0) disables caching entirely; use
	// cache.DefaultConfig() to opt in.
	Cache cache.Config

	// Extensions seeds additional constants/functions into this
	// Engine's own registry pair, isolated from the process-wide
	// defaults (registry.Constants / registry.Functions).
	Extensions registry.Extensions

	// EvaluatorConfig tunes the evaluator's iteration/subdivision caps;
	// the zero value uses the evaluator package's own defaults.
	EvaluatorConfig evaluator.Config
}

// Engine is the stateful entrypoint: one instance per isolated registry
// scope (e.g. one per tenant, if an embedding application extends
// texeval with custom functions per tenant).
type Engine struct {
	cfg       Config
	cache     *cache.Manager
	eval      *evaluator.Evaluator
	constants *registry.ConstantRegistry
}

// New builds an Engine. Extensions in cfg are applied to a registry
// pair scoped to this instance, never to the process-wide defaults.
func New(cfg Config) *Engine {
	constants, functions := registry.NewScopedRegistries(cfg.Extensions)
	return &Engine{
		cfg:       cfg,
		cache:     cache.New(cfg.Cache),
		eval:      evaluator.New(cfg.EvaluatorConfig, functions),
		constants: constants,
	}
}

// Parse lexes and parses source into an AST, consulting and populating
// the L1 cache. A non-empty error slice means the tree may still be
// partially built (the parser recovers past errors where it can) but
// should not be evaluated.
func (e *Engine) Parse(source string) (ast.Expr, []*diagnostics.Error) {
	if tree, ok := e.cache.GetParsed(source); ok {
		return tree, nil
	}
	tree, errs := parser.ParseWithRegistries(source, e.eval.Functions(), e.constants)
	if len(errs) > 0 {
		return tree, errs
	}
	if e.cfg.DisableImplicitMultiplication {
		if err := rejectImplicitMultiplication(tree); err != nil {
			return tree, []*diagnostics.Error{err}
		}
	}
	e.cache.PutParsed(source, tree)
	return tree, nil
}

// NewEnvironment builds an Environment bound to this Engine's own
// (possibly extended) constant registry.
func (e *Engine) NewEnvironment(vars map[string]float64) *registry.Environment {
	return registry.NewEnvironment(vars, e.constants)
}

// Evaluate parses source and evaluates it under vars in one step.
func (e *Engine) Evaluate(source string, vars map[string]float64) (numeric.Result, error) {
	tree, errs := e.Parse(source)
	if len(errs) > 0 {
		return numeric.Result{}, errs[0]
	}
	return e.EvaluateParsed(tree, vars)
}

// EvaluateParsed evaluates an already-parsed tree under vars,
// consulting and populating the L2 cache.
func (e *Engine) EvaluateParsed(tree ast.Expr, vars map[string]float64) (numeric.Result, error) {
	env := e.NewEnvironment(vars)
	if res, ok := e.cache.GetEval(tree, env); ok {
		return res, nil
	}
	res, err := e.eval.Eval(tree, env)
	if err != nil {
		return numeric.Result{}, err
	}
	e.cache.PutEval(tree, env, res)
	return res, nil
}

// EvaluateNumeric evaluates source and requires the result to coerce
// to a real scalar, erroring otherwise (e.g. the result was a matrix).
func (e *Engine) EvaluateNumeric(source string, vars map[string]float64) (float64, error) {
	res, err := e.Evaluate(source, vars)
	if err != nil {
		return 0, err
	}
	v, ok := res.AsNumeric()
	if !ok {
		return 0, diagnostics.New(diagnostics.Evaluator, "result is not a real scalar")
	}
	return v, nil
}

// EvaluateMatrix evaluates source and requires the result to be a
// matrix.
func (e *Engine) EvaluateMatrix(source string, vars map[string]float64) (*numeric.Dense, error) {
	res, err := e.Evaluate(source, vars)
	if err != nil {
		return nil, err
	}
	m, ok := res.AsMatrix()
	if !ok {
		return nil, diagnostics.New(diagnostics.Evaluator, "result is not a matrix")
	}
	return m, nil
}

// Validate parses source and returns every diagnostic found, without
// evaluating.
func (e *Engine) Validate(source string) []*diagnostics.Error {
	_, errs := e.Parse(source)
	return errs
}

// IsValid reports whether source parses without error.
func (e *Engine) IsValid(source string) bool {
	return len(e.Validate(source)) == 0
}

// Differentiate returns the symbolic Order-th derivative of source with
// respect to v, consulting and populating the L3 cache.
func (e *Engine) Differentiate(source string, v string, order int) (ast.Expr, error) {
	tree, errs := e.Parse(source)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	if cached, ok := e.cache.GetDerivative(tree, v, order); ok {
		return cached, nil
	}
	result := transformer.Differentiate(tree, v, order)
	e.cache.PutDerivative(tree, v, order, result)
	return result, nil
}

// Integrate returns an antiderivative (or, with bounds supplied, a
// definite integral) of source with respect to v.
func (e *Engine) Integrate(source string, v string, lower, upper ast.Expr) (ast.Expr, error) {
	tree, errs := e.Parse(source)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return transformer.Integrate(tree, v, lower, upper)
}

// ClearCaches empties all four cache layers.
func (e *Engine) ClearCaches() {
	e.cache.ClearAll()
}

// WarmUp parses and discards each of sources, populating the L1 cache
// ahead of first real use (e.g. at process startup, for a known set of
// frequently-evaluated expressions).
func (e *Engine) WarmUp(sources []string) {
	for _, s := range sources {
		e.Parse(s)
	}
}

// CacheStats exposes the L1-L4 hit/miss/eviction counters.
func (e *Engine) CacheStats() (l1, l2, l3, l4 cache.Stats) {
	return e.cache.Stats()
}
