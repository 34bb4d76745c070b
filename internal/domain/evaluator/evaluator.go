package evaluator

import (
	"math"
	"math/cmplx"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/diagnostics"
	"github.com/ZanzyTHEbar/texeval/internal/domain/numeric"
	"github.com/ZanzyTHEbar/texeval/internal/domain/registry"
)

// Config tunes the iteration/subdivision caps spec.md §4.3 specifies.
// Zero values fall back to the documented defaults in New.
type Config struct {
	MaxSumProductIterations int
	IntegralSubintervals    int
	LimitEpsilonSteps       []float64
	LimitInfiniteSteps      []float64
	ComparisonEpsilon       float64
}

func defaultConfig() Config {
	return Config{
		MaxSumProductIterations: 100000,
		IntegralSubintervals:    1000,
		LimitEpsilonSteps:       []float64{1e-1, 1e-3, 1e-5, 1e-7, 1e-9},
		LimitInfiniteSteps:      []float64{1e2, 1e4, 1e6, 1e8},
		ComparisonEpsilon:       1e-9,
	}
}

// Evaluator tree-walks an ast.Expr to a numeric.Result.
type Evaluator struct {
	cfg       Config
	functions *registry.FunctionRegistry
}

// New builds an Evaluator. A nil FunctionRegistry falls back to the
// process-wide default (registry.Functions).
func New(cfg Config, functions *registry.FunctionRegistry) *Evaluator {
	def := defaultConfig()
	if cfg.MaxSumProductIterations == 0 {
		cfg.MaxSumProductIterations = def.MaxSumProductIterations
	}
	if cfg.IntegralSubintervals == 0 {
		cfg.IntegralSubintervals = def.IntegralSubintervals
	}
	if len(cfg.LimitEpsilonSteps) == 0 {
		cfg.LimitEpsilonSteps = def.LimitEpsilonSteps
	}
	if len(cfg.LimitInfiniteSteps) == 0 {
		cfg.LimitInfiniteSteps = def.LimitInfiniteSteps
	}
	if cfg.ComparisonEpsilon == 0 {
		cfg.ComparisonEpsilon = def.ComparisonEpsilon
	}
	if functions == nil {
		functions = registry.Functions
	}
	return &Evaluator{cfg: cfg, functions: functions}
}

// Functions returns the function registry this Evaluator dispatches
// against, so callers that build a Parser alongside it (see
// engine.Engine.Parse) can consult the same extension set for
// unknown-command resolution.
func (e *Evaluator) Functions() *registry.FunctionRegistry { return e.functions }

// Eval dispatches on the concrete node type. It satisfies
// registry.EvalFunc so it can be handed to function handlers that need
// to recursively evaluate their own arguments.
func (e *Evaluator) Eval(n ast.Expr, env *Environment) (numeric.Result, error) {
	switch t := n.(type) {
	case *ast.Number:
		return numeric.Real(t.Value), nil
	case *ast.Variable:
		return e.evalVariable(t, env)
	case *ast.FontedVariable:
		return e.evalVariable(&ast.Variable{Name: t.Name}, env)
	case *ast.Binary:
		return e.evalBinary(t, env)
	case *ast.Unary:
		return e.evalUnary(t, env)
	case *ast.FuncCall:
		return e.evalFuncCall(t, env)
	case *ast.AbsoluteValue:
		return e.evalAbsoluteValue(t, env)
	case *ast.Matrix:
		return e.evalMatrix(t, env)
	case *ast.NthRoot:
		return e.evalNthRoot(t, env)
	case *ast.Sum:
		return e.evalSumProduct(t.Var, t.Start, t.End, t.Body, env, true)
	case *ast.Product:
		return e.evalSumProduct(t.Var, t.Start, t.End, t.Body, env, false)
	case *ast.Integral:
		return e.evalIntegral(t, env)
	case *ast.Derivative:
		return e.evalDerivative(t.Body, t.Var, t.Order, env)
	case *ast.PartialDerivative:
		return e.evalDerivative(t.Body, t.Var, t.Order, env)
	case *ast.Limit:
		return e.evalLimit(t, env)
	case *ast.Comparison:
		return e.evalComparison(t, env)
	case *ast.ChainedComparison:
		return e.evalChainedComparison(t, env)
	case *ast.Conditional:
		return e.evalConditional(t, env)
	case *ast.PiecewiseExpr:
		return e.evalPiecewise(t, env)
	default:
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "cannot evaluate node of type %T", n)
	}
}

func (e *Evaluator) evalVariable(v *ast.Variable, env *Environment) (numeric.Result, error) {
	val, kind := env.Lookup(v.Name)
	switch kind {
	case registry.FoundReal:
		return numeric.Real(val), nil
	case registry.FoundImaginaryUnit:
		return numeric.Cplx(complex(0, 1)), nil
	default:
		sugg := diagnostics.DidYouMean(v.Name, candidateNames(env), 2)
		err := diagnostics.New(diagnostics.Evaluator, "undefined variable %q", v.Name)
		if sugg != "" {
			err = err.WithSuggestion(sugg)
		}
		return numeric.Result{}, err
	}
}

func candidateNames(env *Environment) []string {
	names := make([]string, 0, len(env.Vars()))
	for n := range env.Vars() {
		names = append(names, n)
	}
	return names
}

func (e *Evaluator) evalUnary(u *ast.Unary, env *Environment) (numeric.Result, error) {
	v, err := e.Eval(u.Operand, env)
	if err != nil {
		return numeric.Result{}, err
	}
	switch v.Kind {
	case numeric.KindNumeric:
		return numeric.Real(-v.Numeric), nil
	case numeric.KindComplex:
		return numeric.Cplx(-v.Complex), nil
	case numeric.KindMatrix:
		return numeric.Mat(v.Matrix.Scale(-1)), nil
	default:
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "cannot negate this value")
	}
}

func (e *Evaluator) evalAbsoluteValue(a *ast.AbsoluteValue, env *Environment) (numeric.Result, error) {
	v, err := e.Eval(a.Inner, env)
	if err != nil {
		return numeric.Result{}, err
	}
	switch v.Kind {
	case numeric.KindNumeric:
		return numeric.Real(math.Abs(v.Numeric)), nil
	case numeric.KindComplex:
		return numeric.Real(cmplx.Abs(v.Complex)), nil
	case numeric.KindMatrix:
		d, err := v.Matrix.Det()
		if err != nil {
			return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "%s", err.Error())
		}
		return numeric.Real(math.Abs(d)), nil
	default:
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "cannot take absolute value")
	}
}

func (e *Evaluator) evalFuncCall(call *ast.FuncCall, env *Environment) (numeric.Result, error) {
	h, ok := e.functions.Lookup(call.Name)
	if !ok {
		names, _ := parserKnownFunctions()
		sugg := diagnostics.FixedSuggestion(call.Name)
		if sugg == "" {
			sugg = diagnostics.DidYouMean(call.Name, names, 2)
		}
		err := diagnostics.New(diagnostics.Evaluator, "unknown function \\%s", call.Name)
		if sugg != "" {
			err = err.WithSuggestion(sugg)
		}
		return numeric.Result{}, err
	}
	return h(call, env, e.Eval)
}

// parserKnownFunctions avoids an import cycle with the parser package
// (which already depends on registry for the same name list) by
// reading straight from the registry here too.
func parserKnownFunctions() ([]string, []string) {
	return registry.Functions.Names(), registry.Constants.Names()
}

func (e *Evaluator) evalConditional(c *ast.Conditional, env *Environment) (numeric.Result, error) {
	cond, err := e.Eval(c.Condition, env)
	if err != nil {
		return numeric.Result{}, err
	}
	cv, ok := cond.AsNumeric()
	if !ok || cv == 0 || cond.IsNaN() {
		return numeric.NaN(), nil
	}
	return e.Eval(c.Value, env)
}

func (e *Evaluator) evalPiecewise(p *ast.PiecewiseExpr, env *Environment) (numeric.Result, error) {
	for _, c := range p.Cases {
		if c.Condition == nil {
			return e.Eval(c.Value, env)
		}
		cond, err := e.Eval(c.Condition, env)
		if err != nil {
			return numeric.Result{}, err
		}
		cv, ok := cond.AsNumeric()
		if ok && cv != 0 && !cond.IsNaN() {
			return e.Eval(c.Value, env)
		}
	}
	return numeric.NaN(), nil
}
