package evaluator

import (
	"math"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/diagnostics"
	"github.com/ZanzyTHEbar/texeval/internal/domain/numeric"
)

// evalSumProduct shares one loop body for \sum and \prod, shadowing
// Var in a per-iteration Environment (spec.md §4.3) and capping total
// iterations against runaway ranges.
func (e *Evaluator) evalSumProduct(v string, startExpr, endExpr, body ast.Expr, env *Environment, isSum bool) (numeric.Result, error) {
	startRes, err := e.Eval(startExpr, env)
	if err != nil {
		return numeric.Result{}, err
	}
	start, ok := startRes.AsNumeric()
	if !ok {
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "sum/product bounds must be real")
	}
	endRes, err := e.Eval(endExpr, env)
	if err != nil {
		return numeric.Result{}, err
	}
	end, ok := endRes.AsNumeric()
	if !ok {
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "sum/product bounds must be real")
	}

	lo, hi := int64(math.Round(start)), int64(math.Round(end))
	if hi < lo {
		if isSum {
			return numeric.Real(0), nil
		}
		return numeric.Real(1), nil
	}
	count := hi - lo + 1
	if count > int64(e.cfg.MaxSumProductIterations) {
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "sum/product range exceeds the %d-iteration cap", e.cfg.MaxSumProductIterations)
	}

	acc := 0.0
	if !isSum {
		acc = 1.0
	}
	for i := lo; i <= hi; i++ {
		iterEnv := env.With(v, float64(i))
		res, err := e.Eval(body, iterEnv)
		if err != nil {
			return numeric.Result{}, err
		}
		val, ok := res.AsNumeric()
		if !ok {
			return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "sum/product body must evaluate to a real number")
		}
		if isSum {
			acc += val
		} else {
			acc *= val
		}
	}
	return numeric.Real(acc), nil
}

// evalIntegral evaluates a definite integral via Simpson's rule over
// IntegralSubintervals subintervals (spec.md §4.3's numeric kernel).
// An indefinite integral (no bounds) cannot be reduced to a single
// number, so evaluation reports an error directing the caller to the
// symbolic transformer instead.
func (e *Evaluator) evalIntegral(in *ast.Integral, env *Environment) (numeric.Result, error) {
	if in.Lower == nil || in.Upper == nil {
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "an indefinite integral has no single numeric value; use Integrate to obtain an antiderivative")
	}
	lowerRes, err := e.Eval(in.Lower, env)
	if err != nil {
		return numeric.Result{}, err
	}
	lower, ok := lowerRes.AsNumeric()
	if !ok {
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "integral bounds must be real")
	}
	upperRes, err := e.Eval(in.Upper, env)
	if err != nil {
		return numeric.Result{}, err
	}
	upper, ok := upperRes.AsNumeric()
	if !ok {
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "integral bounds must be real")
	}

	n := e.cfg.IntegralSubintervals
	if n%2 != 0 {
		n++
	}
	h := (upper - lower) / float64(n)
	f := func(x float64) (float64, error) {
		res, err := e.Eval(in.Body, env.With(in.Var, x))
		if err != nil {
			return 0, err
		}
		v, ok := res.AsNumeric()
		if !ok {
			return 0, diagnostics.New(diagnostics.Evaluator, "integrand must evaluate to a real number")
		}
		return v, nil
	}

	y0, err := f(lower)
	if err != nil {
		return numeric.Result{}, err
	}
	yn, err := f(upper)
	if err != nil {
		return numeric.Result{}, err
	}
	sum := y0 + yn
	for i := 1; i < n; i++ {
		x := lower + float64(i)*h
		y, err := f(x)
		if err != nil {
			return numeric.Result{}, err
		}
		if i%2 == 0 {
			sum += 2 * y
		} else {
			sum += 4 * y
		}
	}
	return numeric.Real(sum * h / 3), nil
}

// evalDerivative numerically differentiates Body at the point bound to
// Var in env, via repeated central differences (spec.md §4.3:
// "Derivative nodes are evaluated by substitution"). Order 2 uses the
// second central difference; higher orders apply the first-derivative
// stencil to the next-lower order, losing precision with each order.
// This avoids needing a second AST differentiation pass
// at evaluation time (that pass lives in the transformer package for
// the symbolic \texttt{Differentiate} operation instead).
func (e *Evaluator) evalDerivative(body ast.Expr, v string, order int, env *Environment) (numeric.Result, error) {
	x0, kind := env.Lookup(v)
	if kind == 0 {
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "cannot evaluate derivative: %q has no bound value in this environment", v)
	}
	const h = 1e-4
	f := func(x float64) (float64, error) {
		res, err := e.Eval(body, env.With(v, x))
		if err != nil {
			return 0, err
		}
		val, ok := res.AsNumeric()
		if !ok {
			return 0, diagnostics.New(diagnostics.Evaluator, "derivative body must evaluate to a real number")
		}
		return val, nil
	}

	deriv := func(x float64) (float64, error) {
		fPlus, err := f(x + h)
		if err != nil {
			return 0, err
		}
		fMinus, err := f(x - h)
		if err != nil {
			return 0, err
		}
		return (fPlus - fMinus) / (2 * h), nil
	}

	if order <= 1 {
		d, err := deriv(x0)
		if err != nil {
			return numeric.Result{}, err
		}
		return numeric.Real(d), nil
	}
	if order > 2 {
		var nth func(x float64, k int) (float64, error)
		nth = func(x float64, k int) (float64, error) {
			if k == 1 {
				return deriv(x)
			}
			a, err := nth(x+h, k-1)
			if err != nil {
				return 0, err
			}
			b, err := nth(x-h, k-1)
			return (a - b) / (2 * h), err
		}
		d, err := nth(x0, order)
		return numeric.Real(d), err
	}
	// Second central difference for order 2.
	fPlus, err := f(x0 + h)
	if err != nil {
		return numeric.Result{}, err
	}
	f0, err := f(x0)
	if err != nil {
		return numeric.Result{}, err
	}
	fMinus, err := f(x0 - h)
	if err != nil {
		return numeric.Result{}, err
	}
	return numeric.Real((fPlus - 2*f0 + fMinus) / (h * h)), nil
}

// evalLimit numerically estimates a two-sided limit, using a
// diminishing step schedule for a finite target and a growing one for
// an infinite target (spec.md §4.3).
func (e *Evaluator) evalLimit(l *ast.Limit, env *Environment) (numeric.Result, error) {
	targetRes, err := e.Eval(l.Target, env)
	if err != nil {
		return numeric.Result{}, err
	}
	target, ok := targetRes.AsNumeric()
	if !ok {
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "limit target must be real")
	}

	eval := func(x float64) (float64, bool) {
		res, err := e.Eval(l.Body, env.With(l.Var, x))
		if err != nil {
			return 0, false
		}
		v, ok := res.AsNumeric()
		if !ok || res.IsNaN() {
			return 0, false
		}
		return v, true
	}

	if math.IsInf(target, 0) {
		var last float64
		found := false
		for _, step := range e.cfg.LimitInfiniteSteps {
			x := step
			if target < 0 {
				x = -step
			}
			v, ok := eval(x)
			if ok {
				last, found = v, true
			}
		}
		if !found {
			return numeric.NaN(), nil
		}
		return numeric.Real(last), nil
	}

	var leftVals, rightVals []float64
	for _, step := range e.cfg.LimitEpsilonSteps {
		if v, ok := eval(target - step); ok {
			leftVals = append(leftVals, v)
		}
		if v, ok := eval(target + step); ok {
			rightVals = append(rightVals, v)
		}
	}
	if len(leftVals) == 0 && len(rightVals) == 0 {
		return numeric.NaN(), nil
	}
	// One side may be undefined (e.g. sqrt(x) as x -> 0 from the left
	// promotes to complex and fails AsNumeric at every step); spec.md
	// §4.3 says to return whichever side is defined in that case
	// instead of treating it as a non-existent limit.
	if len(leftVals) == 0 {
		return numeric.Real(rightVals[len(rightVals)-1]), nil
	}
	if len(rightVals) == 0 {
		return numeric.Real(leftVals[len(leftVals)-1]), nil
	}
	left := leftVals[len(leftVals)-1]
	right := rightVals[len(rightVals)-1]
	if math.Abs(left-right) > 1e-3 {
		// The one-sided estimates disagree beyond tolerance: the limit
		// does not exist at this point.
		return numeric.NaN(), nil
	}
	return numeric.Real((left + right) / 2), nil
}
