package evaluator

import (
	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/diagnostics"
	"github.com/ZanzyTHEbar/texeval/internal/domain/numeric"
)

func (e *Evaluator) compareNumeric(op ast.CompareOp, l, r float64) bool {
	eps := e.cfg.ComparisonEpsilon
	switch op {
	case ast.Lt:
		return l < r-eps
	case ast.Gt:
		return l > r+eps
	case ast.Le:
		return l <= r+eps
	case ast.Ge:
		return l >= r-eps
	case ast.Eq:
		return abs(l-r) <= eps
	case ast.Ne:
		return abs(l-r) > eps
	default:
		return false
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func (e *Evaluator) evalComparison(c *ast.Comparison, env *Environment) (numeric.Result, error) {
	l, err := e.Eval(c.Left, env)
	if err != nil {
		return numeric.Result{}, err
	}
	r, err := e.Eval(c.Right, env)
	if err != nil {
		return numeric.Result{}, err
	}
	lv, ok1 := l.AsNumeric()
	rv, ok2 := r.AsNumeric()
	if !ok1 || !ok2 {
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "comparisons require real-valued operands")
	}
	if e.compareNumeric(c.Op, lv, rv) {
		return numeric.Real(1), nil
	}
	return numeric.Real(0), nil
}

func (e *Evaluator) evalChainedComparison(c *ast.ChainedComparison, env *Environment) (numeric.Result, error) {
	vals := make([]float64, len(c.Exprs))
	for i, ex := range c.Exprs {
		v, err := e.Eval(ex, env)
		if err != nil {
			return numeric.Result{}, err
		}
		n, ok := v.AsNumeric()
		if !ok {
			return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "comparisons require real-valued operands")
		}
		vals[i] = n
	}
	for i, op := range c.Ops {
		if !e.compareNumeric(op, vals[i], vals[i+1]) {
			return numeric.Real(0), nil
		}
	}
	return numeric.Real(1), nil
}
