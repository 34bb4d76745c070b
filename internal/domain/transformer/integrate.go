package transformer

import (
	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/diagnostics"
	"github.com/ZanzyTHEbar/texeval/internal/domain/evaluator"
)

// Integrate returns an antiderivative of tree with respect to v when a
// known closed form applies (spec.md §4.5's pattern table), or, for a
// definite integral whose bounds are supplied, falls back to Simpson's
// rule via the evaluator (the same numeric kernel \int nodes use during
// plain evaluation).
//
// lower/upper are nil for an indefinite integral request.
func Integrate(tree ast.Expr, v string, lower, upper ast.Expr) (ast.Expr, error) {
	if antideriv, ok := antiderivative(tree, v); ok {
		result := Simplify(antideriv)
		if lower == nil || upper == nil {
			return result, nil
		}
		// Definite integral with a known antiderivative: F(upper) - F(lower).
		return Simplify(sub(substitute(result, v, upper), substitute(result, v, lower))), nil
	}

	if lower == nil || upper == nil {
		return nil, diagnostics.New(diagnostics.Evaluator, "no closed-form antiderivative is known for this integrand; supply bounds for a numeric estimate")
	}

	ev := evaluator.New(evaluator.Config{}, nil)
	env := evaluator.NewEnvironment(nil)
	res, err := ev.Eval(&ast.Integral{Lower: lower, Upper: upper, Body: tree, Var: v}, env)
	if err != nil {
		return nil, err
	}
	f, ok := res.AsNumeric()
	if !ok {
		return nil, diagnostics.New(diagnostics.Evaluator, "numeric integration produced a non-real result")
	}
	return &ast.Number{Value: f}, nil
}

// substitute replaces every free occurrence of v with replacement.
func substitute(n ast.Expr, v string, replacement ast.Expr) ast.Expr {
	switch t := n.(type) {
	case *ast.Number:
		return t
	case *ast.Variable:
		if t.Name == v {
			return replacement
		}
		return t
	case *ast.Unary:
		return &ast.Unary{Op: t.Op, Operand: substitute(t.Operand, v, replacement)}
	case *ast.Binary:
		return &ast.Binary{Op: t.Op, Left: substitute(t.Left, v, replacement), Right: substitute(t.Right, v, replacement)}
	case *ast.FuncCall:
		args := make([]ast.Expr, len(t.Args))
		for i, a := range t.Args {
			args[i] = substitute(a, v, replacement)
		}
		return &ast.FuncCall{Name: t.Name, Args: args, Sub: t.Sub}
	case *ast.AbsoluteValue:
		return &ast.AbsoluteValue{Inner: substitute(t.Inner, v, replacement)}
	default:
		return n
	}
}

// antiderivative matches n against a small table of elementary forms.
// It does not attempt integration by parts or substitution; anything
// outside the table falls back to the numeric path in Integrate.
func antiderivative(n ast.Expr, v string) (ast.Expr, bool) {
	if isConstWrt(n, v) {
		// ∫k dv = k*v
		return mul(n, &ast.Variable{Name: v}), true
	}
	switch t := n.(type) {
	case *ast.Variable:
		if t.Name == v {
			return div(powE(t, num(2)), num(2)), true
		}
	case *ast.Binary:
		switch t.Op {
		case ast.Add:
			l, ok1 := antiderivative(t.Left, v)
			r, ok2 := antiderivative(t.Right, v)
			if ok1 && ok2 {
				return add(l, r), true
			}
		case ast.Sub:
			l, ok1 := antiderivative(t.Left, v)
			r, ok2 := antiderivative(t.Right, v)
			if ok1 && ok2 {
				return sub(l, r), true
			}
		case ast.Mul:
			// k * f(v) or f(v) * k, constant factored out.
			if isConstWrt(t.Left, v) {
				if r, ok := antiderivative(t.Right, v); ok {
					return mul(t.Left, r), true
				}
			}
			if isConstWrt(t.Right, v) {
				if l, ok := antiderivative(t.Left, v); ok {
					return mul(t.Right, l), true
				}
			}
		case ast.Div:
			if isConstWrt(t.Right, v) {
				if l, ok := antiderivative(t.Left, v); ok {
					return div(l, t.Right), true
				}
			}
			// 1/v -> ln|v|
			if isConstWrt(t.Left, v) && isNumber(t.Left, 1) {
				if vv, isVar := t.Right.(*ast.Variable); isVar && vv.Name == v {
					return call1("ln", &ast.AbsoluteValue{Inner: vv}), true
				}
			}
		case ast.Pow:
			if base, isVar := t.Left.(*ast.Variable); isVar && base.Name == v && isConstWrt(t.Right, v) {
				if isNumber(t.Right, -1) {
					return call1("ln", &ast.AbsoluteValue{Inner: base}), true
				}
				// v^n -> v^(n+1) / (n+1)
				np1 := add(t.Right, num(1))
				return div(powE(base, np1), np1), true
			}
		}
	case *ast.FuncCall:
		if len(t.Args) == 1 {
			if arg, isVar := t.Args[0].(*ast.Variable); isVar && arg.Name == v {
				switch t.Name {
				case "sin":
					return neg(call1("cos", arg)), true
				case "cos":
					return call1("sin", arg), true
				case "exp":
					return call1("exp", arg), true
				case "sinh":
					return call1("cosh", arg), true
				case "cosh":
					return call1("sinh", arg), true
				}
			}
		}
	}
	return nil, false
}
