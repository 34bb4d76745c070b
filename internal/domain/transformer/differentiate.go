package transformer

import (
	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
)

// Differentiate applies the standard symbolic differentiation rules
// (spec.md §4.5: sum/product/quotient/power/chain rule, plus a table of
// elementary-function derivatives) Order times with respect to Var, then
// runs one Simplify pass over the result.
func Differentiate(tree ast.Expr, v string, order int) ast.Expr {
	cur := tree
	for i := 0; i < order; i++ {
		cur = diff(cur, v)
	}
	return Simplify(cur)
}

func num(v float64) ast.Expr { return &ast.Number{Value: v} }

func isConstWrt(n ast.Expr, v string) bool {
	switch t := n.(type) {
	case *ast.Number:
		return true
	case *ast.Variable:
		return t.Name != v
	case *ast.Binary:
		return isConstWrt(t.Left, v) && isConstWrt(t.Right, v)
	case *ast.Unary:
		return isConstWrt(t.Operand, v)
	case *ast.FuncCall:
		for _, a := range t.Args {
			if !isConstWrt(a, v) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func add(a, b ast.Expr) ast.Expr { return &ast.Binary{Op: ast.Add, Left: a, Right: b} }
func sub(a, b ast.Expr) ast.Expr { return &ast.Binary{Op: ast.Sub, Left: a, Right: b} }
func mul(a, b ast.Expr) ast.Expr { return &ast.Binary{Op: ast.Mul, Left: a, Right: b} }
func div(a, b ast.Expr) ast.Expr { return &ast.Binary{Op: ast.Div, Left: a, Right: b} }
func powE(a, b ast.Expr) ast.Expr { return &ast.Binary{Op: ast.Pow, Left: a, Right: b} }
func neg(a ast.Expr) ast.Expr    { return &ast.Unary{Op: ast.Negate, Operand: a} }
func call1(name string, a ast.Expr) ast.Expr {
	return &ast.FuncCall{Name: name, Args: []ast.Expr{a}}
}

// chainRules maps a unary function name to its derivative expressed in
// terms of the (already-differentiated) inner argument u, i.e. f'(u).
// diff() multiplies the table entry by d(u)/dVar to implement the chain
// rule generically, grounded on the teacher's buildGoExpr per-node
// dispatch used here as a derivative-rule dispatch instead.
var chainRules = map[string]func(u ast.Expr) ast.Expr{
	"sin":  func(u ast.Expr) ast.Expr { return call1("cos", u) },
	"cos":  func(u ast.Expr) ast.Expr { return neg(call1("sin", u)) },
	"tan":  func(u ast.Expr) ast.Expr { return div(num(1), powE(call1("cos", u), num(2))) },
	"exp":  func(u ast.Expr) ast.Expr { return call1("exp", u) },
	"ln":   func(u ast.Expr) ast.Expr { return div(num(1), u) },
	"sqrt": func(u ast.Expr) ast.Expr { return div(num(1), mul(num(2), call1("sqrt", u))) },
	"sinh": func(u ast.Expr) ast.Expr { return call1("cosh", u) },
	"cosh": func(u ast.Expr) ast.Expr { return call1("sinh", u) },
	"tanh": func(u ast.Expr) ast.Expr { return sub(num(1), powE(call1("tanh", u), num(2))) },
	"arcsin": func(u ast.Expr) ast.Expr {
		return div(num(1), call1("sqrt", sub(num(1), powE(u, num(2)))))
	},
	"arccos": func(u ast.Expr) ast.Expr {
		return neg(div(num(1), call1("sqrt", sub(num(1), powE(u, num(2))))))
	},
	"arctan": func(u ast.Expr) ast.Expr {
		return div(num(1), add(num(1), powE(u, num(2))))
	},
}

// diff differentiates n once with respect to v.
func diff(n ast.Expr, v string) ast.Expr {
	if isConstWrt(n, v) {
		return num(0)
	}
	switch t := n.(type) {
	case *ast.Number:
		return num(0)
	case *ast.Variable:
		if t.Name == v {
			return num(1)
		}
		return num(0)
	case *ast.Unary:
		return neg(diff(t.Operand, v))
	case *ast.Binary:
		return diffBinary(t, v)
	case *ast.AbsoluteValue:
		return mul(call1("sgn", t.Inner), diff(t.Inner, v))
	case *ast.FuncCall:
		return diffFuncCall(t, v)
	case *ast.NthRoot:
		idx := num(2)
		if t.Index != nil {
			idx = t.Index
		}
		// x^(1/idx) rewritten as a power for the chain/power rule.
		return diff(powE(t.Radicand, div(num(1), idx)), v)
	default:
		// Sum/Product/Integral/Limit bodies bind their own variable and
		// are outside the scope of symbolic differentiation here; treat
		// as opaque (derivative 0) rather than fabricating a wrong rule.
		return num(0)
	}
}

func diffBinary(b *ast.Binary, v string) ast.Expr {
	switch b.Op {
	case ast.Add:
		return add(diff(b.Left, v), diff(b.Right, v))
	case ast.Sub:
		return sub(diff(b.Left, v), diff(b.Right, v))
	case ast.Mul:
		return add(mul(diff(b.Left, v), b.Right), mul(b.Left, diff(b.Right, v)))
	case ast.Div:
		// (u'v - uv') / v^2
		uprime := diff(b.Left, v)
		vprime := diff(b.Right, v)
		numerator := sub(mul(uprime, b.Right), mul(b.Left, vprime))
		return div(numerator, powE(b.Right, num(2)))
	case ast.Pow:
		return diffPow(b.Left, b.Right, v)
	default:
		return num(0)
	}
}

// diffPow covers three cases: constant exponent (power rule), constant
// base (exponential rule), and the general case where both base and
// exponent depend on v (logarithmic differentiation).
func diffPow(base, exp ast.Expr, v string) ast.Expr {
	baseConst := isConstWrt(base, v)
	expConst := isConstWrt(exp, v)
	switch {
	case expConst && !baseConst:
		// d/dv base^k = k * base^(k-1) * base'
		km1 := sub(exp, num(1))
		return mul(mul(exp, powE(base, km1)), diff(base, v))
	case baseConst && !expConst:
		// d/dv k^exp = k^exp * ln(k) * exp'
		return mul(mul(powE(base, exp), call1("ln", base)), diff(exp, v))
	case !baseConst && !expConst:
		// d/dv base^exp = base^exp * (exp' * ln(base) + exp * base'/base)
		term1 := mul(diff(exp, v), call1("ln", base))
		term2 := div(mul(exp, diff(base, v)), base)
		return mul(powE(base, exp), add(term1, term2))
	default:
		return num(0)
	}
}

func diffFuncCall(f *ast.FuncCall, v string) ast.Expr {
	if f.Name == "factorial" {
		// Not differentiable in closed form over the reals here.
		return num(0)
	}
	if len(f.Args) != 1 {
		return num(0)
	}
	rule, ok := chainRules[f.Name]
	if !ok {
		return num(0)
	}
	u := f.Args[0]
	return mul(rule(u), diff(u, v))
}
