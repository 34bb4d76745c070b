// Package transformer implements the symbolic operations of spec.md
// §4.5: bottom-up algebraic simplification, rule-based differentiation,
// and pattern-matched (with numeric fallback) integration. Grounded on
// the teacher's generator.buildGoExpr recursive type-switch shape,
// reused here as a rewrite dispatch instead of a codegen dispatch.
package transformer

import (
	"math"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
)

// maxSimplifyIterations bounds the bottom-up fixpoint loop (spec.md
// §4.5: "simplification iterates to a fixpoint, capped at 100 passes").
const maxSimplifyIterations = 100

// Simplify rewrites tree to a fixpoint of the rule list below, or until
// maxSimplifyIterations passes have run (spec.md §8's idempotency
// property: Simplify(Simplify(t)) == Simplify(t)).
func Simplify(tree ast.Expr) ast.Expr {
	cur := tree
	for i := 0; i < maxSimplifyIterations; i++ {
		next := simplifyOnce(cur)
		if ast.Fingerprint(next) == ast.Fingerprint(cur) {
			return next
		}
		cur = next
	}
	return cur
}

func simplifyOnce(n ast.Expr) ast.Expr {
	switch t := n.(type) {
	case *ast.Binary:
		return simplifyBinary(&ast.Binary{
			Op:        t.Op,
			Left:      simplifyOnce(t.Left),
			Right:     simplifyOnce(t.Right),
			SourceTok: t.SourceTok,
		})
	case *ast.Unary:
		return simplifyUnary(&ast.Unary{Op: t.Op, Operand: simplifyOnce(t.Operand)})
	case *ast.FuncCall:
		args := make([]ast.Expr, len(t.Args))
		for i, a := range t.Args {
			args[i] = simplifyOnce(a)
		}
		var sub ast.Expr
		if t.Sub != nil {
			sub = simplifyOnce(t.Sub)
		}
		return foldConstantCall(&ast.FuncCall{Name: t.Name, Args: args, Sub: sub})
	case *ast.AbsoluteValue:
		return &ast.AbsoluteValue{Inner: simplifyOnce(t.Inner)}
	case *ast.NthRoot:
		idx := t.Index
		if idx != nil {
			idx = simplifyOnce(idx)
		}
		return &ast.NthRoot{Radicand: simplifyOnce(t.Radicand), Index: idx}
	case *ast.Conditional:
		return &ast.Conditional{Value: simplifyOnce(t.Value), Condition: simplifyOnce(t.Condition)}
	case *ast.Sum:
		return &ast.Sum{Var: t.Var, Start: simplifyOnce(t.Start), End: simplifyOnce(t.End), Body: simplifyOnce(t.Body)}
	case *ast.Product:
		return &ast.Product{Var: t.Var, Start: simplifyOnce(t.Start), End: simplifyOnce(t.End), Body: simplifyOnce(t.Body)}
	default:
		return n
	}
}

func isNumber(n ast.Expr, v float64) bool {
	num, ok := n.(*ast.Number)
	return ok && num.Value == v
}

func asNumber(n ast.Expr) (float64, bool) {
	num, ok := n.(*ast.Number)
	if !ok {
		return 0, false
	}
	return num.Value, true
}

// simplifyBinary applies identity/annihilator rules and constant
// folding to an already-simplified pair of operands.
func simplifyBinary(b *ast.Binary) ast.Expr {
	if lv, ok1 := asNumber(b.Left); ok1 {
		if rv, ok2 := asNumber(b.Right); ok2 {
			if folded, ok := foldConstantBinary(b.Op, lv, rv); ok {
				return &ast.Number{Value: folded}
			}
		}
	}

	switch b.Op {
	case ast.Add:
		if isNumber(b.Left, 0) {
			return b.Right
		}
		if isNumber(b.Right, 0) {
			return b.Left
		}
	case ast.Sub:
		if isNumber(b.Right, 0) {
			return b.Left
		}
		if isNumber(b.Left, 0) {
			return &ast.Unary{Op: ast.Negate, Operand: b.Right}
		}
		if ast.Fingerprint(b.Left) == ast.Fingerprint(b.Right) {
			return &ast.Number{Value: 0}
		}
	case ast.Mul:
		if isNumber(b.Left, 0) || isNumber(b.Right, 0) {
			return &ast.Number{Value: 0}
		}
		if isNumber(b.Left, 1) {
			return b.Right
		}
		if isNumber(b.Right, 1) {
			return b.Left
		}
	case ast.Div:
		if isNumber(b.Right, 1) {
			return b.Left
		}
		if isNumber(b.Left, 0) {
			return &ast.Number{Value: 0}
		}
	case ast.Pow:
		if isNumber(b.Right, 0) {
			return &ast.Number{Value: 1}
		}
		if isNumber(b.Right, 1) {
			return b.Left
		}
		if isNumber(b.Left, 0) {
			return &ast.Number{Value: 0}
		}
		if isNumber(b.Left, 1) {
			return &ast.Number{Value: 1}
		}
	}
	return b
}

func foldConstantBinary(op ast.BinaryOp, l, r float64) (float64, bool) {
	switch op {
	case ast.Add:
		return l + r, true
	case ast.Sub:
		return l - r, true
	case ast.Mul:
		return l * r, true
	case ast.Div:
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case ast.Pow:
		return pow(l, r), true
	default:
		return 0, false
	}
}

func pow(base, exp float64) float64 {
	result := 1.0
	if exp == float64(int(exp)) && exp >= 0 && exp < 64 {
		for i := 0; i < int(exp); i++ {
			result *= base
		}
		return result
	}
	return math.Pow(base, exp)
}

func simplifyUnary(u *ast.Unary) ast.Expr {
	if v, ok := asNumber(u.Operand); ok {
		return &ast.Number{Value: -v}
	}
	if inner, ok := u.Operand.(*ast.Unary); ok && inner.Op == ast.Negate {
		return inner.Operand
	}
	return u
}

// foldableUnary lists the pure, single-argument functions Simplify can
// constant-fold directly via the math package, mirroring the subset of
// registry.Functions's unary handlers that take no subscript.
var foldableUnary = map[string]func(float64) float64{
	"sin": math.Sin, "cos": math.Cos, "tan": math.Tan,
	"ln": math.Log, "exp": math.Exp, "sqrt": math.Sqrt,
	"abs": math.Abs, "floor": math.Floor, "ceil": math.Ceil, "round": math.Round,
}

func foldConstantCall(call *ast.FuncCall) ast.Expr {
	if call.Sub != nil || len(call.Args) != 1 {
		return call
	}
	v, ok := asNumber(call.Args[0])
	if !ok {
		return call
	}
	fn, ok := foldableUnary[call.Name]
	if !ok {
		return call
	}
	return &ast.Number{Value: fn(v)}
}
