package evaluator

import (
	"math"
	"math/cmplx"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/diagnostics"
	"github.com/ZanzyTHEbar/texeval/internal/domain/numeric"
)

func (e *Evaluator) evalBinary(b *ast.Binary, env *Environment) (numeric.Result, error) {
	// M^{-1} and M^T are spelled as Pow/identifier-exponent forms in the
	// parser's tree, so they're detected here before falling through to
	// the general numeric/complex/matrix dispatch.
	if b.Op == ast.Pow {
		if r, handled, err := e.evalMatrixPowerSpecial(b, env); handled {
			return r, err
		}
	}

	left, err := e.Eval(b.Left, env)
	if err != nil {
		return numeric.Result{}, err
	}
	right, err := e.Eval(b.Right, env)
	if err != nil {
		return numeric.Result{}, err
	}

	switch {
	case left.Kind == numeric.KindMatrix || right.Kind == numeric.KindMatrix:
		return e.evalMatrixBinary(b.Op, left, right)
	case left.Kind == numeric.KindComplex || right.Kind == numeric.KindComplex:
		return e.evalComplexBinary(b.Op, left, right)
	default:
		return e.evalNumericBinary(b.Op, left.Numeric, right.Numeric)
	}
}

func (e *Evaluator) evalNumericBinary(op ast.BinaryOp, l, r float64) (numeric.Result, error) {
	switch op {
	case ast.Add:
		return numeric.Real(l + r), nil
	case ast.Sub:
		return numeric.Real(l - r), nil
	case ast.Mul:
		return numeric.Real(l * r), nil
	case ast.Div:
		if r == 0 {
			return numeric.NaN(), nil
		}
		return numeric.Real(l / r), nil
	case ast.Pow:
		if l < 0 && r != math.Trunc(r) {
			// A negative base with a fractional exponent is complex
			// (spec.md §4.3): promote rather than return NaN.
			return numeric.Cplx(cmplx.Pow(complex(l, 0), complex(r, 0))), nil
		}
		return numeric.Real(math.Pow(l, r)), nil
	default:
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "unsupported binary operator")
	}
}

func (e *Evaluator) evalComplexBinary(op ast.BinaryOp, l, r numeric.Result) (numeric.Result, error) {
	lc, _ := l.AsComplex()
	rc, _ := r.AsComplex()
	switch op {
	case ast.Add:
		return numeric.Cplx(lc + rc), nil
	case ast.Sub:
		return numeric.Cplx(lc - rc), nil
	case ast.Mul:
		return numeric.Cplx(lc * rc), nil
	case ast.Div:
		if rc == 0 {
			return numeric.NaN(), nil
		}
		return numeric.Cplx(lc / rc), nil
	case ast.Pow:
		return numeric.Cplx(cmplx.Pow(lc, rc)), nil
	default:
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "unsupported binary operator")
	}
}

func (e *Evaluator) evalMatrixBinary(op ast.BinaryOp, l, r numeric.Result) (numeric.Result, error) {
	switch op {
	case ast.Add:
		lm, rm, err := bothMatrices(l, r)
		if err != nil {
			return numeric.Result{}, err
		}
		out, err := lm.Add(rm)
		if err != nil {
			return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "%s", err.Error())
		}
		return numeric.Mat(out), nil
	case ast.Sub:
		lm, rm, err := bothMatrices(l, r)
		if err != nil {
			return numeric.Result{}, err
		}
		out, err := lm.Sub(rm)
		if err != nil {
			return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "%s", err.Error())
		}
		return numeric.Mat(out), nil
	case ast.Mul:
		if l.Kind == numeric.KindMatrix && r.Kind == numeric.KindMatrix {
			out, err := l.Matrix.MatMul(r.Matrix)
			if err != nil {
				return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "%s", err.Error())
			}
			return numeric.Mat(out), nil
		}
		if l.Kind == numeric.KindMatrix {
			scalar, ok := r.AsNumeric()
			if !ok {
				return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "cannot scale a matrix by a non-real value")
			}
			return numeric.Mat(l.Matrix.Scale(scalar)), nil
		}
		scalar, ok := l.AsNumeric()
		if !ok {
			return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "cannot scale a matrix by a non-real value")
		}
		return numeric.Mat(r.Matrix.Scale(scalar)), nil
	case ast.Div:
		if l.Kind == numeric.KindMatrix && r.Kind != numeric.KindMatrix {
			scalar, ok := r.AsNumeric()
			if !ok || scalar == 0 {
				return numeric.NaN(), nil
			}
			return numeric.Mat(l.Matrix.Scale(1 / scalar)), nil
		}
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "cannot divide by a matrix")
	default:
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "unsupported matrix operator")
	}
}

func bothMatrices(l, r numeric.Result) (*numeric.Dense, *numeric.Dense, error) {
	lm, lok := l.AsMatrix()
	rm, rok := r.AsMatrix()
	if !lok || !rok {
		return nil, nil, diagnostics.New(diagnostics.Evaluator, "cannot combine a matrix with a scalar using +/-")
	}
	return lm, rm, nil
}

// evalMatrixPowerSpecial recognizes M^{-1} (inverse) and M^T
// (transpose), both parsed as a Pow binary whose right side is either
// the literal -1 or the bare identifier "T". Returns handled=false for
// every other exponent so the caller falls through to normal
// numeric/complex Pow handling.
func (e *Evaluator) evalMatrixPowerSpecial(b *ast.Binary, env *Environment) (numeric.Result, bool, error) {
	leftVal, err := e.Eval(b.Left, env)
	if err != nil {
		return numeric.Result{}, false, nil
	}
	if leftVal.Kind != numeric.KindMatrix {
		return numeric.Result{}, false, nil
	}
	if v, ok := b.Right.(*ast.Variable); ok && v.Name == "T" {
		return numeric.Mat(leftVal.Matrix.Transpose()), true, nil
	}
	if u, ok := b.Right.(*ast.Unary); ok && u.Op == ast.Negate {
		if num, ok := u.Operand.(*ast.Number); ok && num.Value == 1 {
			inv, err := leftVal.Matrix.Inverse()
			if err != nil {
				return numeric.Result{}, true, diagnostics.New(diagnostics.Evaluator, "%s", err.Error())
			}
			return numeric.Mat(inv), true, nil
		}
	}
	return numeric.Result{}, false, nil
}
