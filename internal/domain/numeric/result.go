// Package numeric implements the tagged Result variant and the
// matrix/complex arithmetic backing it (spec.md §3, §4.3). Grounded on
// the teacher's generator.buildGoExpr type-switch shape for the
// dispatch pattern, and on katalvlaran-lvlath's matrix API surface
// (Add/Sub/Mul/shape-validated ops) for the Dense operations below —
// reimplemented against plain [][]float64 rather than imported,
// because lvlath is reference-only material (no go.mod at an
// importable module path in the retrieval pack), per DESIGN.md.
package numeric

import "math/cmplx"

// Kind tags which alternative of Result is populated.
type Kind int

const (
	KindNumeric Kind = iota
	KindComplex
	KindMatrix
)

// Result is the closed tagged union spec.md §3 describes: every
// expression evaluates to exactly one of a real scalar, a complex
// scalar, or a matrix.
type Result struct {
	Kind    Kind
	Numeric float64
	Complex complex128
	Matrix  *Dense
}

// Real builds a KindNumeric result.
func Real(v float64) Result { return Result{Kind: KindNumeric, Numeric: v} }

// Cplx builds a KindComplex result.
func Cplx(v complex128) Result { return Result{Kind: KindComplex, Complex: v} }

// Mat builds a KindMatrix result.
func Mat(m *Dense) Result { return Result{Kind: KindMatrix, Matrix: m} }

// NaN is the canonical "out of domain" numeric result (spec.md's Open
// Question #2 decision, recorded in DESIGN.md: NaN is reused rather
// than adding a distinct OutOfDomain variant).
func NaN() Result { return Real(nan()) }

func nan() float64 {
	var zero float64
	return zero / zero
}

// IsNaN reports whether a result is the numeric or complex NaN
// sentinel.
func (r Result) IsNaN() bool {
	switch r.Kind {
	case KindNumeric:
		return r.Numeric != r.Numeric
	case KindComplex:
		re, im := real(r.Complex), imag(r.Complex)
		return re != re || im != im
	default:
		return false
	}
}

// AsNumeric coerces a result to a real scalar: a KindComplex result
// with a negligible imaginary part collapses to its real part;
// anything else errors via ok=false.
func (r Result) AsNumeric() (float64, bool) {
	switch r.Kind {
	case KindNumeric:
		return r.Numeric, true
	case KindComplex:
		if cmplx.Abs(complex(0, imag(r.Complex))) < 1e-9 {
			return real(r.Complex), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// AsComplex promotes any scalar result to complex128.
func (r Result) AsComplex() (complex128, bool) {
	switch r.Kind {
	case KindNumeric:
		return complex(r.Numeric, 0), true
	case KindComplex:
		return r.Complex, true
	default:
		return 0, false
	}
}

// AsMatrix returns the matrix payload, if this result is one.
func (r Result) AsMatrix() (*Dense, bool) {
	if r.Kind == KindMatrix {
		return r.Matrix, true
	}
	return nil, false
}

// IsScalar reports whether the result is numeric or complex (not a
// matrix) — used by the evaluator to decide whether matrix-specific
// binary rules apply.
func (r Result) IsScalar() bool {
	return r.Kind == KindNumeric || r.Kind == KindComplex
}
