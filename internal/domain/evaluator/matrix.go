package evaluator

import (
	"math"
	"math/cmplx"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/diagnostics"
	"github.com/ZanzyTHEbar/texeval/internal/domain/numeric"
)

func (e *Evaluator) evalMatrix(m *ast.Matrix, env *Environment) (numeric.Result, error) {
	data := make([][]float64, len(m.Rows))
	for i, row := range m.Rows {
		data[i] = make([]float64, len(row))
		for j, cell := range row {
			v, err := e.Eval(cell, env)
			if err != nil {
				return numeric.Result{}, err
			}
			num, ok := v.AsNumeric()
			if !ok {
				return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "matrix entries must be real scalars")
			}
			data[i][j] = num
		}
	}
	dense, err := numeric.NewDense(data)
	if err != nil {
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "%s", err.Error())
	}
	return numeric.Mat(dense), nil
}

func (e *Evaluator) evalNthRoot(r *ast.NthRoot, env *Environment) (numeric.Result, error) {
	radicand, err := e.Eval(r.Radicand, env)
	if err != nil {
		return numeric.Result{}, err
	}
	index := 2.0
	if r.Index != nil {
		idxVal, err := e.Eval(r.Index, env)
		if err != nil {
			return numeric.Result{}, err
		}
		n, ok := idxVal.AsNumeric()
		if !ok {
			return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "root index must be a real number")
		}
		index = n
	}
	x, ok := radicand.AsNumeric()
	if !ok {
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "cannot take the root of a non-scalar value")
	}
	if x < 0 {
		if math.Mod(index, 2) == 0 {
			return numeric.Cplx(cmplx.Pow(complex(x, 0), complex(1/index, 0))), nil
		}
		return numeric.Real(-math.Pow(-x, 1/index)), nil
	}
	return numeric.Real(math.Pow(x, 1/index)), nil
}
