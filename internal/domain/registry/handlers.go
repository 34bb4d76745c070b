package registry

import (
	"math"
	"sync"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/diagnostics"
	"github.com/ZanzyTHEbar/texeval/internal/domain/numeric"
)

// newDefaultFunctions seeds the required handler list from spec.md
// §4.4. Grounded on the teacher's generator.buildGoExpr function-name
// type switch (ln/log/exp/sqrt/sin/cos/... -> math.* calls), generalized
// here from a one-shot code-generation table into a run-time dispatch
// table so the same names work under interpretation rather than
// transpilation.
func newDefaultFunctions() *FunctionRegistry {
	r := &FunctionRegistry{handlers: map[string]Handler{}}

	unary := func(f func(float64) float64) Handler {
		return func(call *ast.FuncCall, env *Environment, eval EvalFunc) (numeric.Result, error) {
			x, err := evalArgReal(call, env, eval, 0)
			if err != nil {
				return numeric.Result{}, err
			}
			return numeric.Real(f(x)), nil
		}
	}

	r.handlers["sin"] = unary(math.Sin)
	r.handlers["cos"] = unary(math.Cos)
	r.handlers["tan"] = unary(math.Tan)
	r.handlers["cot"] = unary(func(x float64) float64 { return 1 / math.Tan(x) })
	r.handlers["sec"] = unary(func(x float64) float64 { return 1 / math.Cos(x) })
	r.handlers["csc"] = unary(func(x float64) float64 { return 1 / math.Sin(x) })
	r.handlers["arcsin"] = unary(math.Asin)
	r.handlers["arccos"] = unary(math.Acos)
	r.handlers["arctan"] = unary(math.Atan)
	r.handlers["arccot"] = unary(func(x float64) float64 { return math.Atan(1 / x) })
	r.handlers["arcsec"] = unary(func(x float64) float64 { return math.Acos(1 / x) })
	r.handlers["arccsc"] = unary(func(x float64) float64 { return math.Asin(1 / x) })

	r.handlers["sinh"] = unary(math.Sinh)
	r.handlers["cosh"] = unary(math.Cosh)
	r.handlers["tanh"] = unary(math.Tanh)
	r.handlers["coth"] = unary(func(x float64) float64 { return 1 / math.Tanh(x) })
	r.handlers["sech"] = unary(func(x float64) float64 { return 1 / math.Cosh(x) })
	r.handlers["csch"] = unary(func(x float64) float64 { return 1 / math.Sinh(x) })
	r.handlers["arcsinh"] = unary(math.Asinh)
	r.handlers["arccosh"] = unary(math.Acosh)
	r.handlers["arctanh"] = unary(math.Atanh)

	r.handlers["ln"] = unary(math.Log)
	r.handlers["exp"] = unary(math.Exp)
	r.handlers["sqrt"] = unary(math.Sqrt)
	r.handlers["floor"] = unary(math.Floor)
	r.handlers["ceil"] = unary(math.Ceil)
	r.handlers["round"] = unary(math.Round)
	r.handlers["abs"] = unary(math.Abs)
	r.handlers["sgn"] = unary(sign)
	r.handlers["sign"] = unary(sign)

	r.handlers["log"] = logHandler
	r.handlers["min"] = reduceHandler(math.Min, math.Inf(1))
	r.handlers["max"] = reduceHandler(math.Max, math.Inf(-1))
	r.handlers["gcd"] = reduceIntHandler(gcd)
	r.handlers["lcm"] = reduceIntHandler(lcm)
	r.handlers["binom"] = binomHandler

	r.handlers["factorial"] = factorialHandler
	r.handlers["fib"] = fibonacciHandler

	r.handlers["Re"] = reHandler
	r.handlers["Im"] = imHandler
	r.handlers["conjugate"] = conjugateHandler
	r.handlers["overline"] = conjugateHandler

	r.handlers["det"] = detHandler
	r.handlers["trace"] = traceHandler
	r.handlers["tr"] = traceHandler

	return r
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func evalArgReal(call *ast.FuncCall, env *Environment, eval EvalFunc, idx int) (float64, error) {
	if idx >= len(call.Args) {
		return 0, diagnostics.New(diagnostics.Evaluator, "\\%s expects at least %d argument(s)", call.Name, idx+1)
	}
	res, err := eval(call.Args[idx], env)
	if err != nil {
		return 0, err
	}
	v, ok := res.AsNumeric()
	if !ok {
		return 0, diagnostics.New(diagnostics.Evaluator, "\\%s expects a real argument", call.Name)
	}
	return v, nil
}

func logHandler(call *ast.FuncCall, env *Environment, eval EvalFunc) (numeric.Result, error) {
	x, err := evalArgReal(call, env, eval, 0)
	if err != nil {
		return numeric.Result{}, err
	}
	base := 10.0
	if call.Sub != nil {
		b, err := eval(call.Sub, env)
		if err != nil {
			return numeric.Result{}, err
		}
		bv, ok := b.AsNumeric()
		if !ok {
			return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "\\log base must be a real number")
		}
		base = bv
	}
	return numeric.Real(math.Log(x) / math.Log(base)), nil
}

func reduceHandler(f func(a, b float64) float64, identity float64) Handler {
	return func(call *ast.FuncCall, env *Environment, eval EvalFunc) (numeric.Result, error) {
		if len(call.Args) == 0 {
			return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "\\%s expects at least 1 argument", call.Name)
		}
		acc := identity
		for i := range call.Args {
			v, err := evalArgReal(call, env, eval, i)
			if err != nil {
				return numeric.Result{}, err
			}
			acc = f(acc, v)
		}
		return numeric.Real(acc), nil
	}
}

func reduceIntHandler(f func(a, b int64) int64) Handler {
	return func(call *ast.FuncCall, env *Environment, eval EvalFunc) (numeric.Result, error) {
		if len(call.Args) < 2 {
			return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "\\%s expects at least 2 arguments", call.Name)
		}
		first, err := evalArgReal(call, env, eval, 0)
		if err != nil {
			return numeric.Result{}, err
		}
		acc := int64(math.Round(first))
		for i := 1; i < len(call.Args); i++ {
			v, err := evalArgReal(call, env, eval, i)
			if err != nil {
				return numeric.Result{}, err
			}
			acc = f(acc, int64(math.Round(v)))
		}
		return numeric.Real(float64(acc)), nil
	}
}

func gcd(a, b int64) int64 {
	a, b = absInt(a), absInt(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	return absInt(a/gcd(a, b)*b)
}

func absInt(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func binomHandler(call *ast.FuncCall, env *Environment, eval EvalFunc) (numeric.Result, error) {
	n, err := evalArgReal(call, env, eval, 0)
	if err != nil {
		return numeric.Result{}, err
	}
	k, err := evalArgReal(call, env, eval, 1)
	if err != nil {
		return numeric.Result{}, err
	}
	ni, ki := int64(math.Round(n)), int64(math.Round(k))
	if ki < 0 || ki > ni {
		return numeric.Real(0), nil
	}
	return numeric.Real(binomCoeff(ni, ki)), nil
}

func binomCoeff(n, k int64) float64 {
	if k > n-k {
		k = n - k
	}
	result := 1.0
	for i := int64(0); i < k; i++ {
		result = result * float64(n-i) / float64(i+1)
	}
	return result
}

// factorialMemo / fibonacciMemo cache results under a mutex, per
// spec.md §4.4's "factorial and fibonacci are memoized"; grounded on
// the teacher's parser memoization-free style generalized with the
// mutex-guarded plain-map idiom used for the registries themselves.
var (
	factorialMu    sync.Mutex
	factorialMemo  = map[int]float64{0: 1, 1: 1}
	fibonacciMu    sync.Mutex
	fibonacciMemo  = map[int]float64{0: 0, 1: 1}
)

func factorialHandler(call *ast.FuncCall, env *Environment, eval EvalFunc) (numeric.Result, error) {
	x, err := evalArgReal(call, env, eval, 0)
	if err != nil {
		return numeric.Result{}, err
	}
	n := int(math.Round(x))
	if n < 0 || n > 170 {
		return numeric.NaN(), nil
	}
	factorialMu.Lock()
	defer factorialMu.Unlock()
	if v, ok := factorialMemo[n]; ok {
		return numeric.Real(v), nil
	}
	for i := 2; i <= n; i++ {
		if _, ok := factorialMemo[i]; !ok {
			factorialMemo[i] = factorialMemo[i-1] * float64(i)
		}
	}
	return numeric.Real(factorialMemo[n]), nil
}

func fibonacciHandler(call *ast.FuncCall, env *Environment, eval EvalFunc) (numeric.Result, error) {
	x, err := evalArgReal(call, env, eval, 0)
	if err != nil {
		return numeric.Result{}, err
	}
	n := int(math.Round(x))
	if n < 0 {
		return numeric.NaN(), nil
	}
	fibonacciMu.Lock()
	defer fibonacciMu.Unlock()
	for i := 2; i <= n; i++ {
		if _, ok := fibonacciMemo[i]; !ok {
			fibonacciMemo[i] = fibonacciMemo[i-1] + fibonacciMemo[i-2]
		}
	}
	if v, ok := fibonacciMemo[n]; ok {
		return numeric.Real(v), nil
	}
	return numeric.NaN(), nil
}

func complexArg(call *ast.FuncCall, env *Environment, eval EvalFunc, idx int) (complex128, error) {
	res, err := eval(call.Args[idx], env)
	if err != nil {
		return 0, err
	}
	c, ok := res.AsComplex()
	if !ok {
		return 0, diagnostics.New(diagnostics.Evaluator, "\\%s expects a scalar argument", call.Name)
	}
	return c, nil
}

func reHandler(call *ast.FuncCall, env *Environment, eval EvalFunc) (numeric.Result, error) {
	c, err := complexArg(call, env, eval, 0)
	if err != nil {
		return numeric.Result{}, err
	}
	return numeric.Real(real(c)), nil
}

func imHandler(call *ast.FuncCall, env *Environment, eval EvalFunc) (numeric.Result, error) {
	c, err := complexArg(call, env, eval, 0)
	if err != nil {
		return numeric.Result{}, err
	}
	return numeric.Real(imag(c)), nil
}

func conjugateHandler(call *ast.FuncCall, env *Environment, eval EvalFunc) (numeric.Result, error) {
	c, err := complexArg(call, env, eval, 0)
	if err != nil {
		return numeric.Result{}, err
	}
	return numeric.Cplx(complex(real(c), -imag(c))), nil
}

func matrixArg(call *ast.FuncCall, env *Environment, eval EvalFunc, idx int) (*numeric.Dense, error) {
	res, err := eval(call.Args[idx], env)
	if err != nil {
		return nil, err
	}
	m, ok := res.AsMatrix()
	if !ok {
		return nil, diagnostics.New(diagnostics.Evaluator, "\\%s expects a matrix argument", call.Name)
	}
	return m, nil
}

func detHandler(call *ast.FuncCall, env *Environment, eval EvalFunc) (numeric.Result, error) {
	m, err := matrixArg(call, env, eval, 0)
	if err != nil {
		return numeric.Result{}, err
	}
	v, err := m.Det()
	if err != nil {
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "%s", err.Error())
	}
	return numeric.Real(v), nil
}

func traceHandler(call *ast.FuncCall, env *Environment, eval EvalFunc) (numeric.Result, error) {
	m, err := matrixArg(call, env, eval, 0)
	if err != nil {
		return numeric.Result{}, err
	}
	v, err := m.Trace()
	if err != nil {
		return numeric.Result{}, diagnostics.New(diagnostics.Evaluator, "%s", err.Error())
	}
	return numeric.Real(v), nil
}
