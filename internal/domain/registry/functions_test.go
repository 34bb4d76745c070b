package registry

import (
	"testing"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/numeric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalArg(n ast.Expr, env *Environment) (numeric.Result, error) {
	num, ok := n.(*ast.Number)
	if !ok {
		return numeric.Result{}, assertErr()
	}
	return numeric.Real(num.Value), nil
}

func assertErr() error { return &testErr{} }

type testErr struct{}

func (*testErr) Error() string { return "not a number literal" }

func TestDefaultFunctionsSeeded(t *testing.T) {
	_, ok := Functions.Lookup("sin")
	assert.True(t, ok)
	_, ok = Functions.Lookup("not_a_function")
	assert.False(t, ok)
}

func TestSinHandlerEvaluatesZero(t *testing.T) {
	h, ok := Functions.Lookup("sin")
	require.True(t, ok)
	res, err := h(&ast.FuncCall{Name: "sin", Args: []ast.Expr{&ast.Number{Value: 0}}}, NewEnvironment(nil, nil), evalArg)
	require.NoError(t, err)
	v, ok := res.AsNumeric()
	require.True(t, ok)
	assert.InDelta(t, 0.0, v, 1e-9)
}

func TestFactorialHandler(t *testing.T) {
	h, ok := Functions.Lookup("factorial")
	require.True(t, ok)
	res, err := h(&ast.FuncCall{Name: "factorial", Args: []ast.Expr{&ast.Number{Value: 5}}}, NewEnvironment(nil, nil), evalArg)
	require.NoError(t, err)
	v, ok := res.AsNumeric()
	require.True(t, ok)
	assert.Equal(t, 120.0, v)
}

func TestFunctionRegistrySetAddsCustomHandler(t *testing.T) {
	r := &FunctionRegistry{handlers: map[string]Handler{}}
	r.Set("double", func(call *ast.FuncCall, env *Environment, eval EvalFunc) (numeric.Result, error) {
		v, err := eval(call.Args[0], env)
		if err != nil {
			return numeric.Result{}, err
		}
		n, _ := v.AsNumeric()
		return numeric.Real(n * 2), nil
	})
	h, ok := r.Lookup("double")
	require.True(t, ok)
	res, err := h(&ast.FuncCall{Args: []ast.Expr{&ast.Number{Value: 21}}}, NewEnvironment(nil, nil), evalArg)
	require.NoError(t, err)
	v, _ := res.AsNumeric()
	assert.Equal(t, 42.0, v)
}
