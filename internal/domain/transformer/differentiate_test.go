package transformer

import (
	"math"
	"testing"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/evaluator"
	"github.com/ZanzyTHEbar/texeval/internal/domain/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalAt(t *testing.T, tree ast.Expr, vars map[string]float64) float64 {
	t.Helper()
	ev := evaluator.New(evaluator.Config{}, nil)
	res, err := ev.Eval(tree, evaluator.NewEnvironment(vars))
	require.NoError(t, err)
	v, ok := res.AsNumeric()
	require.True(t, ok)
	return v
}

func TestDifferentiatePowerRule(t *testing.T) {
	tree := mustParseExpr(t, "x^3")
	d := Differentiate(tree, "x", 1)
	// d/dx x^3 = 3x^2, at x=2 -> 12.
	assert.InDelta(t, 12.0, evalAt(t, d, map[string]float64{"x": 2}), 1e-6)
}

func TestDifferentiateSecondOrder(t *testing.T) {
	tree := mustParseExpr(t, "x^3")
	d := Differentiate(tree, "x", 2)
	// d^2/dx^2 x^3 = 6x, at x=2 -> 12.
	assert.InDelta(t, 12.0, evalAt(t, d, map[string]float64{"x": 2}), 1e-6)
}

func TestDifferentiateProductRule(t *testing.T) {
	tree := mustParseExpr(t, `\sin{x} * x`)
	d := Differentiate(tree, "x", 1)
	// d/dx (sin(x)*x) = cos(x)*x + sin(x), at x=0 -> 0*0 + 0 = 0... use x=1.
	x := 1.0
	expected := math.Cos(x)*x + math.Sin(x)
	assert.InDelta(t, expected, evalAt(t, d, map[string]float64{"x": x}), 1e-6)
}

func TestDifferentiateChainRule(t *testing.T) {
	tree := mustParseExpr(t, `\sin{x^2}`)
	d := Differentiate(tree, "x", 1)
	// d/dx sin(x^2) = cos(x^2) * 2x, at x=1.
	x := 1.0
	expected := math.Cos(x*x) * 2 * x
	assert.InDelta(t, expected, evalAt(t, d, map[string]float64{"x": x}), 1e-6)
}

func TestDifferentiateConstantIsZero(t *testing.T) {
	d := Differentiate(mustParseExpr(t, "42"), "x", 1)
	n, ok := d.(*ast.Number)
	require.True(t, ok)
	assert.Equal(t, 0.0, n.Value)
}

func TestDifferentiateQuotientRule(t *testing.T) {
	tree := mustParseExpr(t, `\frac{x}{x+1}`)
	d := Differentiate(tree, "x", 1)
	// d/dx x/(x+1) = 1/(x+1)^2, at x=1 -> 1/4.
	assert.InDelta(t, 0.25, evalAt(t, d, map[string]float64{"x": 1}), 1e-6)
}

func TestParserGroundedForDifferentiation(t *testing.T) {
	// Sanity check that parser.Parse round-trips for the expressions
	// exercised above (guards against a silent parse error masking a
	// differentiation bug).
	_, errs := parser.Parse(`\sin{x^2}`)
	require.Empty(t, errs)
}
