package evaluator

import (
	"testing"

	"github.com/ZanzyTHEbar/texeval/internal/domain/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalSource(t *testing.T, src string, vars map[string]float64) float64 {
	t.Helper()
	expr, errs := parser.Parse(src)
	require.Empty(t, errs)
	ev := New(Config{}, nil)
	env := NewEnvironment(vars)
	res, err := ev.Eval(expr, env)
	require.NoError(t, err)
	v, ok := res.AsNumeric()
	require.True(t, ok)
	return v
}

func TestEvalArithmetic(t *testing.T) {
	assert.InDelta(t, 14.0, evalSource(t, "2 + 3 * 4", nil), 1e-9)
}

func TestEvalImplicitMultiplication(t *testing.T) {
	assert.InDelta(t, 6.0, evalSource(t, "2x", map[string]float64{"x": 3}), 1e-9)
}

func TestEvalFrac(t *testing.T) {
	assert.InDelta(t, 0.5, evalSource(t, `\frac{1}{2}`, nil), 1e-9)
}

func TestEvalDivisionByZeroIsNaN(t *testing.T) {
	expr, errs := parser.Parse(`1/0`)
	require.Empty(t, errs)
	ev := New(Config{}, nil)
	res, err := ev.Eval(expr, NewEnvironment(nil))
	require.NoError(t, err)
	assert.True(t, res.IsNaN())
}

func TestEvalSumRange(t *testing.T) {
	assert.InDelta(t, 55.0, evalSource(t, `\sum_{i=1}^{10} i`, nil), 1e-9)
}

func TestEvalEmptySumIsZero(t *testing.T) {
	assert.InDelta(t, 0.0, evalSource(t, `\sum_{i=5}^{1} i`, nil), 1e-9)
}

func TestEvalProduct(t *testing.T) {
	assert.InDelta(t, 120.0, evalSource(t, `\prod_{i=1}^{5} i`, nil), 1e-9)
}

func TestEvalDefiniteIntegral(t *testing.T) {
	assert.InDelta(t, 1.0/3.0, evalSource(t, `\int_{0}^{1} x^2`, nil), 1e-3)
}

func TestEvalFunctionCall(t *testing.T) {
	assert.InDelta(t, 0.0, evalSource(t, `\sin{0}`, nil), 1e-9)
}

func TestEvalConditionalTrue(t *testing.T) {
	assert.InDelta(t, 4.0, evalSource(t, `x^2, x > 0`, map[string]float64{"x": 2}), 1e-9)
}

func TestEvalConditionalFalseIsNaN(t *testing.T) {
	expr, errs := parser.Parse(`x^2, x > 0`)
	require.Empty(t, errs)
	ev := New(Config{}, nil)
	res, err := ev.Eval(expr, NewEnvironment(map[string]float64{"x": -1}))
	require.NoError(t, err)
	assert.True(t, res.IsNaN())
}

func TestEvalChainedComparison(t *testing.T) {
	assert.InDelta(t, 1.0, evalSource(t, `0 < 1 < 2`, nil), 1e-9)
	assert.InDelta(t, 0.0, evalSource(t, `0 < 2 < 1`, nil), 1e-9)
}

func TestEvalUndefinedVariableErrors(t *testing.T) {
	expr, errs := parser.Parse(`q`)
	require.Empty(t, errs)
	ev := New(Config{}, nil)
	_, err := ev.Eval(expr, NewEnvironment(nil))
	assert.Error(t, err)
}

func TestEvalKnownConstant(t *testing.T) {
	assert.InDelta(t, 3.14159, evalSource(t, `\pi`, nil), 1e-4)
}

func TestEvalDerivativeAtPoint(t *testing.T) {
	// d/dx x^2 at x=3 is 6.
	assert.InDelta(t, 6.0, evalSource(t, `\frac{d}{dx}(x^2)`, map[string]float64{"x": 3}), 1e-2)
}

func TestEvalTwoSidedLimit(t *testing.T) {
	assert.InDelta(t, 4.0, evalSource(t, `\lim_{x \to 2} x^2`, nil), 1e-2)
}

func TestEvalOneSidedLimitUsesDefinedSideWhenOtherIsUndefined(t *testing.T) {
	// sqrt(x) as x -> 0 from the left probes negative x, which has no
	// real square root; the right side alone should still define the
	// limit instead of the whole thing collapsing to NaN (spec.md §4.3:
	// "else return whichever side is defined").
	assert.InDelta(t, 0.0, evalSource(t, `\lim_{x \to 0} \sqrt{x}`, nil), 1e-2)
}
