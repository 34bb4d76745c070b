package parser

import (
	"testing"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/diagnostics"
	"github.com/ZanzyTHEbar/texeval/internal/domain/numeric"
	"github.com/ZanzyTHEbar/texeval/internal/domain/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, errs := Parse(src)
	if len(errs) != 0 {
		for _, e := range errs {
			t.Errorf(" - %s", e.Error())
		}
		t.FailNow()
	}
	return expr
}

func TestParseArithmeticPrecedence(t *testing.T) {
	expr := mustParse(t, "2 + 3 * 4")
	bin, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Add, bin.Op)
	rhs, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Mul, rhs.Op)
}

func TestParsePowerIsRightAssociative(t *testing.T) {
	// 2^3^2 should parse as 2^(3^2), not (2^3)^2.
	expr := mustParse(t, "2^3^2")
	bin, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Pow, bin.Op)
	_, leftIsNumber := bin.Left.(*ast.Number)
	assert.True(t, leftIsNumber)
	rhs, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Pow, rhs.Op)
}

func TestParseImplicitMultiplication(t *testing.T) {
	expr := mustParse(t, "2x")
	bin, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Mul, bin.Op)
	_, leftIsNumber := bin.Left.(*ast.Number)
	assert.True(t, leftIsNumber)
	v, ok := bin.Right.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)
}

func TestParseAdjacentLettersAreSeparateVariables(t *testing.T) {
	// "xy" is x * y, not the two-letter identifier "xy".
	expr := mustParse(t, "xy")
	bin, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Mul, bin.Op)
	left, ok := bin.Left.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "x", left.Name)
	right, ok := bin.Right.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "y", right.Name)
}

func TestParseFrac(t *testing.T) {
	expr := mustParse(t, `\frac{1}{2}`)
	bin, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Div, bin.Op)
}

func TestParseDerivativeFrac(t *testing.T) {
	expr := mustParse(t, `\frac{d}{dx}(x^2)`)
	der, ok := expr.(*ast.Derivative)
	require.True(t, ok)
	assert.Equal(t, "x", der.Var)
	assert.Equal(t, 1, der.Order)
}

func TestParseSecondOrderDerivative(t *testing.T) {
	expr := mustParse(t, `\frac{d^2}{dx^2}(x^3)`)
	der, ok := expr.(*ast.Derivative)
	require.True(t, ok)
	assert.Equal(t, 2, der.Order)
}

func TestParseSumExpression(t *testing.T) {
	expr := mustParse(t, `\sum_{i=1}^{n} i`)
	sum, ok := expr.(*ast.Sum)
	require.True(t, ok)
	assert.Equal(t, "i", sum.Var)
}

func TestParseLimitExpression(t *testing.T) {
	expr := mustParse(t, `\lim_{x \to 0} \frac{\sin{x}}{x}`)
	lim, ok := expr.(*ast.Limit)
	require.True(t, ok)
	assert.Equal(t, "x", lim.Var)
}

func TestParseIntegralDefaultsDifferential(t *testing.T) {
	expr := mustParse(t, `\int_{0}^{1} x^2`)
	in, ok := expr.(*ast.Integral)
	require.True(t, ok)
	assert.Equal(t, "x", in.Var)
}

func TestParseAbsoluteValue(t *testing.T) {
	expr := mustParse(t, `|x - 1|`)
	_, ok := expr.(*ast.AbsoluteValue)
	assert.True(t, ok)
}

func TestParseFactorial(t *testing.T) {
	expr := mustParse(t, `5!`)
	call, ok := expr.(*ast.FuncCall)
	require.True(t, ok)
	assert.Equal(t, "factorial", call.Name)
}

func TestParseChainedComparison(t *testing.T) {
	expr := mustParse(t, `0 < x < 1`)
	chain, ok := expr.(*ast.ChainedComparison)
	require.True(t, ok)
	assert.Len(t, chain.Exprs, 3)
	assert.Equal(t, []ast.CompareOp{ast.Lt, ast.Lt}, chain.Ops)
}

func TestParseConditional(t *testing.T) {
	expr := mustParse(t, `x^2, x > 0`)
	cond, ok := expr.(*ast.Conditional)
	require.True(t, ok)
	_, condIsComparison := cond.Condition.(*ast.Comparison)
	assert.True(t, condIsComparison)
}

func TestParseMatrixLiteral(t *testing.T) {
	expr := mustParse(t, `\begin{pmatrix}1 & 2 \\ 3 & 4\end{pmatrix}`)
	m, ok := expr.(*ast.Matrix)
	require.True(t, ok)
	assert.Equal(t, ast.EnvParens, m.Env)
	require.Len(t, m.Rows, 2)
	assert.Len(t, m.Rows[0], 2)
}

func TestParsePiecewise(t *testing.T) {
	expr := mustParse(t, `\begin{cases}1 & x > 0 \\ -1 & x < 0\end{cases}`)
	pw, ok := expr.(*ast.PiecewiseExpr)
	require.True(t, ok)
	assert.Len(t, pw.Cases, 2)
}

func TestParseFunctionDefinitionPrefixIsDiscarded(t *testing.T) {
	expr := mustParse(t, `f(x) = x^2 + 1`)
	_, ok := expr.(*ast.Binary)
	assert.True(t, ok)
}

func TestParseKnownFunctionNameNeverFailsAtTokenizeTime(t *testing.T) {
	// A name the tokenizer already recognizes as function-shaped
	// (functionNames) is always a parse-time success; spec.md §4.4's
	// "unknown function names are a parse-time success, evaluate-time
	// error" applies to this class of name, not to an unrecognized
	// backslash command (that is a tokenizer-level failure, spec.md
	// §4.1 — see TestParseUnknownCommandRaisesTokenizerError below).
	expr, errs := Parse(`\sin{x}`)
	assert.Empty(t, errs)
	call, ok := expr.(*ast.FuncCall)
	require.True(t, ok)
	assert.Equal(t, "sin", call.Name)
}

func TestParseUnknownCommandRaisesTokenizerError(t *testing.T) {
	_, errs := Parse(`\zzz{x}`)
	require.NotEmpty(t, errs)
	assert.Equal(t, diagnostics.Tokenizer, errs[0].Category)
}

func TestParseExtensionFunctionRegistryAvoidsTokenizerError(t *testing.T) {
	ext := registry.Extensions{Functions: map[string]registry.Handler{
		"zzz": func(call *ast.FuncCall, env *registry.Environment, eval registry.EvalFunc) (numeric.Result, error) {
			return numeric.Real(0), nil
		},
	}}
	constants, functions := registry.NewScopedRegistries(ext)

	expr, errs := ParseWithRegistries(`\zzz{x}`, functions, constants)
	require.Empty(t, errs)
	call, ok := expr.(*ast.FuncCall)
	require.True(t, ok)
	assert.Equal(t, "zzz", call.Name)
}

func TestParseMismatchedParenReportsError(t *testing.T) {
	_, errs := Parse(`(1 + 2`)
	assert.NotEmpty(t, errs)
}

func TestParseGreekLetterLexesAsVariable(t *testing.T) {
	expr := mustParse(t, `\alpha + 1`)
	bin, ok := expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Add, bin.Op)
	v, ok := bin.Left.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "alpha", v.Name)
}

func TestParseUppercaseAndVariantGreekLettersLexAsVariables(t *testing.T) {
	for _, name := range []string{"Delta", "Sigma", "theta", "lambda", "mu", "omega", "vartheta"} {
		expr := mustParse(t, `\`+name)
		v, ok := expr.(*ast.Variable)
		require.True(t, ok, "expected %s to parse as a Variable", name)
		assert.Equal(t, name, v.Name)
	}
}
