package transformer

import (
	"testing"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	e, errs := parser.Parse(src)
	require.Empty(t, errs)
	return e
}

func TestSimplifyConstantFolding(t *testing.T) {
	got := Simplify(mustParseExpr(t, "2 + 3 * 4"))
	n, ok := got.(*ast.Number)
	require.True(t, ok)
	assert.InDelta(t, 14.0, n.Value, 1e-9)
}

func TestSimplifyAdditiveIdentity(t *testing.T) {
	got := Simplify(mustParseExpr(t, "x + 0"))
	v, ok := got.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)
}

func TestSimplifyMultiplicativeAnnihilator(t *testing.T) {
	got := Simplify(mustParseExpr(t, "0 * x"))
	n, ok := got.(*ast.Number)
	require.True(t, ok)
	assert.Equal(t, 0.0, n.Value)
}

func TestSimplifyPowerIdentities(t *testing.T) {
	got := Simplify(mustParseExpr(t, "x^1"))
	v, ok := got.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)

	got = Simplify(mustParseExpr(t, "x^0"))
	n, ok := got.(*ast.Number)
	require.True(t, ok)
	assert.Equal(t, 1.0, n.Value)
}

func TestSimplifyDoubleNegation(t *testing.T) {
	got := Simplify(&ast.Unary{Op: ast.Negate, Operand: &ast.Unary{Op: ast.Negate, Operand: &ast.Variable{Name: "x"}}})
	v, ok := got.(*ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)
}

func TestSimplifyIsIdempotent(t *testing.T) {
	tree := mustParseExpr(t, `\frac{x+0}{1} * 1`)
	once := Simplify(tree)
	twice := Simplify(once)
	assert.Equal(t, ast.Fingerprint(once), ast.Fingerprint(twice))
}
