package cache

import (
	"testing"
	"time"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/numeric"
	"github.com/ZanzyTHEbar/texeval/internal/domain/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerParseCacheRoundTrip(t *testing.T) {
	m := New(DefaultConfig())
	tree := &ast.Number{Value: 42}
	_, ok := m.GetParsed("x+1")
	assert.False(t, ok)
	m.PutParsed("x+1", tree)
	got, ok := m.GetParsed("x+1")
	require.True(t, ok)
	assert.Equal(t, tree, got)
}

func TestManagerDisabledLayerAlwaysMisses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.L1ParseCache.Size = 0
	m := New(cfg)
	m.PutParsed("x", &ast.Number{Value: 1})
	_, ok := m.GetParsed("x")
	assert.False(t, ok)
}

func TestManagerEvalCacheKeyedByEnvironment(t *testing.T) {
	m := New(DefaultConfig())
	tree := &ast.Variable{Name: "x"}
	env1 := registry.NewEnvironment(map[string]float64{"x": 1}, nil)
	env2 := registry.NewEnvironment(map[string]float64{"x": 2}, nil)

	m.PutEval(tree, env1, numeric.Real(1))
	m.PutEval(tree, env2, numeric.Real(2))

	got1, ok := m.GetEval(tree, env1)
	require.True(t, ok)
	v1, _ := got1.AsNumeric()
	assert.Equal(t, 1.0, v1)

	got2, ok := m.GetEval(tree, env2)
	require.True(t, ok)
	v2, _ := got2.AsNumeric()
	assert.Equal(t, 2.0, v2)
}

func TestManagerDerivativeCache(t *testing.T) {
	m := New(DefaultConfig())
	tree := &ast.Variable{Name: "x"}
	deriv := &ast.Number{Value: 1}
	_, ok := m.GetDerivative(tree, "x", 1)
	assert.False(t, ok)
	m.PutDerivative(tree, "x", 1, deriv)
	got, ok := m.GetDerivative(tree, "x", 1)
	require.True(t, ok)
	assert.Equal(t, deriv, got)
}

func TestStoreEvictsLRU(t *testing.T) {
	s := newStore(LayerConfig{Size: 2, Policy: LRU})
	s.put("a", 1)
	s.put("b", 2)
	s.get("a") // touch a, making b the least-recently-used
	s.put("c", 3)

	_, aOK := s.get("a")
	_, bOK := s.get("b")
	_, cOK := s.get("c")
	assert.True(t, aOK)
	assert.False(t, bOK)
	assert.True(t, cOK)
}

func TestStoreTTLExpiry(t *testing.T) {
	s := newStore(LayerConfig{Size: 10, Policy: LRU, TTL: time.Millisecond})
	s.put("a", 1)
	time.Sleep(5 * time.Millisecond)
	_, ok := s.get("a")
	assert.False(t, ok)
}

func TestStoreZeroSizeDisabled(t *testing.T) {
	s := newStore(LayerConfig{Size: 0})
	s.put("a", 1)
	_, ok := s.get("a")
	assert.False(t, ok)
}

func TestHashExprStableAndDistinguishing(t *testing.T) {
	a := &ast.Binary{Op: ast.Add, Left: &ast.Number{Value: 1}, Right: &ast.Number{Value: 2}}
	b := &ast.Binary{Op: ast.Add, Left: &ast.Number{Value: 1}, Right: &ast.Number{Value: 2}}
	c := &ast.Binary{Op: ast.Mul, Left: &ast.Number{Value: 1}, Right: &ast.Number{Value: 2}}

	assert.Equal(t, HashExpr(a), HashExpr(b))
	assert.NotEqual(t, HashExpr(a), HashExpr(c))
}

func TestHashEnvOrderIndependent(t *testing.T) {
	env1 := registry.NewEnvironment(map[string]float64{"x": 1, "y": 2}, nil)
	env2 := registry.NewEnvironment(map[string]float64{"y": 2, "x": 1}, nil)
	assert.Equal(t, HashEnv(env1), HashEnv(env2))
}

func TestManagerClearAllResetsLayers(t *testing.T) {
	m := New(DefaultConfig())
	m.PutParsed("x", &ast.Number{Value: 1})
	m.ClearAll()
	_, ok := m.GetParsed("x")
	assert.False(t, ok)
}
