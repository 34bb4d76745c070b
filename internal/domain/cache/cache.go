// Package cache implements the four-layer cache described in spec.md
// §4.6: L1 (source string -> parsed tree), L2 ((tree, environment) ->
// evaluation result), L3 ((tree, variable, order) -> differentiated
// tree), and L4 (sub-expression hash -> folded numeric value). Each
// layer is an independently-sized, independently-evictable store;
// size=0 disables a layer entirely. Grounded on the teacher's
// process-wide registry pattern (sync.RWMutex-guarded maps) generalized
// here into a bounded, evicting store instead of an unbounded one.
package cache

import (
	"sync"
	"time"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/numeric"
	"github.com/ZanzyTHEbar/texeval/internal/domain/registry"
)

// EvictionPolicy selects the replacement strategy for a layer.
type EvictionPolicy int

const (
	// LRU is the default: evict the least-recently-used entry. Built on
	// container/list (stdlib) since no example repo in the pack imports
	// a dedicated LRU library; see DESIGN.md.
	LRU EvictionPolicy = iota
	// LFU evicts the least-frequently-used entry.
	LFU
)

// LayerConfig sizes and configures one cache layer. Size 0 disables the
// layer: Get always misses and Set is a no-op.
type LayerConfig struct {
	Size     int
	Policy   EvictionPolicy
	TTL      time.Duration // zero means entries never expire
}

// Config configures all four layers of a Manager.
type Config struct {
	L1ParseCache        LayerConfig
	L2EvalCache         LayerConfig
	L3DerivativeCache   LayerConfig
	L4SubexpressionCache LayerConfig
}

// DefaultConfig mirrors spec.md §4.6's suggested defaults: generous L1
// (sources repeat often), smaller L2 (environments vary more), modest
// L3, and a large L4 (sub-expressions are the most repeated unit).
func DefaultConfig() Config {
	return Config{
		L1ParseCache:         LayerConfig{Size: 512, Policy: LRU},
		L2EvalCache:          LayerConfig{Size: 256, Policy: LRU},
		L3DerivativeCache:    LayerConfig{Size: 128, Policy: LRU},
		L4SubexpressionCache: LayerConfig{Size: 2048, Policy: LRU},
	}
}

// Stats reports cumulative hit/miss/eviction counters for one layer.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Manager owns the four cache layers of one Engine instance. It holds
// no registries; entries leave a layer only by eviction, TTL expiry or
// a clear.
type Manager struct {
	mu sync.Mutex

	l1 *store // string -> ast.Expr
	l2 *store // (treeHash, envHash) -> numeric.Result
	l3 *store // (treeHash, var, order) -> ast.Expr
	l4 *store // subtree hash -> float64
}

// New builds a Manager from cfg, applying zero-value layers (Size==0)
// as disabled caches.
func New(cfg Config) *Manager {
	return &Manager{
		l1: newStore(cfg.L1ParseCache),
		l2: newStore(cfg.L2EvalCache),
		l3: newStore(cfg.L3DerivativeCache),
		l4: newStore(cfg.L4SubexpressionCache),
	}
}

// ClearAll empties every layer without touching its configuration or
// cumulative stats.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.l1.clear()
	m.l2.clear()
	m.l3.clear()
	m.l4.clear()
}

// GetParsed returns a cached parse of source, if present.
func (m *Manager) GetParsed(source string) (ast.Expr, bool) {
	v, ok := m.l1.get(source)
	if !ok {
		return nil, false
	}
	return v.(ast.Expr), true
}

// PutParsed records a parse of source.
func (m *Manager) PutParsed(source string, tree ast.Expr) {
	m.l1.put(source, tree)
}

// evalKey identifies an (expression, environment) pair for L2.
func evalKey(tree ast.Expr, env *registry.Environment) string {
	return HashExpr(tree) + "|" + HashEnv(env)
}

// GetEval returns a cached evaluation of tree under env.
func (m *Manager) GetEval(tree ast.Expr, env *registry.Environment) (numeric.Result, bool) {
	v, ok := m.l2.get(evalKey(tree, env))
	if !ok {
		return numeric.Result{}, false
	}
	return v.(numeric.Result), true
}

// PutEval records the evaluation of tree under env.
func (m *Manager) PutEval(tree ast.Expr, env *registry.Environment, result numeric.Result) {
	m.l2.put(evalKey(tree, env), result)
}

// derivativeKey identifies a (tree, variable, order) triple for L3.
func derivativeKey(tree ast.Expr, v string, order int) string {
	return HashExpr(tree) + "|" + v + "|" + itoa(order)
}

// GetDerivative returns a cached symbolic derivative.
func (m *Manager) GetDerivative(tree ast.Expr, v string, order int) (ast.Expr, bool) {
	val, ok := m.l3.get(derivativeKey(tree, v, order))
	if !ok {
		return nil, false
	}
	return val.(ast.Expr), true
}

// PutDerivative records a symbolic derivative.
func (m *Manager) PutDerivative(tree ast.Expr, v string, order int, result ast.Expr) {
	m.l3.put(derivativeKey(tree, v, order), result)
}

// GetSubexpression returns a cached constant-folded value for a closed
// sub-expression (no free variables), keyed by its fingerprint hash.
func (m *Manager) GetSubexpression(tree ast.Expr) (float64, bool) {
	v, ok := m.l4.get(HashExpr(tree))
	if !ok {
		return 0, false
	}
	return v.(float64), true
}

// PutSubexpression records the folded value of a closed sub-expression.
func (m *Manager) PutSubexpression(tree ast.Expr, value float64) {
	m.l4.put(HashExpr(tree), value)
}

// Stats returns a snapshot of each layer's cumulative counters, in L1,
// L2, L3, L4 order.
func (m *Manager) Stats() (l1, l2, l3, l4 Stats) {
	return m.l1.stats(), m.l2.stats(), m.l3.stats(), m.l4.stats()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
