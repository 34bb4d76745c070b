package registry

import (
	"sync"

	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/numeric"
)

// EvalFunc is the callback a Handler uses to evaluate an argument
// sub-tree against an Environment — it is the evaluator's Eval method,
// passed down so handlers never need to import the evaluator package
// (which would otherwise import registry, closing a cycle).
type EvalFunc func(n ast.Expr, env *Environment) (numeric.Result, error)

// Handler implements one named function/operator (spec.md §4.4). call
// carries the raw argument sub-trees and the optional subscript
// (\log_2, \text{fib}_n); eval lets a handler recursively evaluate its
// own arguments under the same environment and cache path the rest of
// the tree uses.
type Handler func(call *ast.FuncCall, env *Environment, eval EvalFunc) (numeric.Result, error)

// FunctionRegistry is a thread-safe, extensible name->Handler table,
// mirroring ConstantRegistry's shape.
type FunctionRegistry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// Functions is the process-wide default registry, seeded with the
// required handler list from spec.md §4.4.
var Functions = newDefaultFunctions()

// Lookup returns the handler bound to name, if any.
func (r *FunctionRegistry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Set installs or overwrites a handler.
func (r *FunctionRegistry) Set(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Names returns a snapshot of every registered function name.
func (r *FunctionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	return names
}
