// Package evaluator tree-walks an ast.Expr into a numeric.Result under
// an Environment, implementing spec.md §4.3. Grounded on the
// teacher's generator.buildGoExpr recursive type-switch (reused here
// as an interpretation dispatch instead of a go/ast code-generation
// dispatch) and on katalvlaran-lvlath's shape-validated matrix
// operation calls for the matrix arms.
package evaluator

import (
	"github.com/ZanzyTHEbar/texeval/internal/domain/registry"
)

// Environment is re-exported from registry so callers of this package
// don't need a second import just to build one.
type Environment = registry.Environment

// NewEnvironment builds an Environment over the given variable
// bindings using the process-wide default constant registry.
func NewEnvironment(vars map[string]float64) *Environment {
	return registry.NewEnvironment(vars, nil)
}
