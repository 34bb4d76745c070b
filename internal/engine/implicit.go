package engine

import (
	"github.com/ZanzyTHEbar/texeval/internal/domain/ast"
	"github.com/ZanzyTHEbar/texeval/internal/domain/diagnostics"
)

// implicitMultFinder walks a tree looking for Binary{Op:Mul} nodes the
// parser synthesized for adjacent-atom multiplication ("2x", "xy")
// rather than an explicit \cdot/\times token — those carry an empty
// SourceTok (see parser.go's implicit-multiplication fallback).
type implicitMultFinder struct {
	found bool
}

func (f *implicitMultFinder) Visit(n ast.Node) ast.Visitor {
	if f.found {
		return nil
	}
	if b, ok := n.(*ast.Binary); ok && b.Op == ast.Mul && b.SourceTok == "" {
		f.found = true
		return nil
	}
	return f
}

// rejectImplicitMultiplication returns a Validation diagnostic if tree
// contains an implicit-multiplication node, honoring
// Config.DisableImplicitMultiplication == true for callers that want
// adjacent atoms to be a hard parse error instead of an inferred
// product.
func rejectImplicitMultiplication(tree ast.Expr) *diagnostics.Error {
	f := &implicitMultFinder{}
	ast.Walk(f, tree)
	if !f.found {
		return nil
	}
	return diagnostics.New(diagnostics.Validation, "implicit multiplication is disabled by configuration; use \\cdot or \\times explicitly")
}
