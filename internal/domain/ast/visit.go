package ast

// Visitor is implemented by consumers that want to walk a tree without
// depending on the concrete node types directly (e.g. JSON/MathML/SymPy
// exporters, per spec.md §6's visitor surface). The core only ships
// Walk and CollectVariables; richer exporters are external collaborators.
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// Walk traverses the tree in the same order the evaluator and
// transformer do: left-to-right, top-down. It mirrors the teacher's
// collectVariables traversal, generalized to every node type and to an
// external Visitor instead of a single hardcoded accumulator.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	if v = v.Visit(n); v == nil {
		return
	}
	switch t := n.(type) {
	case *Number, *Variable, *FontedVariable:
		// leaves
	case *Binary:
		Walk(v, t.Left)
		Walk(v, t.Right)
	case *Unary:
		Walk(v, t.Operand)
	case *FuncCall:
		if t.Sub != nil {
			Walk(v, t.Sub)
		}
		for _, a := range t.Args {
			Walk(v, a)
		}
	case *AbsoluteValue:
		Walk(v, t.Inner)
	case *Matrix:
		for _, row := range t.Rows {
			for _, cell := range row {
				Walk(v, cell)
			}
		}
	case *NthRoot:
		if t.Index != nil {
			Walk(v, t.Index)
		}
		Walk(v, t.Radicand)
	case *Sum:
		Walk(v, t.Start)
		Walk(v, t.End)
		Walk(v, t.Body)
	case *Product:
		Walk(v, t.Start)
		Walk(v, t.End)
		Walk(v, t.Body)
	case *Integral:
		if t.Lower != nil {
			Walk(v, t.Lower)
		}
		if t.Upper != nil {
			Walk(v, t.Upper)
		}
		Walk(v, t.Body)
	case *Derivative:
		Walk(v, t.Body)
	case *PartialDerivative:
		Walk(v, t.Body)
	case *Limit:
		Walk(v, t.Target)
		Walk(v, t.Body)
	case *Comparison:
		Walk(v, t.Left)
		Walk(v, t.Right)
	case *ChainedComparison:
		for _, e := range t.Exprs {
			Walk(v, e)
		}
	case *Conditional:
		Walk(v, t.Value)
		Walk(v, t.Condition)
	case *FactorialExpr:
		Walk(v, t.Value)
	case *PiecewiseExpr:
		for _, c := range t.Cases {
			Walk(v, c.Value)
			if c.Condition != nil {
				Walk(v, c.Condition)
			}
		}
	}
}

// CollectVariables returns the set of free variable names referenced by
// the tree, generalizing the teacher's generator.collectVariables
// (which only handled Variable/Binary/FuncCall) to every node type.
// Summation/product index variables are bound within their Body and are
// excluded from the result.
func CollectVariables(n Node) map[string]struct{} {
	seen := make(map[string]struct{})
	collectVars(n, seen, nil)
	return seen
}

func collectVars(n Node, seen map[string]struct{}, bound []string) {
	isBound := func(name string) bool {
		for _, b := range bound {
			if b == name {
				return true
			}
		}
		return false
	}
	switch t := n.(type) {
	case nil:
	case *Number:
	case *Variable:
		if !isBound(t.Name) {
			seen[t.Name] = struct{}{}
		}
	case *FontedVariable:
		if !isBound(t.Name) {
			seen[t.Name] = struct{}{}
		}
	case *Binary:
		collectVars(t.Left, seen, bound)
		collectVars(t.Right, seen, bound)
	case *Unary:
		collectVars(t.Operand, seen, bound)
	case *FuncCall:
		collectVars(t.Sub, seen, bound)
		for _, a := range t.Args {
			collectVars(a, seen, bound)
		}
	case *AbsoluteValue:
		collectVars(t.Inner, seen, bound)
	case *Matrix:
		for _, row := range t.Rows {
			for _, cell := range row {
				collectVars(cell, seen, bound)
			}
		}
	case *NthRoot:
		collectVars(t.Index, seen, bound)
		collectVars(t.Radicand, seen, bound)
	case *Sum:
		collectVars(t.Start, seen, bound)
		collectVars(t.End, seen, bound)
		collectVars(t.Body, seen, append(bound, t.Var))
	case *Product:
		collectVars(t.Start, seen, bound)
		collectVars(t.End, seen, bound)
		collectVars(t.Body, seen, append(bound, t.Var))
	case *Integral:
		collectVars(t.Lower, seen, bound)
		collectVars(t.Upper, seen, bound)
		collectVars(t.Body, seen, bound)
	case *Derivative:
		collectVars(t.Body, seen, bound)
	case *PartialDerivative:
		collectVars(t.Body, seen, bound)
	case *Limit:
		collectVars(t.Target, seen, bound)
		collectVars(t.Body, seen, append(bound, t.Var))
	case *Comparison:
		collectVars(t.Left, seen, bound)
		collectVars(t.Right, seen, bound)
	case *ChainedComparison:
		for _, e := range t.Exprs {
			collectVars(e, seen, bound)
		}
	case *Conditional:
		collectVars(t.Value, seen, bound)
		collectVars(t.Condition, seen, bound)
	case *FactorialExpr:
		collectVars(t.Value, seen, bound)
	case *PiecewiseExpr:
		for _, c := range t.Cases {
			collectVars(c.Value, seen, bound)
			collectVars(c.Condition, seen, bound)
		}
	}
}
