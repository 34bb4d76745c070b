package ast

import (
	"fmt"
	"strings"
)

// Fingerprint produces a canonical, order-sensitive textual encoding of
// a tree, used by the cache package (L2/L3/L4 keys) to hash trees and
// sub-expressions. It reuses the same recursive-switch shape as
// CollectVariables/ToLatex (grounded on the teacher's
// generator.collectVariables visitor) but emits a machine-oriented,
// type-tagged form rather than a human-oriented one.
func Fingerprint(n Node) string {
	var b strings.Builder
	writeFingerprint(&b, n)
	return b.String()
}

func writeFingerprint(b *strings.Builder, n Node) {
	if n == nil {
		b.WriteString("Ø")
		return
	}
	switch t := n.(type) {
	case *Number:
		fmt.Fprintf(b, "N(%v)", t.Value)
	case *Variable:
		fmt.Fprintf(b, "V(%s)", t.Name)
	case *FontedVariable:
		fmt.Fprintf(b, "FV(%s,%s)", t.Style, t.Name)
	case *Binary:
		b.WriteString("B(")
		b.WriteString(t.Op.String())
		b.WriteString(",")
		writeFingerprint(b, t.Left)
		b.WriteString(",")
		writeFingerprint(b, t.Right)
		b.WriteString(")")
	case *Unary:
		b.WriteString("U(")
		writeFingerprint(b, t.Operand)
		b.WriteString(")")
	case *FuncCall:
		fmt.Fprintf(b, "F(%s,", t.Name)
		writeFingerprint(b, t.Sub)
		for _, a := range t.Args {
			b.WriteString(",")
			writeFingerprint(b, a)
		}
		b.WriteString(")")
	case *AbsoluteValue:
		b.WriteString("Abs(")
		writeFingerprint(b, t.Inner)
		b.WriteString(")")
	case *Matrix:
		b.WriteString("M(")
		for _, row := range t.Rows {
			b.WriteString("[")
			for _, cell := range row {
				writeFingerprint(b, cell)
				b.WriteString(",")
			}
			b.WriteString("]")
		}
		b.WriteString(")")
	case *NthRoot:
		b.WriteString("Root(")
		writeFingerprint(b, t.Index)
		b.WriteString(",")
		writeFingerprint(b, t.Radicand)
		b.WriteString(")")
	case *Sum:
		fmt.Fprintf(b, "Sum(%s,", t.Var)
		writeFingerprint(b, t.Start)
		b.WriteString(",")
		writeFingerprint(b, t.End)
		b.WriteString(",")
		writeFingerprint(b, t.Body)
		b.WriteString(")")
	case *Product:
		fmt.Fprintf(b, "Prod(%s,", t.Var)
		writeFingerprint(b, t.Start)
		b.WriteString(",")
		writeFingerprint(b, t.End)
		b.WriteString(",")
		writeFingerprint(b, t.Body)
		b.WriteString(")")
	case *Integral:
		fmt.Fprintf(b, "Int(%s,", t.Var)
		writeFingerprint(b, t.Lower)
		b.WriteString(",")
		writeFingerprint(b, t.Upper)
		b.WriteString(",")
		writeFingerprint(b, t.Body)
		b.WriteString(")")
	case *Derivative:
		fmt.Fprintf(b, "D(%s,%d,", t.Var, t.Order)
		writeFingerprint(b, t.Body)
		b.WriteString(")")
	case *PartialDerivative:
		fmt.Fprintf(b, "PD(%s,%d,", t.Var, t.Order)
		writeFingerprint(b, t.Body)
		b.WriteString(")")
	case *Limit:
		fmt.Fprintf(b, "Lim(%s,", t.Var)
		writeFingerprint(b, t.Target)
		b.WriteString(",")
		writeFingerprint(b, t.Body)
		b.WriteString(")")
	case *Comparison:
		b.WriteString("Cmp(")
		b.WriteString(t.Op.String())
		b.WriteString(",")
		writeFingerprint(b, t.Left)
		b.WriteString(",")
		writeFingerprint(b, t.Right)
		b.WriteString(")")
	case *ChainedComparison:
		b.WriteString("Chain(")
		for i, e := range t.Exprs {
			writeFingerprint(b, e)
			if i < len(t.Ops) {
				b.WriteString(t.Ops[i].String())
			}
		}
		b.WriteString(")")
	case *Conditional:
		b.WriteString("Cond(")
		writeFingerprint(b, t.Value)
		b.WriteString(",")
		writeFingerprint(b, t.Condition)
		b.WriteString(")")
	case *FactorialExpr:
		b.WriteString("Fact(")
		writeFingerprint(b, t.Value)
		b.WriteString(")")
	case *PiecewiseExpr:
		b.WriteString("Piecewise(")
		for _, c := range t.Cases {
			writeFingerprint(b, c.Value)
			b.WriteString(":")
			writeFingerprint(b, c.Condition)
			b.WriteString(";")
		}
		b.WriteString(")")
	default:
		fmt.Fprintf(b, "?(%T)", n)
	}
}
