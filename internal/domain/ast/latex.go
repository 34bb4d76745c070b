package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// ToLatex renders the tree back into LaTeX source. It is not guaranteed
// to reproduce the original string byte-for-byte, only to be
// value-equivalent when re-parsed (spec.md §8, property 2). Double and
// triple integrals are the exception: they are written as a single \int
// with one differential, so they do not re-parse to the same value.
func ToLatex(n Expr) string {
	var b strings.Builder
	writeLatex(&b, n)
	return b.String()
}

func writeLatex(b *strings.Builder, n Expr) {
	switch t := n.(type) {
	case nil:
	case *Number:
		b.WriteString(formatNumber(t.Value))
	case *Variable:
		b.WriteString(t.Name)
	case *FontedVariable:
		fmt.Fprintf(b, "\\%s{%s}", t.Style, t.Name)
	case *Binary:
		writeBinary(b, t)
	case *Unary:
		b.WriteString("-")
		writeAtom(b, t.Operand)
	case *FuncCall:
		writeFuncCall(b, t)
	case *AbsoluteValue:
		b.WriteString("|")
		writeLatex(b, t.Inner)
		b.WriteString("|")
	case *Matrix:
		writeMatrix(b, t)
	case *NthRoot:
		if t.Index != nil {
			if num, ok := t.Index.(*Number); !ok || num.Value != 2 {
				b.WriteString("\\sqrt[")
				writeLatex(b, t.Index)
				b.WriteString("]{")
				writeLatex(b, t.Radicand)
				b.WriteString("}")
				return
			}
		}
		b.WriteString("\\sqrt{")
		writeLatex(b, t.Radicand)
		b.WriteString("}")
	case *Sum:
		fmt.Fprintf(b, "\\sum_{%s=", t.Var)
		writeLatex(b, t.Start)
		b.WriteString("}^{")
		writeLatex(b, t.End)
		b.WriteString("}")
		writeAtom(b, t.Body)
	case *Product:
		fmt.Fprintf(b, "\\prod_{%s=", t.Var)
		writeLatex(b, t.Start)
		b.WriteString("}^{")
		writeLatex(b, t.End)
		b.WriteString("}")
		writeAtom(b, t.Body)
	case *Integral:
		b.WriteString("\\int")
		if t.Lower != nil {
			b.WriteString("_{")
			writeLatex(b, t.Lower)
			b.WriteString("}^{")
			writeLatex(b, t.Upper)
			b.WriteString("}")
		}
		writeLatex(b, t.Body)
		fmt.Fprintf(b, "\\,d%s", t.Var)
	case *Derivative:
		if t.Order == 1 {
			fmt.Fprintf(b, "\\frac{d}{d%s}(", t.Var)
		} else {
			fmt.Fprintf(b, "\\frac{d^{%d}}{d%s^{%d}}(", t.Order, t.Var, t.Order)
		}
		writeLatex(b, t.Body)
		b.WriteString(")")
	case *PartialDerivative:
		if t.Order == 1 {
			fmt.Fprintf(b, "\\frac{\\partial}{\\partial %s}(", t.Var)
		} else {
			fmt.Fprintf(b, "\\frac{\\partial^{%d}}{\\partial %s^{%d}}(", t.Order, t.Var, t.Order)
		}
		writeLatex(b, t.Body)
		b.WriteString(")")
	case *Limit:
		fmt.Fprintf(b, "\\lim_{%s \\to ", t.Var)
		writeLatex(b, t.Target)
		b.WriteString("}")
		writeAtom(b, t.Body)
	case *Comparison:
		writeLatex(b, t.Left)
		b.WriteString(" " + t.Op.String() + " ")
		writeLatex(b, t.Right)
	case *ChainedComparison:
		for i, e := range t.Exprs {
			writeLatex(b, e)
			if i < len(t.Ops) {
				b.WriteString(" " + t.Ops[i].String() + " ")
			}
		}
	case *Conditional:
		writeLatex(b, t.Value)
		b.WriteString(", ")
		writeLatex(b, t.Condition)
	case *FactorialExpr:
		writeAtom(b, t.Value)
		b.WriteString("!")
	case *PiecewiseExpr:
		b.WriteString("\\begin{cases}")
		for i, c := range t.Cases {
			if i > 0 {
				b.WriteString("\\\\")
			}
			writeLatex(b, c.Value)
			if c.Condition != nil {
				b.WriteString(" & ")
				writeLatex(b, c.Condition)
			}
		}
		b.WriteString("\\end{cases}")
	default:
		b.WriteString(fmt.Sprintf("/* unsupported node %T */", n))
	}
}

// writeAtom wraps n in braces when it is not already a single token, so
// that postfix/subscript contexts (sum bodies, factorial operands)
// re-parse with the same grouping.
func writeAtom(b *strings.Builder, n Expr) {
	switch n.(type) {
	case *Number, *Variable, *FuncCall, *AbsoluteValue, *NthRoot:
		writeLatex(b, n)
	default:
		b.WriteString("{")
		writeLatex(b, n)
		b.WriteString("}")
	}
}

func writeBinary(b *strings.Builder, n *Binary) {
	if n.Op == Div {
		b.WriteString("\\frac{")
		writeLatex(b, n.Left)
		b.WriteString("}{")
		writeLatex(b, n.Right)
		b.WriteString("}")
		return
	}
	operand := func(e Expr) {
		inner, isBinary := e.(*Binary)
		_, isUnary := e.(*Unary)
		if (isBinary && inner.Op != Div) || isUnary {
			b.WriteString("(")
			writeLatex(b, e)
			b.WriteString(")")
			return
		}
		writeLatex(b, e)
	}
	operand(n.Left)
	b.WriteString(n.Op.String())
	operand(n.Right)
}

func writeFuncCall(b *strings.Builder, n *FuncCall) {
	if n.Name == "factorial" && n.Sub == nil && len(n.Args) == 1 {
		writeAtom(b, n.Args[0])
		b.WriteString("!")
		return
	}
	fmt.Fprintf(b, "\\%s", n.Name)
	if n.Sub != nil {
		b.WriteString("_{")
		writeLatex(b, n.Sub)
		b.WriteString("}")
	}
	for _, a := range n.Args {
		b.WriteString("{")
		writeLatex(b, a)
		b.WriteString("}")
	}
}

func writeMatrix(b *strings.Builder, n *Matrix) {
	env := "matrix"
	switch n.Env {
	case EnvParens:
		env = "pmatrix"
	case EnvBrackets:
		env = "bmatrix"
	case EnvBars:
		env = "vmatrix"
	case EnvAligned:
		env = "aligned"
	}
	fmt.Fprintf(b, "\\begin{%s}", env)
	for i, row := range n.Rows {
		if i > 0 {
			b.WriteString("\\\\")
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteString("&")
			}
			writeLatex(b, cell)
		}
	}
	fmt.Fprintf(b, "\\end{%s}", env)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
