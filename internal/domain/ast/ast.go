// Package ast defines the tagged-sum expression tree produced by the
// parser and consumed by the evaluator and symbolic transformer.
package ast

// Node is a marker interface implemented by every tree node.
type Node interface {
	node()
}

// Expr is a Node that evaluates to a value.
type Expr interface {
	Node
	expr()
}

// MatrixEnv identifies the LaTeX environment a Matrix literal was
// written in. It only affects to_latex() round-tripping; evaluation
// treats all environments identically.
type MatrixEnv int

const (
	EnvPlain MatrixEnv = iota
	EnvParens
	EnvBrackets
	EnvBars
	EnvAligned
)

// BinaryOp identifies the operator of a Binary node.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Pow
)

func (op BinaryOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Pow:
		return "^"
	default:
		return "?"
	}
}

// CompareOp identifies the operator of a Comparison node.
type CompareOp int

const (
	Lt CompareOp = iota
	Gt
	Le
	Ge
	Eq
	Ne
)

func (op CompareOp) String() string {
	switch op {
	case Lt:
		return "<"
	case Gt:
		return ">"
	case Le:
		return "<="
	case Ge:
		return ">="
	case Eq:
		return "="
	case Ne:
		return "\\neq"
	default:
		return "?"
	}
}

// --- Concrete node types ---

// Number is a numeric literal (e.g. 3.14, 42).
type Number struct {
	Value float64
}

func (*Number) node() {}
func (*Number) expr() {}

// Variable is an identifier (e.g. x, y, \alpha).
type Variable struct {
	Name string
}

func (*Variable) node() {}
func (*Variable) expr() {}

// FontedVariable is a Variable wrapped in a font command (\mathbf{x}),
// preserved only so to_latex() can round-trip the original styling.
type FontedVariable struct {
	Style string
	Name  string
}

func (*FontedVariable) node() {}
func (*FontedVariable) expr() {}

// Binary is a two-operand operation (a + b, x ^ 2, ...).
type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	// SourceTok records the literal operator token text, used only for
	// diagnostics (position reporting) and to_latex() fidelity.
	SourceTok string
}

func (*Binary) node() {}
func (*Binary) expr() {}

// UnaryOp identifies the operator of a Unary node. Negate is the only
// member today; the type exists so future prefix operators don't force
// an ast-wide signature change.
type UnaryOp int

const (
	Negate UnaryOp = iota
)

// Unary is a single-operand prefix operation (-x).
type Unary struct {
	Op      UnaryOp
	Operand Expr
}

func (*Unary) node() {}
func (*Unary) expr() {}

// FuncCall is a named function or LaTeX command applied to arguments
// (\sin{x}, \log_{2}{8}, \binom{n}{k}, \frac{a}{b}, ...).
type FuncCall struct {
	Name string
	Args []Expr
	// Sub is the subscript base, e.g. the "2" in \log_{2}{8} or the
	// "a" in \min_{a}{b}. Nil when the call has no subscript.
	Sub Expr
}

func (*FuncCall) node() {}
func (*FuncCall) expr() {}

// AbsoluteValue is |inner|.
type AbsoluteValue struct {
	Inner Expr
}

func (*AbsoluteValue) node() {}
func (*AbsoluteValue) expr() {}

// Matrix is a literal matrix/array environment. Rows must all have
// equal length (enforced by the parser).
type Matrix struct {
	Rows [][]Expr
	Env  MatrixEnv
}

func (*Matrix) node() {}
func (*Matrix) expr() {}

// NthRoot is \sqrt[Index]{Radicand}; Index defaults to 2 (\sqrt{x}).
type NthRoot struct {
	Radicand Expr
	Index    Expr
}

func (*NthRoot) node() {}
func (*NthRoot) expr() {}

// Sum is \sum_{Var=Start}^{End} Body.
type Sum struct {
	Var   string
	Start Expr
	End   Expr
	Body  Expr
}

func (*Sum) node() {}
func (*Sum) expr() {}

// Product is \prod_{Var=Start}^{End} Body.
type Product struct {
	Var   string
	Start Expr
	End   Expr
	Body  Expr
}

func (*Product) node() {}
func (*Product) expr() {}

// Integral is \int[_{Lower}^{Upper}] Body dVar. Lower/Upper are nil for
// an indefinite integral.
type Integral struct {
	Lower Expr
	Upper Expr
	Body  Expr
	Var   string
	// Vars holds every integration variable in differential order,
	// including Var, which is always Vars[0] (the first differential).
	Vars []string
}

func (*Integral) node() {}
func (*Integral) expr() {}

// Derivative is \frac{d^Order}{dVar^Order} Body (Order >= 1).
type Derivative struct {
	Body  Expr
	Var   string
	Order int
}

func (*Derivative) node() {}
func (*Derivative) expr() {}

// PartialDerivative is the \partial form of Derivative.
type PartialDerivative struct {
	Body  Expr
	Var   string
	Order int
}

func (*PartialDerivative) node() {}
func (*PartialDerivative) expr() {}

// Limit is \lim_{Var \to Target} Body.
type Limit struct {
	Var    string
	Target Expr
	Body   Expr
}

func (*Limit) node() {}
func (*Limit) expr() {}

// Comparison is a single-operator relation (a < b).
type Comparison struct {
	Op    CompareOp
	Left  Expr
	Right Expr
}

func (*Comparison) node() {}
func (*Comparison) expr() {}

// ChainedComparison is a multi-operator relation chain
// (a < b < c, len(Ops) == len(Exprs)-1 >= 2).
type ChainedComparison struct {
	Exprs []Expr
	Ops   []CompareOp
}

func (*ChainedComparison) node() {}
func (*ChainedComparison) expr() {}

// Conditional is "Value, Condition" — evaluates to NaN when Condition
// is false/NaN, else to Value.
type Conditional struct {
	Value     Expr
	Condition Expr
}

func (*Conditional) node() {}
func (*Conditional) expr() {}

// FactorialExpr is n!. The parser never builds it: '!' is parsed
// straight into FuncCall{Name:"factorial"} so the registry's memoized
// handler stays the single evaluation path. The node type remains for
// trees built by hand, which ToLatex, Walk and Fingerprint accept.
type FactorialExpr struct {
	Value Expr
}

func (*FactorialExpr) node() {}
func (*FactorialExpr) expr() {}

// PiecewiseCase is one row of a PiecewiseExpr (\begin{cases}...\end{cases}).
type PiecewiseCase struct {
	Value     Expr
	Condition Expr // nil for an "otherwise" case
}

// PiecewiseExpr is a \begin{cases}...\end{cases} block. Evaluation
// lowers it to nested Conditional semantics: the first case whose
// Condition holds (or has no Condition) wins.
type PiecewiseExpr struct {
	Cases []PiecewiseCase
}

func (*PiecewiseExpr) node() {}
func (*PiecewiseExpr) expr() {}
