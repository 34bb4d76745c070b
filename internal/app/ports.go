package app

// Config holds configuration values passed from the input adapter,
// generalized from the teacher's code-generation Config (OutputFile/
// PackageName/FuncName) to the variable bindings an evaluation needs
// instead of a generated file's package/function names.
type Config struct {
	OutputFile string
	Vars       map[string]float64
}

// ExpressionProvider defines the input port for retrieving a LaTeX
// expression and its configuration — the evaluation-oriented successor
// to the teacher's LatexProvider (which retrieved an expression to
// transpile rather than one to evaluate).
type ExpressionProvider interface {
	GetExpression() (latex string, config Config, err error)
}

// ResultWriter defines the output port for writing an evaluation
// result, the successor to the teacher's GoCodeWriter (which wrote
// generated source instead of a computed value).
type ResultWriter interface {
	WriteResult(result string) error
}
