package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/texeval/internal/domain/numeric"
	"github.com/ZanzyTHEbar/texeval/internal/engine"
)

// EvaluationService orchestrates the LaTeX evaluation pipeline, the
// successor to the teacher's ApplicationService (which orchestrated
// parse-then-generate rather than parse-then-evaluate).
type EvaluationService struct {
	provider ExpressionProvider // Input port
	writer   ResultWriter       // Output port
	engine   *engine.Engine     // Domain: parser+evaluator+cache façade
}

// NewEvaluationService creates a new application service instance.
// It requires implementations of the input/output ports and the engine.
func NewEvaluationService(
	provider ExpressionProvider,
	writer ResultWriter,
	eng *engine.Engine,
) *EvaluationService {
	return &EvaluationService{
		provider: provider,
		writer:   writer,
		engine:   eng,
	}
}

// Run executes the main application logic: parse the LaTeX expression,
// evaluate it under the supplied variable bindings, and write the
// formatted result.
func (s *EvaluationService) Run() error {
	// 1. Get input from the provider.
	latexInput, config, err := s.provider.GetExpression()
	if err != nil {
		return fmt.Errorf("failed to get latex input: %w", err)
	}

	// 2. Evaluate the LaTeX string using the engine.
	result, err := s.engine.Evaluate(latexInput, config.Vars)
	if err != nil {
		return fmt.Errorf("failed to evaluate expression: %w", err)
	}

	// 3. Write the formatted output using the result writer.
	if err := s.writer.WriteResult(formatResult(result)); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	return nil
}

// formatResult renders a numeric.Result the way a CLI user expects to
// read it: a plain float for a real scalar, Go-style complex literal
// syntax for a complex scalar, and a bracketed row list for a matrix.
func formatResult(r numeric.Result) string {
	switch r.Kind {
	case numeric.KindNumeric:
		if r.IsNaN() {
			return "undefined"
		}
		return strconv.FormatFloat(r.Numeric, 'g', -1, 64)
	case numeric.KindComplex:
		re, im := real(r.Complex), imag(r.Complex)
		sign := "+"
		if im < 0 {
			sign = "-"
			im = -im
		}
		return fmt.Sprintf("%s %s %si", formatFloat(re), sign, formatFloat(im))
	case numeric.KindMatrix:
		var b strings.Builder
		for i, row := range r.Matrix.Data {
			if i > 0 {
				b.WriteString("\n")
			}
			cells := make([]string, len(row))
			for j, v := range row {
				cells[j] = formatFloat(v)
			}
			b.WriteString("[" + strings.Join(cells, ", ") + "]")
		}
		return b.String()
	default:
		return ""
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
