package cli

import (
	"fmt"
	"strconv"

	"github.com/ZanzyTHEbar/texeval/internal/app" // For app.Config and app.ExpressionProvider
	"github.com/spf13/cobra"
)

// Adapter implements the app.ExpressionProvider interface using Cobra flags.
type Adapter struct {
	cmd *cobra.Command
}

// NewAdapter creates a new CLI adapter instance.
func NewAdapter(cmd *cobra.Command) *Adapter {
	// Ensure the necessary flags are defined on the command passed in.
	// This relies on main.go's setup.
	if cmd.Flag("input") == nil || cmd.Flag("output") == nil || cmd.Flag("var") == nil {
		// This is a programming error check.
		panic("CLI Adapter requires command with 'input', 'output', and 'var' flags defined")
	}
	return &Adapter{cmd: cmd}
}

// GetExpression retrieves the LaTeX string and configuration from Cobra flags.
func (a *Adapter) GetExpression() (latex string, config app.Config, err error) {
	latex, err = a.cmd.Flags().GetString("input")
	if err != nil {
		// This error is unlikely if the flag is correctly defined.
		return "", app.Config{}, fmt.Errorf("failed to get 'input' flag: %w", err)
	}
	if latex == "" {
		// This check is technically redundant with main.go's check, but good for safety.
		return "", app.Config{}, fmt.Errorf("input LaTeX string cannot be empty")
	}

	outputFile, _ := a.cmd.Flags().GetString("output") // Error checked during flag parsing by Cobra
	varFlags, _ := a.cmd.Flags().GetStringToString("var")

	vars := make(map[string]float64, len(varFlags))
	for name, raw := range varFlags {
		v, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr != nil {
			return "", app.Config{}, fmt.Errorf("failed to parse value for variable %q: %w", name, parseErr)
		}
		vars[name] = v
	}

	config = app.Config{
		OutputFile: outputFile,
		Vars:       vars,
	}

	return latex, config, nil
}
