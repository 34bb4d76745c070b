package cli_test

import (
	"testing"

	"github.com/ZanzyTHEbar/texeval/internal/adapters/cli"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().StringP("input", "i", "", "LaTeX equation string")
	cmd.Flags().StringP("output", "o", "", "Output file path")
	cmd.Flags().StringToString("var", nil, "variable=value bindings")
	return cmd
}

func TestCliAdapter_GetExpression_Success(t *testing.T) {
	cmd := newTestCommand()

	expectedLatex := "x^2 + y^2"
	expectedOutput := "result.txt"

	require.NoError(t, cmd.Flags().Set("input", expectedLatex))
	require.NoError(t, cmd.Flags().Set("output", expectedOutput))
	require.NoError(t, cmd.Flags().Set("var", "x=2,y=3"))

	adapter := cli.NewAdapter(cmd)

	latex, config, err := adapter.GetExpression()

	require.NoError(t, err)
	assert.Equal(t, expectedLatex, latex)
	assert.Equal(t, expectedOutput, config.OutputFile)
	assert.Equal(t, 2.0, config.Vars["x"])
	assert.Equal(t, 3.0, config.Vars["y"])
}

func TestCliAdapter_GetExpression_MissingInput(t *testing.T) {
	cmd := newTestCommand()
	// Input flag is deliberately not set.

	adapter := cli.NewAdapter(cmd)

	_, _, err := adapter.GetExpression()

	require.Error(t, err)
	assert.ErrorContains(t, err, "input LaTeX string cannot be empty")
}

func TestCliAdapter_GetExpression_InvalidVarValue(t *testing.T) {
	cmd := newTestCommand()
	require.NoError(t, cmd.Flags().Set("input", "x"))
	require.NoError(t, cmd.Flags().Set("var", "x=notanumber"))

	adapter := cli.NewAdapter(cmd)

	_, _, err := adapter.GetExpression()
	require.Error(t, err)
	assert.ErrorContains(t, err, `variable "x"`)
}

func TestCliAdapter_NewAdapter_PanicMissingFlags(t *testing.T) {
	cmd := &cobra.Command{}
	// Deliberately omit defining flags.

	assert.PanicsWithValue(t,
		"CLI Adapter requires command with 'input', 'output', and 'var' flags defined",
		func() { cli.NewAdapter(cmd) },
		"Should panic if flags are missing",
	)
}
