package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ZanzyTHEbar/texeval/internal/app"
	"github.com/ZanzyTHEbar/texeval/internal/engine"

	"github.com/ZanzyTHEbar/texeval/internal/adapters/cli"
	"github.com/ZanzyTHEbar/texeval/internal/adapters/output"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "texeval",
	Short: "texeval parses and evaluates LaTeX math expressions",
	Long: `texeval is a CLI tool that takes a LaTeX mathematical expression
as input, evaluates it numerically (optionally substituting variable
bindings), and writes the result to stdout or a file.`,
	Run: func(cmd *cobra.Command, args []string) {
		outputFilePath, _ := cmd.Flags().GetString("output")

		// --- Dependency Injection ---
		eng := engine.New(engine.Config{})

		inputAdapter := cli.NewAdapter(cmd)
		outputAdapter := output.NewWriterAdapter(outputFilePath)

		appService := app.NewEvaluationService(inputAdapter, outputAdapter, eng)

		if err := appService.Run(); err != nil {
			log.Fatalf("Error: %v\n", err)
		}
	},
}

func init() {
	rootCmd.Flags().StringP("input", "i", "", "LaTeX expression string (required)")
	rootCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().StringToString("var", nil, "variable=value bindings, comma-separated")

	if err := rootCmd.MarkFlagRequired("input"); err != nil {
		fmt.Fprintf(os.Stderr, "Error marking flag required: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
