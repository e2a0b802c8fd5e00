package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/adaptiveexpr/adaptiveexpr"
	"github.com/adaptiveexpr/adaptiveexpr/parser"
	"github.com/spf13/cobra"
)

var memoryPath string

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Parse and evaluate an expression against a JSON memory document",
	Args:  cobra.ExactArgs(1),
	RunE:  runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVarP(&memoryPath, "memory", "m", "", "path to a JSON file supplying the memory scope (default: {})")
}

func runEval(_ *cobra.Command, args []string) error {
	root := map[string]any{}
	if memoryPath != "" {
		data, err := os.ReadFile(memoryPath)
		if err != nil {
			return fmt.Errorf("reading memory file: %w", err)
		}
		if err := json.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("parsing memory file as JSON: %w", err)
		}
	}

	expr, err := parser.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parsing expression: %w", err)
	}

	var evalOpts []adaptiveexpr.EvalOption
	if verbose {
		evalOpts = append(evalOpts, adaptiveexpr.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	evaluator := adaptiveexpr.NewEvaluator(evalOpts...)
	memory := adaptiveexpr.NewSimpleObjectMemory(root)

	value, err := evaluator.Evaluate(context.Background(), expr, memory, adaptiveexpr.Options{})
	if err != nil {
		return fmt.Errorf("evaluating expression: %w", err)
	}

	fmt.Println(adaptiveexpr.FormatInterpolatedValue(value))
	return nil
}
