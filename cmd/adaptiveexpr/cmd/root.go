package cmd

import "github.com/spf13/cobra"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "adaptiveexpr",
	Short: "Evaluate adaptive expressions against a JSON memory document",
	Long: `adaptiveexpr parses and evaluates the expression language implemented by
the adaptiveexpr module: paths, literals, operators, ~150 built-in
functions, and the foreach/select/where higher-order forms.`,
	Version: "0.1.0-dev",
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "emit a debug trace of the evaluation")
}
