// Command adaptiveexpr is a small CLI wrapper around the evaluation engine,
// useful for manually smoke-testing an expression against a JSON memory
// document without writing a Go program.
package main

import (
	"fmt"
	"os"

	"github.com/adaptiveexpr/adaptiveexpr/cmd/adaptiveexpr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
