package main

import (
	"fmt"
	"os"

	"github.com/nihei9/cfgcore/parser"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "force <compiled grammar path>",
		Short:   "Run the forced-bytes oracle from the initial parser state",
		Example: `  cfgcore force grammar.compiled.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runForce,
	}
	rootCmd.AddCommand(cmd)
}

func runForce(cmd *cobra.Command, args []string) error {
	g, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("cannot read the compiled grammar: %w", err)
	}
	p, err := parser.New(g, true, parser.Options{})
	if err != nil {
		return fmt.Errorf("cannot construct the parser: %w", err)
	}

	forced := p.ForceBytes()
	fmt.Fprintf(os.Stdout, "forced: %q\n", string(forced))
	fmt.Fprintf(os.Stdout, "accepting: %v\n", p.IsAccepting())
	if p.Fatal() {
		return fmt.Errorf("row exceeded the fatal row-size limit")
	}
	if p.FuelExhausted() {
		return fmt.Errorf("lexer fuel was exhausted while forcing bytes")
	}
	return nil
}
