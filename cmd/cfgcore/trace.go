package main

import (
	"fmt"
	"os"

	"github.com/nihei9/cfgcore/parser"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "trace <compiled grammar path> <bytes file path>",
		Short:   "Push a byte stream through the parser and print a row-by-row trace",
		Example: `  cfgcore trace grammar.compiled.json input.txt`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTrace,
	}
	rootCmd.AddCommand(cmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	g, err := readCompiledGrammar(args[0])
	if err != nil {
		return fmt.Errorf("cannot read the compiled grammar: %w", err)
	}
	src, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("cannot read the byte stream %s: %w", args[1], err)
	}

	p, err := parser.New(g, true, parser.Options{})
	if err != nil {
		return fmt.Errorf("cannot construct the parser: %w", err)
	}

	for i, b := range src {
		if !p.TryPushByte(b) {
			if p.Fatal() {
				fmt.Fprintf(os.Stdout, "%v: byte 0x%02x: fatal: row exceeded the row-size limit\n", i, b)
				return fmt.Errorf("trace aborted: fatal row overflow at offset %v", i)
			}
			fmt.Fprintf(os.Stdout, "%v: byte 0x%02x: rejected\n", i, b)
			return fmt.Errorf("trace rejected at offset %v", i)
		}
		fmt.Fprintf(os.Stdout, "%v: byte 0x%02x: accepted, accepting=%v temperature=%v\n", i, b, p.IsAccepting(), p.Temperature())
	}

	for _, c := range p.Captures() {
		fmt.Fprintf(os.Stdout, "capture %v: %q\n", c.Name, string(c.Value))
	}
	return nil
}
