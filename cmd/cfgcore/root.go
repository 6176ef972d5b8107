package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cfgcore",
	Short: "Compile and drive a constrained-decoding grammar core",
	Long: `cfgcore provides three features:
- Compiles a JSON grammar source into a compiled grammar.
- Runs the forced-bytes oracle and a byte-trace over a compiled grammar.
  This is primarily aimed at debugging the grammar.
- Runs accept/reject test cases against a compiled grammar.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
