package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/cfgcore/tester"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "test <test file path>|<test directory path>",
		Short:   "Run accept/reject scenario cases",
		Example: `  cfgcore test testdata/scenarios`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTest,
	}
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	cs := tester.ListTestCases(args[0])
	errOccurred := false
	for _, c := range cs {
		if c.Error != nil {
			fmt.Fprintf(os.Stderr, "failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
			errOccurred = true
		}
	}
	if errOccurred {
		return errors.New("cannot run test")
	}

	t := &tester.Tester{Cases: cs}
	rs := t.Run()
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("test failed")
	}
	return nil
}
