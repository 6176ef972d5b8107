package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	verr "github.com/nihei9/cfgcore/error"
	"github.com/nihei9/cfgcore/grammar"
	"github.com/nihei9/cfgcore/grammar/dsl"
	specgrammar "github.com/nihei9/cfgcore/spec/grammar"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile <grammar source path>",
		Short:   "Compile a grammar source into a compiled grammar",
		Example: `  cfgcore compile grammar.json -o grammar.compiled.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	sourceName := "stdin"
	var r io.Reader = os.Stdin
	if len(args) > 0 {
		sourceName = args[0]
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("cannot open the grammar source %s: %w", args[0], err)
		}
		defer f.Close()
		r = f
	}

	var src specgrammar.GrammarSource
	if err := json.NewDecoder(r).Decode(&src); err != nil {
		return verr.SpecErrors{{Cause: err, SourceName: sourceName, FilePath: sourceName}}
	}

	g, err := dsl.Load(&src)
	if err != nil {
		return verr.SpecErrors{{Cause: err, SourceName: sourceName, FilePath: sourceName}}
	}

	cgram, err := buildCompiledGrammar(&src, g)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *compileFlags.output != "" {
		f, err := os.OpenFile(*compileFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	b, err := json.Marshal(cgram)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v\n", string(b))
	return nil
}

func buildCompiledGrammar(src *specgrammar.GrammarSource, g *grammar.Grammar) (*specgrammar.CompiledGrammar, error) {
	var derived []specgrammar.DerivedSymbol
	for _, nt := range src.NonTerminals {
		sym, ok := g.Symbols.Reader().ToSymbol(nt.Name)
		if !ok {
			continue
		}
		derived = append(derived, specgrammar.DerivedSymbol{
			Name:     nt.Name,
			Terminal: false,
			Nullable: g.Props[sym].Nullable,
		})
	}
	for _, td := range src.Terminals {
		sym, ok := g.Symbols.Reader().ToSymbol(td.Name)
		if !ok {
			continue
		}
		idx, _ := g.SymbolToLexemeIdx(sym)
		derived = append(derived, specgrammar.DerivedSymbol{
			Name:      td.Name,
			Terminal:  true,
			Nullable:  g.Props[sym].Nullable,
			LexemeIdx: idx,
		})
	}
	names, tab, err := specgrammar.PackDerived(derived)
	if err != nil {
		return nil, err
	}
	return &specgrammar.CompiledGrammar{Source: src, DerivedNames: names, DerivedTable: tab}, nil
}
