package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nihei9/cfgcore/grammar"
	"github.com/nihei9/cfgcore/grammar/dsl"
	specgrammar "github.com/nihei9/cfgcore/spec/grammar"
)

// readCompiledGrammar loads a compile-produced JSON document and rebuilds
// the grammar.Grammar it describes, the way force/trace/test all need to
// start from the same on-disk artifact compile wrote.
func readCompiledGrammar(path string) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	var cg specgrammar.CompiledGrammar
	if err := json.Unmarshal(data, &cg); err != nil {
		return nil, fmt.Errorf("cannot parse compiled grammar %s: %w", path, err)
	}
	if cg.Source == nil {
		return nil, fmt.Errorf("compiled grammar %s has no source", path)
	}
	return dsl.Load(cg.Source)
}
