// Package dsl loads a spec/grammar.GrammarSource (the JSON grammar-source
// document cmd/cfgcore compile reads) into a grammar.Builder. It plays the
// role the teacher's ast->Builder conversion pass does for vartan's
// textual grammar files, except the front end here is a flat JSON
// document rather than a hand-written BNF parser.
package dsl

import (
	"fmt"

	"github.com/nihei9/cfgcore/grammar"
	"github.com/nihei9/cfgcore/grammar/symbol"
	specgrammar "github.com/nihei9/cfgcore/spec/grammar"
)

// Load replays src into a fresh grammar.Builder and compiles it.
func Load(src *specgrammar.GrammarSource) (*grammar.Grammar, error) {
	if src.Start == "" {
		return nil, fmt.Errorf("dsl: grammar source has no start symbol")
	}

	b := grammar.NewBuilder()

	// Register every declared non-terminal first (including the start
	// symbol) so Rule's RHS references can resolve regardless of
	// declaration order.
	if err := b.SetStart(src.Start); err != nil {
		return nil, fmt.Errorf("dsl: %w", err)
	}
	nonTerms := map[string]symbol.Symbol{}
	for _, nt := range src.NonTerminals {
		sym, props, err := b.NonTerminal(nt.Name)
		if err != nil {
			return nil, fmt.Errorf("dsl: non-terminal %q: %w", nt.Name, err)
		}
		props.CaptureName = nt.CaptureName
		props.StopCaptureName = nt.StopCaptureName
		props.Temperature = nt.Temperature
		props.MaxTokens = nt.MaxTokens
		props.ModelVariable = grammar.ModelVariable(nt.ModelVariable)
		props.GenGrammar = nt.GenGrammar
		props.Hidden = nt.Hidden
		nonTerms[nt.Name] = sym
	}
	// The start symbol itself is addressable as a plain rule LHS/RHS name
	// even when it wasn't repeated in NonTerminals; NonTerminal is
	// idempotent for an already-registered name (SetStart registered it
	// above), so this just recovers its Symbol value.
	if _, ok := nonTerms[src.Start]; !ok {
		sym, _, err := b.NonTerminal(src.Start)
		if err != nil {
			return nil, fmt.Errorf("dsl: start symbol %q: %w", src.Start, err)
		}
		nonTerms[src.Start] = sym
	}

	terms := map[string]symbol.Symbol{}
	for _, td := range src.Terminals {
		var opts []grammar.LexemeOption
		if td.Skip {
			opts = append(opts, grammar.Skip())
		}
		if td.Contextual {
			opts = append(opts, grammar.Contextual())
		}
		if td.Lazy {
			opts = append(opts, grammar.Lazy())
		}
		if td.Fragment {
			opts = append(opts, grammar.Fragment())
		}
		if td.LookaheadPattern != "" {
			opts = append(opts, grammar.WithLookahead(td.LookaheadPattern, td.LookaheadWindow))
		}
		pattern := td.Pattern
		if td.Literal != "" {
			if pattern != "" {
				return nil, fmt.Errorf("dsl: terminal %q declares both pattern and literal", td.Name)
			}
			pattern = specgrammar.EscapePattern(td.Literal)
		}
		sym, _, err := b.Terminal(td.Name, pattern, opts...)
		if err != nil {
			return nil, fmt.Errorf("dsl: terminal %q: %w", td.Name, err)
		}
		terms[td.Name] = sym
	}

	resolve := func(name string) (symbol.Symbol, error) {
		if sym, ok := nonTerms[name]; ok {
			return sym, nil
		}
		if sym, ok := terms[name]; ok {
			return sym, nil
		}
		return symbol.SymbolNil, fmt.Errorf("dsl: undeclared symbol %q", name)
	}

	for _, rd := range src.Rules {
		lhs, err := resolve(rd.LHS)
		if err != nil {
			return nil, err
		}
		rhs := make([]symbol.Symbol, 0, len(rd.RHS))
		for _, name := range rd.RHS {
			sym, err := resolve(name)
			if err != nil {
				return nil, err
			}
			rhs = append(rhs, sym)
		}
		b.Rule(lhs, rhs...)
	}

	return b.Build()
}
