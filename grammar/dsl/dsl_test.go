package dsl

import (
	"testing"

	specgrammar "github.com/nihei9/cfgcore/spec/grammar"
)

func TestLoadBuildsRulesAndLexemes(t *testing.T) {
	src := &specgrammar.GrammarSource{
		Start: "num",
		NonTerminals: []specgrammar.NonTerminalDecl{
			{Name: "num", CaptureName: "value"},
		},
		Terminals: []specgrammar.TerminalDecl{
			{Name: "digit", Pattern: "[0-9]"},
			{Name: "ws", Pattern: "[ \t]+", Skip: true},
		},
		Rules: []specgrammar.RuleDecl{
			{LHS: "num", RHS: []string{"digit"}},
			{LHS: "num", RHS: []string{"num", "digit"}},
		},
	}

	g, err := Load(src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	numSym, ok := g.Symbols.Reader().ToSymbol("num")
	if !ok {
		t.Fatalf("expected num symbol to be registered")
	}
	if numSym != g.StartSymbol {
		t.Fatalf("expected num to be the start symbol")
	}
	if g.Props[numSym].CaptureName != "value" {
		t.Fatalf("expected num's capture name to round-trip")
	}

	digitSym, ok := g.Symbols.Reader().ToSymbol("digit")
	if !ok {
		t.Fatalf("expected digit symbol to be registered")
	}
	if _, ok := g.SymbolToLexemeIdx(digitSym); !ok {
		t.Fatalf("expected digit to be bound to a lexeme")
	}

	if len(g.RulesByLHS[numSym]) != 2 {
		t.Fatalf("expected 2 rules for num, got %v", len(g.RulesByLHS[numSym]))
	}
}

func TestLoadEscapesLiteralTerminals(t *testing.T) {
	src := &specgrammar.GrammarSource{
		Start: "expr",
		Terminals: []specgrammar.TerminalDecl{
			{Name: "plus", Literal: "+"},
		},
		Rules: []specgrammar.RuleDecl{
			{LHS: "expr", RHS: []string{"plus"}},
		},
	}
	g, err := Load(src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	plusSym, ok := g.Symbols.Reader().ToSymbol("plus")
	if !ok {
		t.Fatalf("expected plus symbol to be registered")
	}
	if _, ok := g.SymbolToLexemeIdx(plusSym); !ok {
		t.Fatalf("expected plus to be bound to a lexeme (a bare + would otherwise be an invalid, unescaped regex)")
	}
}

func TestLoadRejectsBothPatternAndLiteral(t *testing.T) {
	src := &specgrammar.GrammarSource{
		Start: "expr",
		Terminals: []specgrammar.TerminalDecl{
			{Name: "plus", Pattern: `\+`, Literal: "+"},
		},
		Rules: []specgrammar.RuleDecl{
			{LHS: "expr", RHS: []string{"plus"}},
		},
	}
	if _, err := Load(src); err == nil {
		t.Fatalf("expected an error when both pattern and literal are set")
	}
}

func TestLoadRejectsUndeclaredSymbol(t *testing.T) {
	src := &specgrammar.GrammarSource{
		Start: "num",
		Terminals: []specgrammar.TerminalDecl{
			{Name: "digit", Pattern: "[0-9]"},
		},
		Rules: []specgrammar.RuleDecl{
			{LHS: "num", RHS: []string{"nope"}},
		},
	}
	if _, err := Load(src); err == nil {
		t.Fatalf("expected an error for an undeclared RHS symbol")
	}
}
