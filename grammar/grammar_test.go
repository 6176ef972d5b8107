package grammar

import "testing"

// buildDigits builds num -> digit digit* ; digit -> "[0-9]" ;
func buildDigits(t *testing.T) *Grammar {
	t.Helper()
	b := NewBuilder()
	if err := b.SetStart("num"); err != nil {
		t.Fatalf("SetStart: %v", err)
	}
	num, numProps, err := b.NonTerminal("num")
	if err != nil {
		t.Fatalf("NonTerminal(num): %v", err)
	}
	numProps.CaptureName = "value"

	digit, _, err := b.Terminal("digit", "[0-9]")
	if err != nil {
		t.Fatalf("Terminal(digit): %v", err)
	}
	ws, _, err := b.Terminal("ws", "[ \t]+", Skip())
	if err != nil {
		t.Fatalf("Terminal(ws): %v", err)
	}
	_ = ws

	b.Rule(num, digit)
	b.Rule(num, num, digit)

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestBuilderBindsTerminalsToLexemes(t *testing.T) {
	g := buildDigits(t)

	digitSym, ok := g.Symbols.Reader().ToSymbol("digit")
	if !ok {
		t.Fatalf("expected digit symbol to be registered")
	}
	idx, ok := g.SymbolToLexemeIdx(digitSym)
	if !ok {
		t.Fatalf("expected digit to be bound to a lexeme idx")
	}
	back, ok := g.LexemeIdxToSymbol(idx)
	if !ok || back != digitSym {
		t.Fatalf("expected LexemeIdxToSymbol to invert SymbolToLexemeIdx")
	}
}

func TestBuilderSkipGetsSkipIdx(t *testing.T) {
	g := buildDigits(t)
	wsSym, ok := g.Symbols.Reader().ToSymbol("ws")
	if !ok {
		t.Fatalf("expected ws symbol to be registered")
	}
	idx, ok := g.SymbolToLexemeIdx(wsSym)
	if !ok {
		t.Fatalf("expected ws to be bound to a lexeme idx")
	}
	if idx != 0 {
		t.Fatalf("expected the only Skip lexeme to take idx 0, got %v", idx)
	}
}

func TestRuleIdxAdvanceAndAtEnd(t *testing.T) {
	g := buildDigits(t)
	idx := RuleIdx{Rule: 1, Dot: 0}
	if g.AtEnd(idx) {
		t.Fatalf("expected dot 0 of a 2-symbol rule to not be at end")
	}
	_, ok := g.AfterDot(idx)
	if !ok {
		t.Fatalf("expected a symbol after dot 0")
	}
	idx = idx.Advance().Advance()
	if !g.AtEnd(idx) {
		t.Fatalf("expected dot 2 of a 2-symbol rule to be at end")
	}
}

func TestRuleIdxPackRoundTrip(t *testing.T) {
	idx := RuleIdx{Rule: 7, Dot: 3}
	if got := UnpackRuleIdx(idx.Pack()); got != idx {
		t.Fatalf("expected Pack/UnpackRuleIdx to round-trip, got %+v", got)
	}
}

func TestRulesByLHSIndexesBothRules(t *testing.T) {
	g := buildDigits(t)
	num, _ := g.Symbols.Reader().ToSymbol("num")
	rules := g.RulesByLHS[num]
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules for num, got %v", len(rules))
	}
}

// TestComputeNullablePropagatesThroughAChain builds opt -> maybe ;
// maybe -> (empty) | digit, and checks that opt is marked nullable purely
// through maybe's emptiness, not a direct empty rule of its own.
func TestComputeNullablePropagatesThroughAChain(t *testing.T) {
	b := NewBuilder()
	if err := b.SetStart("opt"); err != nil {
		t.Fatalf("SetStart: %v", err)
	}
	opt, _, err := b.NonTerminal("opt")
	if err != nil {
		t.Fatalf("NonTerminal(opt): %v", err)
	}
	maybe, _, err := b.NonTerminal("maybe")
	if err != nil {
		t.Fatalf("NonTerminal(maybe): %v", err)
	}
	digit, _, err := b.Terminal("digit", "[0-9]")
	if err != nil {
		t.Fatalf("Terminal(digit): %v", err)
	}

	b.Rule(opt, maybe)
	b.Rule(maybe)
	b.Rule(maybe, digit)

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !g.Props[maybe].Nullable {
		t.Fatalf("expected maybe (has an empty-RHS rule) to be nullable")
	}
	if !g.Props[opt].Nullable {
		t.Fatalf("expected opt to be nullable via its chain through maybe")
	}
	digitSym, _ := g.Symbols.Reader().ToSymbol("digit")
	if g.Props[digitSym].Nullable {
		t.Fatalf("expected a terminal to never be marked nullable")
	}
}
