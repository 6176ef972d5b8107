package recognizer

import (
	"testing"

	"github.com/nihei9/cfgcore/grammar"
	"github.com/nihei9/cfgcore/parser"
)

func buildNumGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder()
	if err := b.SetStart("num"); err != nil {
		t.Fatalf("SetStart: %v", err)
	}
	num, _, err := b.NonTerminal("num")
	if err != nil {
		t.Fatalf("NonTerminal: %v", err)
	}
	digit, _, err := b.Terminal("digit", "[0-9]")
	if err != nil {
		t.Fatalf("Terminal(digit): %v", err)
	}
	b.Rule(num, digit)
	b.Rule(num, num, digit)

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestTrieWalkRollsBackOnFinish(t *testing.T) {
	g := buildNumGrammar(t)
	p, err := parser.New(g, true, parser.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := New(p)

	if !p.TryPushByte('7') {
		t.Fatalf("expected '7' accepted in definitive mode")
	}

	r.TrieStarted()
	if p.Definitive() {
		t.Fatalf("expected speculative mode during a trie walk")
	}
	if !r.TryPushByte('3') {
		t.Fatalf("expected '3' accepted speculatively")
	}
	if !r.TryPushByte('9') {
		t.Fatalf("expected '9' accepted speculatively")
	}
	depthDuringWalk := p.Mark()
	r.TrieFinished()
	if !p.Definitive() {
		t.Fatalf("expected definitive mode restored after trie_finished")
	}
	if p.Mark() == depthDuringWalk {
		t.Fatalf("expected trie_finished to roll the speculative bytes back")
	}

	// The definitively-committed '7' must still be in effect.
	if !p.TryPushByte('4') {
		t.Fatalf("expected '4' to still be accepted after the speculative walk was discarded")
	}
}

func TestSpecialAllowedEOS(t *testing.T) {
	g := buildNumGrammar(t)
	p, err := parser.New(g, true, parser.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := New(p)

	if r.SpecialAllowed("", true) {
		t.Fatalf("expected EOS to be disallowed before any digit is consumed")
	}
	if !p.TryPushByte('5') {
		t.Fatalf("expected '5' accepted")
	}
	if !r.SpecialAllowed("", true) {
		t.Fatalf("expected EOS to be allowed once the parser is accepting")
	}
}
