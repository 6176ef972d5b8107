package lexer

import (
	"testing"

	"github.com/nihei9/cfgcore/alphabet"
	"github.com/nihei9/cfgcore/bitset"
	"github.com/nihei9/cfgcore/rx"
)

// fullAlphabet is the identity table: these tests build ClassSets directly
// over raw byte values (via rx.Set.MkByte), so classes must equal bytes.
func fullAlphabet() *alphabet.Table {
	t := alphabet.Identity()
	return &t
}

func allowedAll(n int) bitset.Set {
	b := bitset.New(n)
	for i := 0; i < n; i++ {
		b.Add(i)
	}
	return b
}

func TestVecLowestLexemeIdxWinsTie(t *testing.T) {
	set := rx.NewSet()
	// Two lexemes both matching "ab": idx 1 and idx 2. At the state after
	// consuming "ab" both are nullable; idx 1 must win.
	ab := set.MkConcat(set.MkByte('a'), set.MkByte('b'))
	lexemes := []LexemeSpec{
		{Idx: 1, Expr: ab},
		{Idx: 2, Expr: ab},
	}
	d := rx.NewDeriver(set, 10000)
	v := NewVec(set, d, fullAlphabet(), lexemes)

	st := v.StartState(allowedAll(3), nil)
	r := v.Advance(st, 'a')
	if r.Dead {
		t.Fatalf("unexpected dead state after 'a'")
	}
	r = v.Advance(r.Next, 'b')
	if r.Dead {
		t.Fatalf("unexpected dead state after 'b'")
	}
	if r.MatchLexeme != 1 {
		t.Fatalf("expected lowest lexeme idx 1 to win the tie, got %v", r.MatchLexeme)
	}
}

func TestVecDeadOnUnmatchedByte(t *testing.T) {
	set := rx.NewSet()
	lexemes := []LexemeSpec{{Idx: 1, Expr: set.MkByte('a')}}
	d := rx.NewDeriver(set, 1000)
	v := NewVec(set, d, fullAlphabet(), lexemes)

	st := v.StartState(allowedAll(2), nil)
	r := v.Advance(st, 'z')
	if !r.Dead {
		t.Fatalf("expected a dead state for an unmatched byte")
	}
}

func TestVecStartStateFiltersByFirstByte(t *testing.T) {
	set := rx.NewSet()
	lexemes := []LexemeSpec{
		{Idx: 1, Expr: set.MkByte('a')},
		{Idx: 2, Expr: set.MkByte('b')},
	}
	d := rx.NewDeriver(set, 1000)
	v := NewVec(set, d, fullAlphabet(), lexemes)

	fb := byte('a')
	st := v.StartState(allowedAll(3), &fb)
	r := v.Advance(st, 'a')
	if r.Dead {
		t.Fatalf("expected lexeme 1 to survive first-byte filtering on 'a'")
	}
	if r.MatchLexeme != 1 {
		t.Fatalf("expected only lexeme 1 to remain live, got match %v", r.MatchLexeme)
	}
}

// lookaheadLexeme builds the spec.md 8 example [ab]*(?P<stop>xx): a body of
// zero or more 'a'/'b' bytes, followed by a hidden-suffix assertion that the
// next two bytes are "xx" (never consumed into the visible match itself).
func lookaheadLexeme(set *rx.Set) rx.Ref {
	ab := set.MkByteSet(rx.Single('a').Union(rx.Single('b')))
	body, err := set.MkRepeat(ab, 0, rx.Unbounded)
	if err != nil {
		panic(err)
	}
	stop := set.MkConcat(set.MkByte('x'), set.MkByte('x'))
	return set.MkConcat(body, set.MkLookahead(stop, 2, 2))
}

// TestLookaheadDoesNotMatchBeforeStopAppears guards against the bug where
// MkLookahead hardcoded Nullable: true regardless of whether the stop
// pattern had actually matched: "ab" alone must not report a match, since
// "xx" never appeared (spec.md 8).
func TestLookaheadDoesNotMatchBeforeStopAppears(t *testing.T) {
	set := rx.NewSet()
	lexemes := []LexemeSpec{{Idx: 1, Expr: lookaheadLexeme(set)}}
	d := rx.NewDeriver(set, 1000)
	v := NewVec(set, d, fullAlphabet(), lexemes)

	st := v.StartState(allowedAll(2), nil)
	for _, b := range []byte("ab") {
		r := v.Advance(st, b)
		if r.Dead {
			t.Fatalf("unexpected dead state after %q", b)
		}
		if r.MatchLexeme != -1 {
			t.Fatalf("byte %q: expected no match before \"xx\" appears, got match %v", b, r.MatchLexeme)
		}
		st = r.Next
	}
	// One "x" is still not a complete stop sequence.
	r := v.Advance(st, 'x')
	if r.Dead {
		t.Fatalf("unexpected dead state after a single 'x'")
	}
	if r.MatchLexeme != -1 {
		t.Fatalf("expected no match after a single 'x', got match %v", r.MatchLexeme)
	}
}

// TestPossibleHiddenLen drives the same lexeme through to a real match and
// checks that the hidden length reported is the actual number of bytes the
// stop assertion consumed for this particular match, not a static
// compile-time constant (spec.md 8).
func TestPossibleHiddenLen(t *testing.T) {
	set := rx.NewSet()
	lexemes := []LexemeSpec{{Idx: 1, Expr: lookaheadLexeme(set), HiddenSuffixLen: 2}}
	d := rx.NewDeriver(set, 1000)
	v := NewVec(set, d, fullAlphabet(), lexemes)

	st := v.StartState(allowedAll(2), nil)
	var last Result
	for _, b := range []byte("abxx") {
		last = v.Advance(st, b)
		if last.Dead {
			t.Fatalf("unexpected dead state after %q", b)
		}
		st = last.Next
	}
	if last.MatchLexeme != 1 {
		t.Fatalf("expected lexeme 1 to match after \"abxx\", got %v", last.MatchLexeme)
	}
	if got := v.PossibleHiddenLen(st, 1); got != 2 {
		t.Fatalf("expected the two-byte \"xx\" stop to report hidden len 2, got %v", got)
	}
}
