package rx

import "testing"

// rangeSet builds a ClassSet over the raw byte range [from,to], used in
// these tests as a stand-in for a real alphabet (classes == raw bytes).
func rangeSet(from, to byte) ClassSet {
	var s ClassSet
	for b := int(from); b <= int(to); b++ {
		s.Add(byte(b))
	}
	return s
}

func identity(b byte) byte { return b }

// buildABCDEFG builds a[bc](de|fg).
func buildABCDEFG(s *Set) Ref {
	a := s.MkByte('a')
	bc := s.MkByteSet(rangeSet('b', 'c'))
	de := s.MkConcat(s.MkByte('d'), s.MkByte('e'))
	fg := s.MkConcat(s.MkByte('f'), s.MkByte('g'))
	return s.MkConcat(a, bc, s.MkOr(de, fg))
}

func TestScenarioABCDEFG(t *testing.T) {
	s := NewSet()
	re := buildABCDEFG(s)

	cases := []struct {
		in    string
		match bool
	}{
		{"abde", true},
		{"acfg", true},
		{"abd", false},
		{"abdea", false},
		{"abfg", true},
	}
	for _, c := range cases {
		d := NewDeriver(s, 1000)
		got := d.IsMatch(re, identity, []byte(c.in))
		if got != c.match {
			t.Errorf("IsMatch(%q) = %v, want %v", c.in, got, c.match)
		}
	}
}

// buildAlternatives builds (foo|far|bar|baz).
func buildAlternatives(s *Set) Ref {
	lit := func(w string) Ref {
		args := make([]Ref, len(w))
		for i := 0; i < len(w); i++ {
			args[i] = s.MkByte(w[i])
		}
		return s.MkConcat(args...)
	}
	return s.MkOr(lit("foo"), lit("far"), lit("bar"), lit("baz"))
}

func TestScenarioAlternatives(t *testing.T) {
	s := NewSet()
	re := buildAlternatives(s)

	accept := []string{"foo", "far", "bar", "baz"}
	reject := []string{"fo", "fa", "ba", "faz", "foobar", ""}

	for _, w := range accept {
		d := NewDeriver(s, 1000)
		if !d.IsMatch(re, identity, []byte(w)) {
			t.Errorf("expected %q to match", w)
		}
	}
	for _, w := range reject {
		d := NewDeriver(s, 1000)
		if d.IsMatch(re, identity, []byte(w)) {
			t.Errorf("expected %q to be rejected", w)
		}
	}
}

// buildFuelGrammar builds a(bc+|b[eh])g|.h
func buildFuelGrammar(s *Set) Ref {
	a := s.MkByte('a')
	bcplus, _ := s.MkRepeat(s.MkByte('c'), 1, Unbounded)
	bcplus = s.MkConcat(s.MkByte('b'), bcplus)
	beh := s.MkConcat(s.MkByte('b'), s.MkByteSet(rangeSet('e', 'h')))
	left := s.MkConcat(a, s.MkOr(bcplus, beh), s.MkByte('g'))
	anyByte := s.MkByteSet(rangeSet(0, 255))
	right := s.MkConcat(anyByte, s.MkByte('h'))
	return s.MkOr(left, right)
}

func TestScenarioFuelExhaustion(t *testing.T) {
	s := NewSet()
	re := buildFuelGrammar(s)

	low := NewDeriver(s, 5)
	if low.IsMatch(re, identity, []byte("abcg")) {
		t.Errorf("expected fuel=5 to fail to confirm the match")
	}
	if !low.Exhausted() {
		t.Errorf("expected fuel exhaustion flag to be set")
	}

	high := NewDeriver(s, 200)
	if !high.IsMatch(re, identity, []byte("abcg")) {
		t.Errorf("expected fuel=200 to match abcg")
	}
	if high.Exhausted() {
		t.Errorf("expected no fuel exhaustion at fuel=200")
	}
}

func TestFuelLatchedness(t *testing.T) {
	s := NewSet()
	re := buildFuelGrammar(s)
	d := NewDeriver(s, 1)
	d.IsMatch(re, identity, []byte("abcg"))
	if !d.Exhausted() {
		t.Fatalf("expected exhaustion after fuel=1 on a multi-step grammar")
	}
	if d.IsMatch(re, identity, []byte("")) {
		t.Fatalf("expected a latched deriver to reject everything, even empty input")
	}
}

func TestDoubleNegationElimination(t *testing.T) {
	s := NewSet()
	e := s.MkByte('a')
	if s.MkNot(s.MkNot(e)) != e {
		t.Fatalf("expected Not(Not(e)) == e")
	}
}

func TestRepeatMinGreaterThanMaxErrors(t *testing.T) {
	s := NewSet()
	_, err := s.MkRepeat(s.MkByte('a'), 3, 1)
	if err == nil {
		t.Fatalf("expected an error for min > max")
	}
}

func TestRepeatOfNullableClampsMin(t *testing.T) {
	s := NewSet()
	nullable := s.MkOr(Empty, s.MkByte('a'))
	if !s.IsNullable(nullable) {
		t.Fatalf("expected (a|epsilon) to be nullable")
	}
	ref, err := s.MkRepeat(nullable, 3, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.IsNullable(ref) {
		t.Fatalf("expected Repeat(nullable-e, 3, 5) to remain nullable after clamping min to 0")
	}
}

func TestHashConsingStability(t *testing.T) {
	s := NewSet()
	a1 := s.MkConcat(s.MkByte('a'), s.MkByte('b'))
	a2 := s.MkConcat(s.MkByte('a'), s.MkByte('b'))
	if a1 != a2 {
		t.Fatalf("expected structurally identical expressions to share a Ref")
	}

	or1 := s.MkOr(s.MkByte('x'), s.MkByte('y'))
	or2 := s.MkOr(s.MkByte('y'), s.MkByte('x'))
	if or1 != or2 {
		t.Fatalf("expected Or to be order-independent after sort+dedup")
	}
}

func TestByteAndByteSetSingletonIntern(t *testing.T) {
	s := NewSet()
	if s.MkByte('a') != s.MkByteSet(Single('a')) {
		t.Fatalf("expected Byte(a) and ByteSet({a}) to intern to the same Ref")
	}
}

// buildLookaroundABXX builds [ab]*(?P<stop>xx): spec.md 8's example of a
// lexeme whose hidden suffix is a lookahead assertion rather than a fixed
// literal. A run of 'a'/'b' bytes must not report a match until "xx"
// actually appears.
func buildLookaroundABXX(s *Set) Ref {
	ab := s.MkByteSet(rangeSet('a', 'b'))
	body, _ := s.MkRepeat(ab, 0, Unbounded)
	stop := s.MkConcat(s.MkByte('x'), s.MkByte('x'))
	return s.MkConcat(body, s.MkLookahead(stop, 2, 2))
}

// TestLookaheadRequiresStopToActuallyMatch guards against a Lookahead node
// reporting nullable (and so IsMatch reporting true) before its inner
// pattern has matched: a run of 'a'/'b' bytes alone, with no "xx" in sight,
// must never be accepted (spec.md 8).
func TestLookaheadRequiresStopToActuallyMatch(t *testing.T) {
	s := NewSet()
	re := buildLookaroundABXX(s)

	reject := []string{"", "a", "ab", "aba", "ababab", "abx", "abax"}
	for _, w := range reject {
		d := NewDeriver(s, 1000)
		if d.IsMatch(re, identity, []byte(w)) {
			t.Errorf("IsMatch(%q) = true, want false: \"xx\" never appears", w)
		}
	}

	accept := []string{"xx", "abxx", "ababxx"}
	for _, w := range accept {
		d := NewDeriver(s, 1000)
		if !d.IsMatch(re, identity, []byte(w)) {
			t.Errorf("IsMatch(%q) = false, want true", w)
		}
	}
}

// TestLookaheadOnFailedInnerIsNotNullable exercises MkLookahead's NoMatch
// short-circuit directly: once the inner expression has definitively failed
// (not just "not yet nullable"), the Lookahead node itself must collapse to
// NoMatch rather than linger as a non-nullable-but-still-live node.
func TestLookaheadOnFailedInnerIsNotNullable(t *testing.T) {
	s := NewSet()
	if got := s.MkLookahead(NoMatch, 2, 2); got != NoMatch {
		t.Fatalf("expected MkLookahead(NoMatch, ...) to collapse to NoMatch, got %v", got)
	}
}
