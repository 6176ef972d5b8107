// Package lexer implements the derivative-based RegexVec lexer (spec.md
// 4.D): a vector of live regex candidates advanced one byte-class at a
// time, restartable under a restricted set of allowed lexemes.
package lexer

import "github.com/nihei9/cfgcore/rx"

// SkipIdx is the distinguished lexeme idx reserved for SKIP
// (whitespace/comment-like lexemes the lexer may emit between content
// lexemes). Spec.md 3: "Lexeme idx SKIP is special ... idx 0 reserved for
// SKIP."
const SkipIdx = 0

// LexemeSpec is one lexeme's regex plus its lexical flags (spec.md 3/4.E).
type LexemeSpec struct {
	Idx  int
	Expr rx.Ref

	// Greedy lexemes defer emission of a pending match until the vector
	// dies, so the byte that kills the vector belongs to the NEXT lexeme
	// (spec.md 4.E). Lazy lexemes emit as soon as they become nullable, so
	// the triggering byte belongs to the lexeme that just matched.
	Greedy bool

	// Skip marks this lexeme as interchangeable with SkipIdx for priority
	// purposes; it is still a distinct lexeme idx (only idx 0 is SKIP
	// itself).
	Skip bool

	// Contextual is carried over from the lexeme declaration. Vec does not
	// consult it: a contextual lexeme is started and advanced like any other.
	Contextual bool

	// ForcedPrefix, if non-empty, is a byte string every match of this
	// lexeme must begin with. Used by the forced-bytes oracle's
	// has_forced_bytes check on hidden suffixes (spec.md 4.E).
	ForcedPrefix []byte

	// HiddenSuffixLen is the compile-time Window bound this lexeme's
	// lookahead assertion (if any) was built with — the most trailing
	// bytes it could ever consume to confirm a match, and the value
	// rx.MkLookahead's offset/window args were both seeded with. The
	// actual hidden length of one particular match is usually shorter and
	// varies match to match (spec.md 8); lexer.Vec.PossibleHiddenLen
	// computes that at commit time, this field only bounds it.
	HiddenSuffixLen uint32
}
