// Package recognizer adapts a parser.Parser to the trie-walker collaborator
// (spec.md 4.I): try_push_byte/pop_bytes/collapse for speculative descent,
// special_allowed for the end-of-sentence and model-variable escape hatches,
// and trie_started/trie_finished for the definitive<->speculative mode
// switch around a walk.
package recognizer

import (
	"github.com/nihei9/cfgcore/grammar"
	"github.com/nihei9/cfgcore/lexerstack"
	"github.com/nihei9/cfgcore/parser"
)

// Recognizer wraps a single parser.Parser, valid for exactly one trie walk
// at a time (spec.md 5 "a parser instance is the unit of mutability").
type Recognizer struct {
	p *parser.Parser

	walking    bool
	savedDepth lexerstack.Depth
}

// New wraps p. p starts out in definitive mode between walks.
func New(p *parser.Parser) *Recognizer {
	return &Recognizer{p: p}
}

// TryPushByte speculatively pushes b, returning whether it was accepted
// (spec.md 4.I). Must only be called between TrieStarted and TrieFinished.
func (r *Recognizer) TryPushByte(b byte) bool {
	return r.p.TryPushByte(b)
}

// PopBytes undoes n bytes, symmetric with n prior successful TryPushByte
// calls (spec.md 5 "any successful try_push_byte must be paired with a
// pop_bytes(1) before the next mode switch").
func (r *Recognizer) PopBytes(n int) {
	r.p.PopBytes(n)
}

// Collapse marks a commit point; an optimization barrier only.
func (r *Recognizer) Collapse() {
	r.p.Collapse()
}

// SpecialAllowed reports whether tok is allowed outside the ordinary
// byte-trie walk: either it names a model-variable reachable from the
// current row's after-dot symbols, or it is the end-of-sentence token and
// the parser is accepting or the lexer permits EOS right now (spec.md
// 4.I).
func (r *Recognizer) SpecialAllowed(tok string, isEOS bool) bool {
	if isEOS {
		return r.p.IsAccepting() || r.p.LexerAllowsEOS()
	}
	for _, mv := range r.p.ModelVariables() {
		if string(mv) == tok {
			return true
		}
	}
	return false
}

// TrieStarted switches the parser into speculative mode and saves the
// lexer-stack depth to restore on TrieFinished (spec.md 4.I).
func (r *Recognizer) TrieStarted() {
	r.walking = true
	r.savedDepth = r.p.Mark()
	r.p.SetDefinitive(false)
}

// TrieFinished rolls the parser back to the depth saved by TrieStarted and
// switches it back to definitive mode (spec.md 4.I). Any bytes pushed
// during the walk that were not already undone by matching PopBytes calls
// are discarded here, rows and captures included.
func (r *Recognizer) TrieFinished() {
	r.p.RestoreMark(r.savedDepth)
	r.p.SetDefinitive(true)
	r.walking = false
}

// Walking reports whether a trie walk is currently in progress.
func (r *Recognizer) Walking() bool { return r.walking }

// ModelVariables exposes the underlying parser's reachable model variables,
// a convenience for hosts building the special-token candidate set.
func (r *Recognizer) ModelVariables() []grammar.ModelVariable {
	return r.p.ModelVariables()
}
