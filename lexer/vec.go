package lexer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nihei9/cfgcore/alphabet"
	"github.com/nihei9/cfgcore/bitset"
	"github.com/nihei9/cfgcore/rx"
)

// StateID is an opaque id into Vec's memoized state table, keyed by
// (sorted live-expression vector, allowed-lexeme bitset) per spec.md 3.
type StateID int32

// DeadState is the sentinel for a lexer state with no live candidates.
const DeadState StateID = -1

type liveEntry struct {
	lexemeIdx int
	expr      rx.Ref
}

type vecState struct {
	live      []liveEntry
	allowed   bitset.Set
	// nullableLexeme is the lowest-idx lexeme among live that is nullable
	// at this state, or -1. Greedy/lazy priority (spec.md 9's open
	// question) is resolved entirely by this field: live is kept sorted by
	// (lexemeIdx, expr), so scanning it in order and taking the first
	// nullable entry always yields the lowest lexeme idx.
	nullableLexeme int
	dead           bool
}

// Vec is the RegexVec lexer: a vector of live expression indices forming a
// union lexer, with per-state allowed-lexeme restriction (spec.md 4.D).
type Vec struct {
	set     *rx.Set
	deriver *rx.Deriver
	alpha   *alphabet.Table
	lexemes []LexemeSpec

	states []vecState
	byKey  map[string]StateID
}

// NewVec builds a RegexVec over the given lexeme specs, sharing set and
// deriver with the rest of the pipeline (so fuel is a single counter
// across lexing, not per-lexeme).
func NewVec(set *rx.Set, deriver *rx.Deriver, alpha *alphabet.Table, lexemes []LexemeSpec) *Vec {
	return &Vec{
		set:     set,
		deriver: deriver,
		alpha:   alpha,
		lexemes: lexemes,
		byKey:   map[string]StateID{},
	}
}

func (v *Vec) intern(live []liveEntry, allowed bitset.Set) StateID {
	sortLive(live)
	key := stateKey(live, allowed)
	if id, ok := v.byKey[key]; ok {
		return id
	}
	nullable := -1
	for _, e := range live {
		if v.set.IsNullable(e.expr) {
			nullable = e.lexemeIdx
			break
		}
	}
	id := StateID(len(v.states))
	v.states = append(v.states, vecState{
		live:           live,
		allowed:        allowed,
		nullableLexeme: nullable,
		dead:           len(live) == 0,
	})
	v.byKey[key] = id
	return id
}

func stateKey(live []liveEntry, allowed bitset.Set) string {
	var b strings.Builder
	for _, e := range live {
		fmt.Fprintf(&b, "%d:%d|", e.lexemeIdx, e.expr)
	}
	b.WriteByte(';')
	for _, w := range allowed {
		fmt.Fprintf(&b, "%x,", w)
	}
	return b.String()
}

func sortLive(live []liveEntry) {
	sort.Slice(live, func(i, j int) bool {
		if live[i].lexemeIdx != live[j].lexemeIdx {
			return live[i].lexemeIdx < live[j].lexemeIdx
		}
		return live[i].expr < live[j].expr
	})
}

// StartState seeds a fresh lexer run restricted to allowed. When firstByte
// is known, any lexeme whose regex cannot possibly start with that byte is
// excluded up front (spec.md 4.D). The Contextual flag is not consulted.
func (v *Vec) StartState(allowed bitset.Set, firstByte *byte) StateID {
	var live []liveEntry
	for _, lx := range v.lexemes {
		if !allowed.Has(lx.Idx) {
			continue
		}
		if firstByte != nil {
			c := v.alpha.Class(*firstByte)
			if v.deriver.Derivative(lx.Expr, c) == rx.NoMatch {
				continue
			}
		}
		live = append(live, liveEntry{lx.Idx, lx.Expr})
	}
	return v.intern(live, allowed)
}

// Result is the outcome of advancing a lexer state by one byte.
type Result struct {
	// Next is the resulting state id, valid unless Dead.
	Next StateID
	// Dead reports that no candidate regex accepted the byte.
	Dead bool
	// MatchLexeme is the lowest-idx lexeme that is nullable at Next, or -1
	// if Next has no pending match yet.
	MatchLexeme int
}

// Advance computes the state reached from state by consuming byte b,
// keeping only candidates whose derivative is not NoMatch and whose
// lexeme remains in the allowed set (spec.md 4.D).
func (v *Vec) Advance(state StateID, b byte) Result {
	st := &v.states[state]
	c := v.alpha.Class(b)

	next := make([]liveEntry, 0, len(st.live))
	for _, e := range st.live {
		d := v.deriver.Derivative(e.expr, c)
		if d == rx.NoMatch {
			continue
		}
		next = append(next, liveEntry{e.lexemeIdx, d})
	}
	if len(next) == 0 {
		return Result{Dead: true, MatchLexeme: -1}
	}
	id := v.intern(next, st.allowed)
	return Result{Next: id, MatchLexeme: v.states[id].nullableLexeme}
}

// ForceLexemeEnd reports the best pending match at state (spec.md 4.D),
// or -1 if none — the caller should treat -1 as Error.
func (v *Vec) ForceLexemeEnd(state StateID) int {
	return v.states[state].nullableLexeme
}

// IsDead reports whether state has no live candidates.
func (v *Vec) IsDead(state StateID) bool {
	return v.states[state].dead
}

// PossibleHiddenLen returns how many of the bytes already consumed for
// lexeme idx's match at state are hidden: Window minus the residual
// Offset carried by idx's now-nullable Lookahead subexpression, or 0 if
// idx has no lookahead (or isn't live at state). This varies match to
// match for the same lexeme — spec.md 8's `[abx]*(?P<stop>[xq]*y)`
// example reports 1 hidden byte for one input and 4 for another — so
// commitLexeme must call this at the moment idx is recognized rather than
// splitting on a single compile-time length.
func (v *Vec) PossibleHiddenLen(state StateID, idx int) int {
	for _, e := range v.states[state].live {
		if e.lexemeIdx != idx {
			continue
		}
		if n, ok := lookaheadHiddenLen(v.set, e.expr); ok {
			return n
		}
	}
	return 0
}

// lookaheadHiddenLen searches ref for a nullable Lookahead node (the one
// responsible for ref itself being nullable) and reports how many bytes
// it has consumed. Or/And nodes are searched because derivConcat/MkOr can
// wrap a Lookahead in either on the way to becoming the overall nullable
// alternative that was actually taken.
func lookaheadHiddenLen(set *rx.Set, ref rx.Ref) (int, bool) {
	expr := set.Get(ref)
	switch expr.Kind {
	case rx.KindLookahead:
		if !expr.Nullable {
			return 0, false
		}
		return expr.Window - expr.Offset, true
	case rx.KindConcat, rx.KindOr, rx.KindAnd:
		for _, a := range expr.Args {
			if n, ok := lookaheadHiddenLen(set, a); ok {
				return n, true
			}
		}
	case rx.KindNot, rx.KindRepeat:
		return lookaheadHiddenLen(set, expr.Arg)
	}
	return 0, false
}
