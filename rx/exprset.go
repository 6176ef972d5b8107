package rx

import (
	"fmt"
	"sort"
	"strings"
)

// Sentinel refs, fixed at construction time, matching spec.md 3's
// "distinguished sentinels EMPTY, NO_MATCH, ANY, NON_EMPTY have fixed
// indices."
const (
	Empty    Ref = 0
	NoMatch  Ref = 1
	Any      Ref = 2
	NonEmpty Ref = 3
)

// Set is the hash-consing arena: Expr -> stable Ref. Construction applies
// the algebraic simplifications spec.md 4.B lists (flatten associative
// nodes, sort & dedup Or/And children, fuse byte/byteset children of Or,
// dedupe Lookahead by inner, clamp Repeat, double-negation elimination,
// identity/absorbing elements). Any two semantically-equal expressions
// built through the constructors below yield the same Ref.
type Set struct {
	exprs []Expr
	index map[string]Ref
}

// NewSet returns a Set pre-populated with the four sentinels.
func NewSet() *Set {
	s := &Set{index: map[string]Ref{}}
	s.intern(Expr{Kind: KindEmptyString, Nullable: true})
	s.intern(Expr{Kind: KindNoMatch, Nullable: false})
	s.intern(Expr{Kind: KindAnyString, Nullable: true})
	s.intern(Expr{Kind: KindNonEmptyString, Nullable: false})
	return s
}

// Get returns the Expr stored at ref. O(1).
func (s *Set) Get(ref Ref) *Expr {
	return &s.exprs[ref]
}

// IsNullable reports whether ref matches the empty string. O(1).
func (s *Set) IsNullable(ref Ref) bool {
	return s.exprs[ref].Nullable
}

// Tag reports ref's variant name. O(1).
func (s *Set) Tag(ref Ref) string {
	return s.exprs[ref].Tag()
}

// Args returns ref's child refs, if any. O(1).
func (s *Set) Args(ref Ref) []Ref {
	return s.exprs[ref].Args
}

func (s *Set) intern(e Expr) Ref {
	key := exprKey(e)
	if ref, ok := s.index[key]; ok {
		return ref
	}
	ref := Ref(len(s.exprs))
	s.exprs = append(s.exprs, e)
	s.index[key] = ref
	return ref
}

func exprKey(e Expr) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", e.Kind)
	switch e.Kind {
	case KindByteSet:
		fmt.Fprintf(&b, ":%x:%x:%x:%x", e.Set[0], e.Set[1], e.Set[2], e.Set[3])
	case KindConcat, KindOr, KindAnd:
		for _, a := range e.Args {
			fmt.Fprintf(&b, ":%d", a)
		}
	case KindNot:
		fmt.Fprintf(&b, ":%d", e.Arg)
	case KindRepeat:
		fmt.Fprintf(&b, ":%d:%d:%d", e.Arg, e.Min, e.Max)
	case KindLookahead:
		fmt.Fprintf(&b, ":%d:%d:%d", e.Arg, e.Offset, e.Window)
	}
	return b.String()
}

// MkByteSet interns a byte-class set, collapsing the empty set to NoMatch.
func (s *Set) MkByteSet(set ClassSet) Ref {
	if set.Empty() {
		return NoMatch
	}
	return s.intern(Expr{Kind: KindByteSet, Set: set, Nullable: false})
}

// MkByte interns a single byte class. It yields the same Ref as
// MkByteSet(Single(c)).
func (s *Set) MkByte(c byte) Ref {
	return s.MkByteSet(Single(c))
}

// MkConcat interns the concatenation of args in order, flattening nested
// Concats, dropping EmptyString (Concat's identity element), and
// collapsing to NoMatch if any argument is NoMatch (Concat's absorbing
// element).
func (s *Set) MkConcat(args ...Ref) Ref {
	flat := make([]Ref, 0, len(args))
	for _, a := range args {
		if a == NoMatch {
			return NoMatch
		}
		if a == Empty {
			continue
		}
		if s.exprs[a].Kind == KindConcat {
			flat = append(flat, s.exprs[a].Args...)
		} else {
			flat = append(flat, a)
		}
	}
	switch len(flat) {
	case 0:
		return Empty
	case 1:
		return flat[0]
	}
	return s.intern(Expr{Kind: KindConcat, Args: flat, Nullable: s.allNullable(flat)})
}

// MkOr interns the union (alternation) of args, flattening nested Ors,
// sorting and deduping children, fusing any ByteSet children into one, and
// dropping NoMatch (Or's identity element).
func (s *Set) MkOr(args ...Ref) Ref {
	var flat []Ref
	var fused ClassSet
	hasFused := false
	for _, a := range args {
		if a == NoMatch {
			continue
		}
		if s.exprs[a].Kind == KindOr {
			for _, c := range s.exprs[a].Args {
				if s.exprs[c].Kind == KindByteSet {
					fused = fused.Union(s.exprs[c].Set)
					hasFused = true
				} else {
					flat = append(flat, c)
				}
			}
			continue
		}
		if s.exprs[a].Kind == KindByteSet {
			fused = fused.Union(s.exprs[a].Set)
			hasFused = true
			continue
		}
		flat = append(flat, a)
	}
	if hasFused {
		flat = append(flat, s.MkByteSet(fused))
	}
	flat = dedupSorted(flat)
	switch len(flat) {
	case 0:
		return NoMatch
	case 1:
		return flat[0]
	}
	return s.intern(Expr{Kind: KindOr, Args: flat, Nullable: s.anyNullable(flat)})
}

// MkAnd interns the intersection of args, flattening nested Ands, sorting
// and deduping children, and collapsing to NoMatch if any argument is
// NoMatch (And's absorbing element). And() with no non-trivial arguments is
// the universal language, AnyString (And's identity element).
func (s *Set) MkAnd(args ...Ref) Ref {
	var flat []Ref
	for _, a := range args {
		if a == NoMatch {
			return NoMatch
		}
		if a == Any {
			continue
		}
		if s.exprs[a].Kind == KindAnd {
			flat = append(flat, s.exprs[a].Args...)
		} else {
			flat = append(flat, a)
		}
	}
	flat = dedupSorted(flat)
	switch len(flat) {
	case 0:
		return Any
	case 1:
		return flat[0]
	}
	return s.intern(Expr{Kind: KindAnd, Args: flat, Nullable: s.allNullable(flat)})
}

// MkNot interns the complement of e, applying double-negation elimination
// and the complements of the four sentinels.
func (s *Set) MkNot(e Ref) Ref {
	switch e {
	case NoMatch:
		return Any
	case Any:
		return NoMatch
	case Empty:
		return NonEmpty
	case NonEmpty:
		return Empty
	}
	if s.exprs[e].Kind == KindNot {
		return s.exprs[e].Arg
	}
	return s.intern(Expr{Kind: KindNot, Arg: e, Nullable: !s.exprs[e].Nullable})
}

// MkRepeat interns e repeated between min and max times (max == Unbounded
// for no upper bound). It errors if min > max (both bounded), collapses
// max == 0 to EmptyString, and clamps min to 0 when e is nullable (an
// already-nullable body makes a positive lower bound unobservable).
func (s *Set) MkRepeat(e Ref, min, max int) (Ref, error) {
	if max != Unbounded && min > max {
		return NoMatch, fmt.Errorf("rx: repeat min %d > max %d", min, max)
	}
	if max == 0 {
		return Empty, nil
	}
	if s.exprs[e].Nullable && min > 0 {
		min = 0
	}
	if e == NoMatch {
		if min == 0 {
			return Empty, nil
		}
		return NoMatch, nil
	}
	nullable := min == 0 || s.exprs[e].Nullable
	return s.intern(Expr{Kind: KindRepeat, Arg: e, Min: min, Max: max, Nullable: nullable}), nil
}

// MkLookahead interns a zero-width lookahead assertion on e: offset bytes
// of window budget remain before the assertion must resolve or fail, out
// of a fixed total of window (offset == window at the initial call; the
// Deriver's KindLookahead case decrements offset by one per byte while
// keeping window unchanged, so window - offset is always how many bytes
// of this assertion have actually been consumed so far — spec.md 8's
// variable-length hidden-suffix examples rely on this varying per match).
// It is nullable iff e itself is nullable (the stop pattern has actually
// matched); a Lookahead whose inner expression has failed outright (e.g.
// derived down to NoMatch) is not nullable; an already-nullable e is
// rewritten to EmptyString since matching it at all is then guaranteed,
// and EmptyString carries the same nullability e did.
func (s *Set) MkLookahead(e Ref, offset, window int) Ref {
	if e == NoMatch {
		return NoMatch
	}
	nullable := s.exprs[e].Nullable
	if nullable {
		e = Empty
	}
	return s.intern(Expr{Kind: KindLookahead, Arg: e, Offset: offset, Window: window, Nullable: nullable})
}

func (s *Set) allNullable(refs []Ref) bool {
	for _, r := range refs {
		if !s.exprs[r].Nullable {
			return false
		}
	}
	return true
}

func (s *Set) anyNullable(refs []Ref) bool {
	for _, r := range refs {
		if s.exprs[r].Nullable {
			return true
		}
	}
	return false
}

func dedupSorted(refs []Ref) []Ref {
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
	out := refs[:0]
	var last Ref = -1
	first := true
	for _, r := range refs {
		if first || r != last {
			out = append(out, r)
			last = r
			first = false
		}
	}
	return out
}
