package rx

// Deriver computes Brzozowski-style byte-class derivatives of expressions
// in a Set, memoized per (expr, class) pair and bounded by a shared fuel
// counter (spec.md 4.C).
//
// Derivative(e, c) is the expression matching every suffix s such that
// c·s matches e.
type Deriver struct {
	set     *Set
	fuel    uint64
	spent   bool
	memo    map[derivKey]Ref
}

type derivKey struct {
	e Ref
	c byte
}

// NewDeriver returns a Deriver over set with the given fuel budget. Fuel is
// scoped to this Deriver; construct a new one (or call Reset) per request.
func NewDeriver(set *Set, fuel uint64) *Deriver {
	return &Deriver{set: set, fuel: fuel, memo: map[derivKey]Ref{}}
}

// Reset rearms the fuel counter and clears the exhaustion flag, but keeps
// the memo table (memoized results don't depend on remaining fuel, only on
// (e, c), so they remain valid).
func (d *Deriver) Reset(fuel uint64) {
	d.fuel = fuel
	d.spent = false
}

// Exhausted reports whether fuel ran out on some prior call. Latched: once
// true, it never clears except via Reset.
func (d *Deriver) Exhausted() bool {
	return d.spent
}

// Derivative returns the derivative of e by byte-class c. On fuel
// exhaustion it returns NoMatch and latches Exhausted.
func (d *Deriver) Derivative(e Ref, c byte) Ref {
	if d.spent {
		return NoMatch
	}
	if r, ok := d.memo[derivKey{e, c}]; ok {
		return r
	}
	if d.fuel == 0 {
		d.spent = true
		return NoMatch
	}
	d.fuel--

	r := d.compute(e, c)
	d.memo[derivKey{e, c}] = r
	return r
}

func (d *Deriver) compute(e Ref, c byte) Ref {
	s := d.set
	expr := s.Get(e)
	switch expr.Kind {
	case KindEmptyString, KindNoMatch:
		return NoMatch
	case KindAnyString:
		return Any
	case KindNonEmptyString:
		return Any
	case KindByteSet:
		if expr.Set.Has(c) {
			return Empty
		}
		return NoMatch
	case KindConcat:
		return d.derivConcat(expr.Args, c)
	case KindOr:
		ds := make([]Ref, len(expr.Args))
		for i, a := range expr.Args {
			ds[i] = d.Derivative(a, c)
		}
		return s.MkOr(ds...)
	case KindAnd:
		ds := make([]Ref, len(expr.Args))
		for i, a := range expr.Args {
			ds[i] = d.Derivative(a, c)
		}
		return s.MkAnd(ds...)
	case KindNot:
		return s.MkNot(d.Derivative(expr.Arg, c))
	case KindRepeat:
		return d.derivRepeat(expr, c)
	case KindLookahead:
		if expr.Offset <= 0 {
			// A satisfied lookahead behaves like EmptyString from here on;
			// it has no further bytes to consume.
			return NoMatch
		}
		inner := d.Derivative(expr.Arg, c)
		return s.MkLookahead(inner, expr.Offset-1, expr.Window)
	default:
		return NoMatch
	}
}

// derivConcat dispatches the derivative into the head of a concatenation,
// falling through into the tail whenever the head is nullable (the byte
// may instead be the first byte of the tail).
func (d *Deriver) derivConcat(args []Ref, c byte) Ref {
	s := d.set
	head := args[0]
	rest := args[1:]
	var tailRef Ref
	if len(rest) == 0 {
		tailRef = Empty
	} else {
		tailRef = s.MkConcat(rest...)
	}

	dHead := d.Derivative(head, c)
	headDeriv := s.MkConcat(dHead, tailRef)
	if !s.IsNullable(head) {
		return headDeriv
	}
	return s.MkOr(headDeriv, d.Derivative(tailRef, c))
}

// derivRepeat decrements max/min: Repeat(e,min,max)'s derivative by c is
// Derivative(e,c) followed by Repeat(e, min-1, max-1) (clamped at 0/
// Unbounded).
func (d *Deriver) derivRepeat(expr *Expr, c byte) Ref {
	s := d.set
	dBody := d.Derivative(expr.Arg, c)
	nextMin := expr.Min - 1
	if nextMin < 0 {
		nextMin = 0
	}
	nextMax := expr.Max
	if nextMax != Unbounded {
		nextMax--
		if nextMax < 0 {
			return NoMatch
		}
	}
	tail, err := s.MkRepeat(expr.Arg, nextMin, nextMax)
	if err != nil {
		return NoMatch
	}
	return s.MkConcat(dBody, tail)
}

// IsMatch reports whether b fully matches e, ignoring fuel exhaustion
// except that an exhausted Deriver always reports false (spec.md 8,
// invariant 7: "once the lexer error flag is set ... all subsequent
// matches return false").
func (d *Deriver) IsMatch(e Ref, alphabet func(byte) byte, b []byte) bool {
	cur := e
	for _, raw := range b {
		c := raw
		if alphabet != nil {
			c = alphabet(raw)
		}
		cur = d.Derivative(cur, c)
		if d.spent {
			return false
		}
	}
	return !d.spent && d.set.IsNullable(cur)
}
