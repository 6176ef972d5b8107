package parser

import (
	"github.com/nihei9/cfgcore/earley"
	"github.com/nihei9/cfgcore/lexer"
	"github.com/nihei9/cfgcore/lexerstack"
)

// checkpoint captures everything TryPushByte can mutate mid-attempt, so a
// chain that commits one or more lexemes before ultimately failing on the
// final retry byte can be unwound to a true no-op (spec.md 4.E "Error:
// caller pops no bytes, nothing pushed").
type checkpoint struct {
	stack         lexerstack.Depth
	numRows       int
	rowCommitLen  int
	lexemeBytes   []byte
	greedyPending *greedyMatch
	fatal         bool
}

func (p *Parser) snapshot() checkpoint {
	return checkpoint{
		stack:         p.stack.Mark(),
		numRows:       p.core.NumRows(),
		rowCommitLen:  len(p.rowCommitLen),
		lexemeBytes:   append([]byte(nil), p.lexemeBytes...),
		greedyPending: p.greedyPending,
		fatal:         p.fatal,
	}
}

func (p *Parser) restore(cp checkpoint) {
	p.stack.Restore(cp.stack)
	p.core.TruncateRows(cp.numRows)
	p.rowCommitLen = p.rowCommitLen[:cp.rowCommitLen]
	p.lexemeBytes = cp.lexemeBytes
	p.greedyPending = cp.greedyPending
	p.fatal = cp.fatal
}

// TryPushByte runs the byte-try state machine (spec.md 4.E) for one byte:
// advance the top lexer-stack state, and if the vector dies, fall back to
// the remembered greedy match (or an immediate force_lexeme_end) before
// retrying b against the row that match opens. Returns false (a no-op) if
// no candidate accepts b anywhere along that chain — any lexeme commits
// made while chasing that chain are unwound first.
func (p *Parser) TryPushByte(b byte) bool {
	cp := p.snapshot()
	if p.tryPushByteInner(b) {
		return true
	}
	p.restore(cp)
	return false
}

func (p *Parser) tryPushByteInner(b byte) bool {
	for {
		top := p.stack.Top()
		if p.vec.IsDead(top.LexerState) {
			return false
		}
		if p.opts.Stats != nil {
			p.opts.Stats.AddLexerOp()
		}
		res := p.vec.Advance(top.LexerState, b)
		if !res.Dead {
			p.lexemeBytes = append(p.lexemeBytes, b)
			if res.MatchLexeme < 0 {
				p.stack.Push(top.RowIdx, res.Next, b)
				return true
			}
			spec := p.g.Lexemes[p.lexemeSlot(res.MatchLexeme)]
			if spec.Greedy {
				p.stack.Push(top.RowIdx, res.Next, b)
				p.greedyPending = &greedyMatch{idx: res.MatchLexeme, rowIdx: top.RowIdx, byteLen: len(p.lexemeBytes), state: res.Next}
				return true
			}
			// Lazy: b belongs to this lexeme. Push b's own entry first so
			// commitLexeme's retarget lands on it, keeping stack depth in
			// 1:1 step with consumed bytes.
			p.stack.Push(top.RowIdx, res.Next, b)
			visible := append([]byte(nil), p.lexemeBytes...)
			if !p.commitLexeme(res.MatchLexeme, visible, nil, res.Next) {
				return false
			}
			return true
		}

		// Dead: b itself was never consumed here. Fall back to a
		// remembered greedy match at this same row, or an immediate
		// force_lexeme_end (a match we never needed to remember because a
		// lazy lexeme would have emitted already) — then retry b against
		// the row that opens, seeded with b as its first byte.
		if p.greedyPending != nil && p.greedyPending.rowIdx == top.RowIdx {
			pm := p.greedyPending
			visible := append([]byte(nil), p.lexemeBytes[:pm.byteLen]...)
			p.greedyPending = nil
			if !p.commitLexeme(pm.idx, visible, &b, pm.state) {
				return false
			}
			continue // retry b against the freshly opened row
		}
		if m := p.vec.ForceLexemeEnd(top.LexerState); m >= 0 {
			visible := append([]byte(nil), p.lexemeBytes...)
			if !p.commitLexeme(m, visible, &b, top.LexerState) {
				return false
			}
			continue
		}
		return false
	}
}

// lexemeSlot finds spec index in g.Lexemes for a lexeme idx (idxs and slot
// positions coincide for every grammar built by grammar.Builder, but a
// defensive lookup keeps this correct for a hand-assembled grammar too).
func (p *Parser) lexemeSlot(idx int) int {
	for i, l := range p.g.Lexemes {
		if l.Idx == idx {
			return i
		}
	}
	return 0
}

// commitLexeme splits visible's hidden tail, scans it into the Earley
// core, and retargets the lexer-stack top onto the newly opened row with
// a fresh start state (spec.md 4.E "push start-state for the new row
// seeded with transition_byte (greedy) or None (lazy)"). seed is the
// transition byte for the greedy case, nil for lazy. matchState is the
// lexer.Vec state idx was recognized at, which PossibleHiddenLen queries
// for idx's actual hidden length at this particular match — a lookahead
// lexeme's hidden length varies match to match, so a single compile-time
// constant can't stand in for it (spec.md 8).
func (p *Parser) commitLexeme(idx int, visible []byte, seed *byte, matchState lexer.StateID) bool {
	hiddenLen := p.vec.PossibleHiddenLen(matchState, idx)
	if hiddenLen > len(visible) {
		hiddenLen = len(visible)
	}
	vis := visible[:len(visible)-hiddenLen]
	hid := visible[len(visible)-hiddenLen:]

	ok, err := p.core.Scan(earley.PreLexeme{Idx: idx, VisibleBytes: vis, HiddenBytes: hid})
	if err != nil {
		if _, isOverflow := err.(earley.ErrRowOverflow); isOverflow {
			p.fatal = true
		}
		return false
	}
	if !ok {
		return false
	}
	newRowIdx := p.core.NumRows() - 1
	p.rowCommitLen = append(p.rowCommitLen, p.stack.Len())
	if p.opts.Stats != nil {
		p.opts.Stats.AddRow(len(p.core.Rows[newRowIdx].Items))
		p.opts.Stats.AddBytes(p.definitive, len(vis), len(hid))
	}

	start := p.vec.StartState(p.core.Rows[newRowIdx].AllowedLexemes, seed)
	p.stack.RetargetTop(newRowIdx, start)
	p.lexemeBytes = nil
	return true
}

// PopBytes undoes exactly n bytes, symmetric with n prior successful
// TryPushByte calls (spec.md 4.I "pop_bytes"). Popping within the
// in-progress lexeme is exact; popping across a row boundary rolls the
// Earley core back to the row committed at or before the target depth and
// resets in-progress-lexeme tracking (an accepted simplification: see
// DESIGN.md).
func (p *Parser) PopBytes(n int) {
	target := p.stack.Len() - n
	if target < 0 {
		target = 0
	}
	p.restoreToDepth(target)
}

// Mark returns the current lexer-stack depth, for a later RestoreMark
// (spec.md 4.I "pop lexer-stack back to saved depth" on trie_finished).
func (p *Parser) Mark() lexerstack.Depth { return p.stack.Mark() }

// RestoreMark rolls the parser back to the depth saved by Mark, including
// any rows and captures committed since, the same way PopBytes does for a
// relative byte count.
func (p *Parser) RestoreMark(d lexerstack.Depth) {
	p.restoreToDepth(int(d) - 1)
}

func (p *Parser) restoreToDepth(target int) {
	for len(p.rowCommitLen) > 1 && p.rowCommitLen[len(p.rowCommitLen)-1] > target {
		p.rowCommitLen = p.rowCommitLen[:len(p.rowCommitLen)-1]
		p.core.TruncateRows(p.core.NumRows() - 1)
	}
	n := p.stack.Len() - target
	p.stack.Pop(n)
	if n <= 0 {
		return
	}
	if n <= len(p.lexemeBytes) {
		p.lexemeBytes = p.lexemeBytes[:len(p.lexemeBytes)-n]
	} else {
		p.lexemeBytes = nil
	}
	p.greedyPending = nil
}

// Collapse marks a commit point; purely an optimization barrier at this
// layer (spec.md 4.I) — there is no speculative scratch above num_rows()
// to reclaim, since TruncateRows already drops rows eagerly on pop.
func (p *Parser) Collapse() {}

// ForcedByte returns the unique byte that is the only one TryPushByte would
// accept right now, or false if zero or more than one byte would be
// accepted (spec.md 4.F).
func (p *Parser) ForcedByte() (byte, bool) {
	var found byte
	count := 0
	for b := 0; b < 256; b++ {
		if p.TryPushByte(byte(b)) {
			count++
			if count > 1 {
				p.PopBytes(1)
				return 0, false
			}
			found = byte(b)
			p.PopBytes(1)
		}
	}
	return found, count == 1
}

// ForceBytes repeatedly applies ForcedByte, committing definitively, until
// no single byte is forced (spec.md 4.F). This is how the decoder skips
// past deterministic prefixes without consulting the model.
func (p *Parser) ForceBytes() []byte {
	var out []byte
	for {
		b, ok := p.ForcedByte()
		if !ok {
			return out
		}
		if !p.TryPushByte(b) {
			return out
		}
		out = append(out, b)
	}
}
