package parser

import (
	"github.com/nihei9/cfgcore/earley"
	"github.com/nihei9/cfgcore/grammar"
)

// ApplyTokens is the token-commit path (spec.md 4.G): tokens is the
// trie-walked token sequence already accepted speculatively; numSkip is how
// many of their flattened bytes were already applied (the grammar-side
// high-water mark). Those bytes are skipped without being compared against
// the bytes already applied, so a disagreement there is not reported; only
// the bytes after them go through TryPushByte. Returns "" on success, or a
// status string naming the rejection.
func (p *Parser) ApplyTokens(tokens [][]byte, numSkip int) string {
	flatIdx := 0
	tokenIdx := 0
	lastRow := p.core.NumRows() - 1

	for _, tok := range tokens {
		for _, b := range tok {
			if flatIdx < numSkip {
				flatIdx++
				continue
			}
			if !p.TryPushByte(b) {
				if p.fatal {
					return "fatal: row exceeds MAX_ROW"
				}
				return "parse reject"
			}
			flatIdx++
		}
		tokenIdx++

		newRow := p.core.NumRows() - 1
		if p.definitive {
			info := &p.core.RowInfos[newRow]
			if newRow != lastRow {
				info.TokenIdxStart = tokenIdx - 1
			}
			info.TokenIdxStop = tokenIdx
		}

		if newRow == lastRow {
			maxTokens := p.core.Rows[newRow].MaxTokens
			tokenCountInRow := tokenIdx
			if p.definitive {
				tokenCountInRow = p.core.RowInfos[newRow].TokenIdxStop - p.core.RowInfos[newRow].TokenIdxStart
			}
			if maxTokens > 0 && tokenCountInRow >= maxTokens {
				if m := p.vec.ForceLexemeEnd(p.stack.Top().LexerState); m >= 0 {
					if !p.commitLexeme(m, append([]byte(nil), p.lexemeBytes...), nil, p.stack.Top().LexerState) {
						if p.fatal {
							return "fatal: row exceeds MAX_ROW"
						}
						return "parse reject on max_tokens"
					}
				} else {
					return "parse reject on max_tokens"
				}
			}
		}
		lastRow = p.core.NumRows() - 1
	}
	return ""
}

// FilterMaxTokens prunes the current row's items down to those whose
// after-dot symbol's max_tokens budget has not been exceeded by the number
// of tokens already attributed to this row's RowInfo (spec.md 6). Since the
// item set is only ever widened by fresh predict/scan/complete closures,
// pruning here is a narrowing projection of Items — it does not touch
// AllowedLexemes (a pruned item's lexeme may still be legal via another
// surviving item).
func (p *Parser) FilterMaxTokens() {
	if !p.definitive {
		return
	}
	row := p.core.CurrentRow()
	info := &p.core.RowInfos[len(p.core.RowInfos)-1]
	budget := row.MaxTokens
	if budget <= 0 {
		return
	}
	used := info.TokenIdxStop - info.TokenIdxStart
	if used < budget {
		return
	}
	kept := row.Items[:0:0]
	for _, it := range row.Items {
		after, ok := p.g.AfterDot(it.RuleIdx())
		if !ok {
			kept = append(kept, it)
			continue
		}
		props := p.g.Props[after]
		if props == nil || props.MaxTokens <= 0 || props.MaxTokens > used {
			kept = append(kept, it)
		}
	}
	row.Items = kept
}

// ScanModelVariable flushes the lexer (forcing the in-progress lexeme to
// end) and advances every item whose after-dot symbol carries mv, pushing a
// new row under a synthetic bogus lexeme (spec.md 4.H).
func (p *Parser) ScanModelVariable(mv grammar.ModelVariable) bool {
	if len(p.lexemeBytes) > 0 {
		top := p.stack.Top()
		if m := p.vec.ForceLexemeEnd(top.LexerState); m >= 0 {
			if !p.commitLexeme(m, append([]byte(nil), p.lexemeBytes...), nil, top.LexerState) {
				return false
			}
		} else {
			return false
		}
	}

	row := p.core.CurrentRow()
	var agenda []earley.Item
	for _, it := range row.Items {
		after, ok := p.g.AfterDot(it.RuleIdx())
		if !ok {
			continue
		}
		if props := p.g.Props[after]; props != nil && props.ModelVariable == mv {
			agenda = append(agenda, it)
		}
	}
	if len(agenda) == 0 {
		return false
	}
	return p.pushBogusRow(agenda, nil)
}

// ScanGenGrammar advances only items whose after-dot symbol has GenGrammar
// equal to symName, scanning innerBytes as the visible bytes of a synthetic
// bogusLexemeIdx row, then opens a fresh start lexer state (spec.md 4.H).
func (p *Parser) ScanGenGrammar(symName string, innerBytes []byte) bool {
	row := p.core.CurrentRow()
	var agenda []earley.Item
	for _, it := range row.Items {
		after, ok := p.g.AfterDot(it.RuleIdx())
		if !ok {
			continue
		}
		if props := p.g.Props[after]; props != nil && props.GenGrammar == symName {
			agenda = append(agenda, it)
		}
	}
	if len(agenda) == 0 {
		return false
	}
	return p.pushBogusRow(agenda, innerBytes)
}

// bogusLexemeIdx marks a synthetic scan that did not come from the lexer
// (model-variable and gen-grammar rows, spec.md 4.H); distinct from every
// real lexeme idx (including SkipIdx == 0).
const bogusLexemeIdx = -1

// pushBogusRow advances agenda's items and installs the resulting row,
// then opens a fresh unseeded lexer start state for it — the same
// row-opening bookkeeping commitLexeme does for an ordinary lexeme match.
func (p *Parser) pushBogusRow(agenda []earley.Item, bytes []byte) bool {
	ok, err := p.core.ScanAgenda(agenda, &earley.PreLexeme{Idx: bogusLexemeIdx, VisibleBytes: bytes})
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
	start := p.vec.StartState(p.core.Rows[newRowIdx].AllowedLexemes, nil)
	p.stack.RetargetTop(newRowIdx, start)
	p.lexemeBytes = nil
	return true
}
