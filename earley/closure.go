package earley

import "github.com/nihei9/cfgcore/grammar/symbol"

// complete handles an item whose dot sits at the end of its rule
// (spec.md 4.E "Complete"): every item in the start row whose after-dot
// symbol is this rule's LHS gets its dot advanced, and capture/
// stop-capture bytes are recorded if the LHS carries those properties.
func (c *Core) complete(rowIdx int, it Item, items []Item, seen map[Item]bool, lex *PreLexeme) []Item {
	rule := c.g.Rules[it.Rule()]
	lhs := rule.LHS
	startRow := it.Start()

	var srcItems []Item
	if startRow == rowIdx {
		srcItems = items
	} else {
		srcItems = c.Rows[startRow].Items
	}
	for _, src := range srcItems {
		after, ok := c.g.AfterDot(src.RuleIdx())
		if !ok || after != lhs {
			continue
		}
		next := src.advance()
		if !seen[next] {
			seen[next] = true
			items = append(items, next)
		}
	}

	if props := c.g.Props[lhs]; props != nil {
		if props.HasCapture() {
			c.Captures = append(c.Captures, Capture{
				Name:  props.CaptureName,
				Value: c.captureSpan(startRow, rowIdx, lex),
			})
		}
		if props.HasStopCapture() && lex != nil {
			c.Captures = append(c.Captures, Capture{
				Name:  props.StopCaptureName,
				Stop:  true,
				Value: append([]byte(nil), lex.HiddenBytes...),
			})
		}
	}
	return items
}

// captureSpan reconstructs "bytes_of_rows[start+1..curr] ++
// lexeme.visible_bytes" (spec.md 4.E): the visible bytes consumed between
// the rule's start row and the row under construction, whose own bytes
// are lex's visible bytes (lex is nil only for row 0, which never
// completes a non-empty span).
func (c *Core) captureSpan(startRow, currRow int, lex *PreLexeme) []byte {
	var out []byte
	for r := startRow + 1; r < currRow; r++ {
		out = append(out, c.rowBytes[r]...)
	}
	if lex != nil {
		out = append(out, lex.VisibleBytes...)
	}
	return out
}

// predict handles an item whose after-dot symbol is a non-terminal
// (spec.md 4.E "Predict"): add (rule, curr_idx) for every rule of that
// symbol, plus the item's own advance-dot if the symbol is nullable.
func (c *Core) predict(rowIdx int, it Item, after symbol.Symbol, items []Item, seen map[Item]bool) []Item {
	for _, ruleNum := range c.g.RulesByLHS[after] {
		next := packItem(ruleNum, 0, rowIdx)
		if !seen[next] {
			seen[next] = true
			items = append(items, next)
		}
	}
	if props := c.g.Props[after]; props != nil && props.Nullable {
		next := it.advance()
		if !seen[next] {
			seen[next] = true
			items = append(items, next)
		}
	}
	return items
}

// scanOrPredict handles an item whose after-dot symbol is a terminal
// (spec.md 4.E "Scan-or-predict"): mark its lexeme idx allowed in row,
// raise the row's max_tokens ceiling, and record hidden_start for hidden
// terminals.
func (c *Core) scanOrPredict(row *Row, rowIdx int, it Item, after symbol.Symbol) {
	idx, ok := c.g.SymbolToLexemeIdx(after)
	if !ok {
		return
	}
	row.AllowedLexemes.Add(idx)

	props := c.g.Props[after]
	if props == nil {
		return
	}
	if props.MaxTokens > row.MaxTokens {
		row.MaxTokens = props.MaxTokens
	}
	if props.Hidden {
		c.hiddenStart[it] = rowIdx
	}
}
