package earley

import (
	"github.com/nihei9/cfgcore/bitset"
	"github.com/nihei9/cfgcore/grammar"
	"github.com/nihei9/cfgcore/lexer"
)

// MaxRow is the hard cap on items per row (spec.md 4.G step 3); exceeding
// it means the grammar/input combination is pathological (e.g. an
// unbounded-ambiguity grammar), not a normal parse reject.
const MaxRow = 1 << 20

// Core is the Earley recognizer over a single compiled grammar. It owns
// every row built so far, the definitive-mode row_infos, and the
// accumulated captures. It is not safe for concurrent use (spec.md 5).
type Core struct {
	g          *grammar.Grammar
	Rows       []*Row
	RowInfos   []RowInfo
	Definitive bool
	Captures   []Capture

	// rowBytes[i] is the visible bytes that produced Rows[i] from
	// Rows[i-1] (nil for row 0), used to reconstruct capture spans.
	rowBytes [][]byte

	// capturesAtRow[i] is len(Captures) immediately after Rows[i] was
	// committed, so TruncateRows can roll Captures back in step with Rows
	// (spec.md 4.I "pop_bytes" undoing a row-completing byte).
	capturesAtRow []int

	// hiddenStart records, for an item whose after-dot symbol is hidden,
	// the row index at which that symbol was exposed (spec.md 4.E
	// "record hidden_start=curr_idx on each predicted item").
	hiddenStart map[Item]int
}

// ErrRowOverflow is a fatal pathology per spec.md 4.G step 3, distinct
// from an ordinary parse reject.
type ErrRowOverflow struct{}

func (ErrRowOverflow) Error() string { return "earley: row exceeds MaxRow items" }

// New builds a Core seeded with row 0: the start symbol's rules predicted
// at row 0. Every row's allowed-lexemes set always includes SKIP at commit
// (spec.md 4.E), row 0 included.
func New(g *grammar.Grammar, definitive bool) (*Core, error) {
	c := &Core{g: g, Definitive: definitive, hiddenStart: map[Item]int{}}

	var agenda []Item
	for _, ruleNum := range g.RulesByLHS[g.StartSymbol] {
		agenda = append(agenda, itemFromRuleIdx(grammar.RuleIdx{Rule: ruleNum, Dot: 0}, 0))
	}
	row, err := c.buildRow(0, agenda, nil)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrRowOverflow{}
	}
	c.Rows = append(c.Rows, row)
	c.rowBytes = append(c.rowBytes, nil)
	c.capturesAtRow = append(c.capturesAtRow, 0)
	if definitive {
		c.RowInfos = append(c.RowInfos, RowInfo{MaxTokens: row.MaxTokens})
	}
	return c, nil
}

// CurrentRow returns the most recently committed row.
func (c *Core) CurrentRow() *Row { return c.Rows[len(c.Rows)-1] }

// NumRows reports how many rows have been committed so far.
func (c *Core) NumRows() int { return len(c.Rows) }

// Scan advances the parser by one pre-lexeme (spec.md 4.E "scan"). SKIP
// lexemes copy the current row verbatim (items, allowed-lexemes and
// max_tokens unchanged) rather than running a fresh closure. Returns
// false if the resulting row would be empty (parse reject).
func (c *Core) Scan(lex PreLexeme) (bool, error) {
	if lex.Idx == lexer.SkipIdx {
		prev := c.CurrentRow()
		row := &Row{
			Items:          append([]Item(nil), prev.Items...),
			AllowedLexemes: prev.AllowedLexemes.Clone(),
			MaxTokens:      prev.MaxTokens,
		}
		c.commitRow(row, lex.VisibleBytes)
		return true, nil
	}

	sym, ok := c.g.LexemeIdxToSymbol(lex.Idx)
	if !ok {
		return false, nil
	}
	curr := c.CurrentRow()
	var agenda []Item
	for _, it := range curr.Items {
		after, ok := c.g.AfterDot(it.RuleIdx())
		if ok && after == sym {
			agenda = append(agenda, it.advance())
		}
	}
	if len(agenda) == 0 {
		return false, nil
	}
	row, err := c.buildRow(len(c.Rows), agenda, &lex)
	if err != nil {
		return false, err
	}
	if row == nil {
		return false, nil
	}
	c.commitRow(row, lex.VisibleBytes)
	return true, nil
}

// ScanAgenda advances the dot of every item in items and builds a new row
// from the result, bypassing the usual "after-dot symbol == lexeme" lookup
// Scan performs. Used for the synthetic rows model-variable and
// gen-grammar scanning push (spec.md 4.H), where the caller has already
// selected which items advance.
func (c *Core) ScanAgenda(items []Item, lex *PreLexeme) (bool, error) {
	agenda := make([]Item, len(items))
	for i, it := range items {
		agenda[i] = it.advance()
	}
	row, err := c.buildRow(len(c.Rows), agenda, lex)
	if err != nil {
		return false, err
	}
	if row == nil {
		return false, nil
	}
	var bytes []byte
	if lex != nil {
		bytes = lex.VisibleBytes
	}
	c.commitRow(row, bytes)
	return true, nil
}

func (c *Core) commitRow(row *Row, bytes []byte) {
	c.Rows = append(c.Rows, row)
	c.rowBytes = append(c.rowBytes, bytes)
	c.capturesAtRow = append(c.capturesAtRow, len(c.Captures))
	if c.Definitive {
		c.RowInfos = append(c.RowInfos, RowInfo{MaxTokens: row.MaxTokens})
	}
}

// TruncateRows rolls the core back to having exactly n rows (n must be >=
// 1, row 0 is never discarded), undoing the captures and row_infos that
// came with the discarded rows. Used by the byte-try state machine's
// pop_bytes to undo a row-completing byte (spec.md 4.I).
func (c *Core) TruncateRows(n int) {
	if n < 1 {
		n = 1
	}
	if n >= len(c.Rows) {
		return
	}
	c.Rows = c.Rows[:n]
	c.rowBytes = c.rowBytes[:n]
	c.Captures = c.Captures[:c.capturesAtRow[n-1]]
	c.capturesAtRow = c.capturesAtRow[:n]
	if c.Definitive {
		c.RowInfos = c.RowInfos[:n]
	}
}

// buildRow runs the predict/scan/complete closure (spec.md 4.E
// "push_row") starting from agenda, against the row index rowIdx it is
// constructing. lex is the lexeme that produced this row (nil for row 0),
// used for capture-span reconstruction.
func (c *Core) buildRow(rowIdx int, agenda []Item, lex *PreLexeme) (*Row, error) {
	seen := map[Item]bool{}
	items := make([]Item, 0, len(agenda))
	for _, it := range agenda {
		if !seen[it] {
			seen[it] = true
			items = append(items, it)
		}
	}

	row := &Row{AllowedLexemes: bitset.Set{}}
	for i := 0; i < len(items); i++ {
		if len(items) > MaxRow {
			return nil, ErrRowOverflow{}
		}
		it := items[i]
		ruleIdx := it.RuleIdx()
		after, hasAfter := c.g.AfterDot(ruleIdx)
		if !hasAfter {
			items = c.complete(rowIdx, it, items, seen, lex)
			continue
		}
		if after.IsTerminal() {
			c.scanOrPredict(row, rowIdx, it, after)
			continue
		}
		items = c.predict(rowIdx, it, after, items, seen)
	}

	if len(items) == 0 {
		return nil, nil
	}
	row.Items = items
	row.AllowedLexemes.Add(lexer.SkipIdx)
	return row, nil
}
