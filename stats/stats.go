// Package stats holds the recognizer's runtime counters (spec.md 4.K). The
// teacher repo reports structured values instead of logging them (see
// spec/grammar/description.go's Report model); this package follows that
// lead with a plain struct the CLI marshals via encoding/json rather than
// log lines.
package stats

// Counters tracks recognizer work since construction or the last Reset.
type Counters struct {
	Rows            int `json:"rows"`
	Items           int `json:"items"`
	DefinitiveBytes int `json:"definitive_bytes"`
	HiddenBytes     int `json:"hidden_bytes"`
	LexerOps        int `json:"lexer_ops"`
}

// Reset zeroes every counter.
func (c *Counters) Reset() {
	*c = Counters{}
}

// AddRow records one committed row with the given item count.
func (c *Counters) AddRow(items int) {
	c.Rows++
	c.Items += items
}

// AddBytes records consumed byte counts: visible bytes are added to
// DefinitiveBytes only when definitive is true (speculative visible bytes
// are not counted), and hidden bytes are always added to HiddenBytes.
func (c *Counters) AddBytes(definitive bool, visible, hidden int) {
	if definitive {
		c.DefinitiveBytes += visible
	}
	c.HiddenBytes += hidden
}

// AddLexerOp records one lexer-vector advance (spec.md 4.D).
func (c *Counters) AddLexerOp() {
	c.LexerOps++
}
