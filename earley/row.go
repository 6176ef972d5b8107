package earley

import "github.com/nihei9/cfgcore/bitset"

// Row is one Earley column (spec.md 3): the items whose dot sits after
// position i, plus the bitset of lexeme idxs legal as the next byte run
// and the token budget predicted for this row.
type Row struct {
	Items          []Item
	AllowedLexemes bitset.Set
	MaxTokens      int
}

// RowInfo is the definitive-mode-only per-row bookkeeping (spec.md 3):
// byte offset the row started at, the lexeme that produced it, and the
// token-index window it was committed under.
type RowInfo struct {
	StartByteIdx  int
	Lexeme        int
	TokenIdxStart int
	TokenIdxStop  int
	MaxTokens     int
}

// Capture is one accumulated (name, bytes) pair produced by a completed
// capture or stop-capture symbol (spec.md 4.E).
type Capture struct {
	Name  string
	Stop  bool
	Value []byte
}

// PreLexeme is a match announcement handed from the lexer layer to Scan:
// the lexeme idx, its visible bytes, and any hidden (lookahead-confirming
// but not output) bytes (spec.md glossary "Pre-lexeme").
type PreLexeme struct {
	Idx          int
	VisibleBytes []byte
	HiddenBytes  []byte
}
