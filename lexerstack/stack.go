// Package lexerstack implements the lexer stack (spec.md 3 "Lexer stack
// entry"): one entry per consumed byte, giving the byte-try state machine
// O(1) backtracking.
package lexerstack

import "github.com/nihei9/cfgcore/lexer"

// Entry is one stack slot: the Earley row active when this byte was
// pushed, the lexer state reached, and the byte itself (nil for the
// bottom sentinel entry pushed at construction).
type Entry struct {
	RowIdx     int
	LexerState lexer.StateID
	Byte       *byte
}

// Stack tracks consumed bytes 1:1 with entries; length = consumed bytes +
// 1 (spec.md 3).
type Stack struct {
	entries []Entry
}

// New returns a Stack seeded with the bottom entry for row 0's initial
// lexer state.
func New(initialState lexer.StateID) *Stack {
	return &Stack{entries: []Entry{{RowIdx: 0, LexerState: initialState}}}
}

// Push records a new entry after consuming b into state s at row.
func (s *Stack) Push(rowIdx int, state lexer.StateID, b byte) {
	bc := b
	s.entries = append(s.entries, Entry{RowIdx: rowIdx, LexerState: state, Byte: &bc})
}

// Top returns the most recent entry, the active state the next byte
// advances from.
func (s *Stack) Top() Entry {
	return s.entries[len(s.entries)-1]
}

// RetargetTop moves the top entry onto a newly opened row with a fresh
// lexer state, without consuming a byte (spec.md 4.E "push start-state for
// the new row" — the row transition rides on the byte already accounted
// for by the Push that produced the completed lexeme, not a new one).
func (s *Stack) RetargetTop(rowIdx int, state lexer.StateID) {
	top := &s.entries[len(s.entries)-1]
	top.RowIdx = rowIdx
	top.LexerState = state
}

// Len reports the number of bytes consumed (entries - 1).
func (s *Stack) Len() int {
	return len(s.entries) - 1
}

// Pop undoes exactly n bytes of input, truncating the stack in O(1).
// Symmetric with n prior successful Pushes (spec.md 4.I "pop_bytes").
func (s *Stack) Pop(n int) {
	newLen := len(s.entries) - n
	if newLen < 1 {
		newLen = 1
	}
	s.entries = s.entries[:newLen]
}

// Depth is a saved stack length, used by parser.Parser's Mark/RestoreMark
// (behind the recognizer's TrieStarted/TrieFinished) to restore
// a prior point (spec.md 4.I "pop lexer-stack back to saved depth").
type Depth int

// Mark returns the current depth for a later Restore.
func (s *Stack) Mark() Depth { return Depth(len(s.entries)) }

// Restore truncates back to a previously marked depth.
func (s *Stack) Restore(d Depth) {
	if int(d) <= len(s.entries) {
		s.entries = s.entries[:d]
	}
}
