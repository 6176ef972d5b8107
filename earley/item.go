// Package earley implements the Earley recognizer core (spec.md 4.E):
// row construction via predict/scan/complete, hidden-lookahead bookkeeping
// and capture accumulation over a compiled grammar.Grammar.
package earley

import "github.com/nihei9/cfgcore/grammar"

// Item is an Earley item (rule-idx-with-dot, start-row) packed into 64
// bits per spec.md 3: rule number in the high 24 bits, dot position in
// the next 8, start row in the low 32. Equality is bitwise, so two items
// compare equal with ==.
type Item uint64

func packItem(rule, dot, start int) Item {
	return Item(uint64(uint32(rule)&0xffffff)<<40 | uint64(uint32(dot)&0xff)<<32 | uint64(uint32(start)))
}

// Rule returns the item's rule number.
func (it Item) Rule() int { return int((uint64(it) >> 40) & 0xffffff) }

// Dot returns the item's dot position within its rule's RHS.
func (it Item) Dot() int { return int((uint64(it) >> 32) & 0xff) }

// Start returns the row at which this item's rule began.
func (it Item) Start() int { return int(uint32(it)) }

// RuleIdx returns the (rule, dot) pair this item carries.
func (it Item) RuleIdx() grammar.RuleIdx {
	return grammar.RuleIdx{Rule: it.Rule(), Dot: it.Dot()}
}

func itemFromRuleIdx(idx grammar.RuleIdx, start int) Item {
	return packItem(idx.Rule, idx.Dot, start)
}

func (it Item) advance() Item {
	return packItem(it.Rule(), it.Dot()+1, it.Start())
}
