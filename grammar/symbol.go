package grammar

import "github.com/nihei9/cfgcore/grammar/symbol"

// ModelVariable names a model-controlled slot a rule can expose (spec.md
// 4.F's "model_variable: optional enum"). It is an open string set rather
// than a closed Go enum so grammar sources can introduce new variables
// without a code change here.
type ModelVariable string

// Props holds a symbol's grammar-level metadata (spec.md 3 "Grammar"):
// flags plus the temperature/max_tokens/capture/model-variable properties
// that drive the Earley core's predict/complete steps and the facade's
// FilterMaxTokens/Temperature/ModelVariables/Captures operations.
type Props struct {
	Nullable bool
	Hidden   bool

	CaptureName     string
	StopCaptureName string

	Temperature  float32
	MaxTokens    int // 0 means unbounded
	ModelVariable ModelVariable

	// GenGrammar, if non-empty, names a sub-grammar this symbol delegates
	// generation to (spec.md 6's scan_gen_grammar).
	GenGrammar string

	// LexemeIdx binds a terminal symbol to its lexer.LexemeSpec.Idx. -1
	// for non-terminals.
	LexemeIdx int
}

func (p *Props) HasCapture() bool     { return p.CaptureName != "" }
func (p *Props) HasStopCapture() bool { return p.StopCaptureName != "" }

// Rule is one production LHS -> RHS, numbered by its position in
// Grammar.Rules.
type Rule struct {
	LHS symbol.Symbol
	RHS []symbol.Symbol
}

// RuleIdx packs (rule number, dot position) per spec.md 3: "the dot is
// advanced by incrementing the index by 1 until a sentinel marks
// end-of-rhs." Dot == len(RHS) is that sentinel.
type RuleIdx struct {
	Rule int
	Dot  int
}

// Advance returns the RuleIdx with the dot moved one position to the
// right, without checking bounds — callers check AtEnd first.
func (r RuleIdx) Advance() RuleIdx {
	return RuleIdx{Rule: r.Rule, Dot: r.Dot + 1}
}

// Pack encodes r into 64 bits: rule number in the high 32 bits, dot
// position in the low 32 bits (spec.md 3's "Earley item ... packed into
// 64 bits").
func (r RuleIdx) Pack() uint64 {
	return uint64(uint32(r.Rule))<<32 | uint64(uint32(r.Dot))
}

func UnpackRuleIdx(p uint64) RuleIdx {
	return RuleIdx{Rule: int(int32(p >> 32)), Dot: int(int32(p & 0xffffffff))}
}
