// Package grammar holds the small set of named-identifier types shared
// between the grammar-source front end and the lexical-literal parser
// (LexKindName and friends), plus the JSON wire format cmd/cfgcore's
// compile/force/trace subcommands read and write.
//
// The teacher's sibling package carries a DFA/LALR(1) transition-table
// wire format (TransitionTable, CompiledLexModeSpec, SyntacticSpec, ...);
// none of that applies here; this repository's compiled grammar is an
// Earley core plus a derivative-based lexer, not a precompiled table, so
// the wire format below instead mirrors grammar.Grammar/Builder directly.
package grammar

import "github.com/nihei9/cfgcore/compressor"

// LexKindName represents a name of a lexical kind.
type LexKindName string

const LexKindNameNil = LexKindName("")

func (k LexKindName) String() string {
	return string(k)
}

// LexModeKindID represents an ID of a lexical kind, unique within the
// (single, unmoded) lexical specification this repository compiles.
type LexModeKindID int

const (
	LexModeKindIDNil = LexModeKindID(0)
	LexModeKindIDMin = LexModeKindID(1)
)

func (id LexModeKindID) Int() int {
	return int(id)
}

// GrammarSource is the grammar-definition input cmd/cfgcore compile reads
// (a JSON rendering of what a textual grammar DSL would describe): every
// non-terminal and terminal the grammar uses, plus the production rules
// between them. Terminal and non-terminal names are referenced by string
// in RuleDecl.RHS so the source is one flat, readable document.
type GrammarSource struct {
	Start        string             `json:"start"`
	NonTerminals []NonTerminalDecl  `json:"non_terminals"`
	Terminals    []TerminalDecl     `json:"terminals"`
	Rules        []RuleDecl         `json:"rules"`
}

// NonTerminalDecl declares a non-terminal and its grammar-level
// properties (spec.md 4.F's Props).
type NonTerminalDecl struct {
	Name            string  `json:"name"`
	CaptureName     string  `json:"capture_name,omitempty"`
	StopCaptureName string  `json:"stop_capture_name,omitempty"`
	Temperature     float32 `json:"temperature,omitempty"`
	MaxTokens       int     `json:"max_tokens,omitempty"`
	ModelVariable   string  `json:"model_variable,omitempty"`
	GenGrammar      string  `json:"gen_grammar,omitempty"`
	Hidden          bool    `json:"hidden,omitempty"`
}

// TerminalDecl declares a terminal's lexeme (spec.md 3/4.E). Exactly one
// of Pattern or Literal should be set: Pattern is a regex, Literal is a
// fixed string a grammar author shouldn't have to hand-escape into one
// (EscapePattern does that escaping in grammar/dsl).
type TerminalDecl struct {
	Name             string `json:"name"`
	Pattern          string `json:"pattern,omitempty"`
	Literal          string `json:"literal,omitempty"`
	Skip             bool   `json:"skip,omitempty"`
	Contextual       bool   `json:"contextual,omitempty"`
	Lazy             bool   `json:"lazy,omitempty"`
	Fragment         bool   `json:"fragment,omitempty"`
	LookaheadPattern string `json:"lookahead_pattern,omitempty"`
	LookaheadWindow  int    `json:"lookahead_window,omitempty"`
}

// RuleDecl declares one production LHS -> RHS..., both referenced by name.
type RuleDecl struct {
	LHS string   `json:"lhs"`
	RHS []string `json:"rhs"`
}

// CompiledGrammar is cmd/cfgcore compile's output: the source it was built
// from (so force/trace can rebuild an equivalent grammar.Grammar without a
// second input format) plus the derived per-symbol facts a reader would
// otherwise have to recompute by hand. DerivedNames[i] names the symbol
// whose (terminal, nullable, lexeme_idx) row lives at row i of DerivedTable
// — most grammars have many non-terminals sharing the same
// (false, false, 0) row, so a row-deduplicating compressed table is a
// genuinely smaller wire encoding than one DerivedSymbol struct per name.
type CompiledGrammar struct {
	Source       *GrammarSource              `json:"source"`
	DerivedNames []string                    `json:"derived_names"`
	DerivedTable *compressor.UniqueEntriesTable `json:"derived_table"`
}

// DerivedSymbol reports what grammar.Builder.Build computed for one
// symbol, before it is packed into DerivedTable's row form: whether the
// symbol is nullable (spec.md 4.E predict step) and, for terminals, the
// lexeme idx it was bound to.
type DerivedSymbol struct {
	Name      string
	Terminal  bool
	Nullable  bool
	LexemeIdx int
}

// derivedTableCols is the fixed column layout of one DerivedSymbol packed
// into a DerivedTable row: [terminal, nullable, lexeme_idx].
const derivedTableCols = 3

// PackDerived compresses syms into the names/table pair CompiledGrammar
// carries on the wire.
func PackDerived(syms []DerivedSymbol) ([]string, *compressor.UniqueEntriesTable, error) {
	names := make([]string, len(syms))
	entries := make([]int, 0, len(syms)*derivedTableCols)
	for i, s := range syms {
		names[i] = s.Name
		entries = append(entries, boolToInt(s.Terminal), boolToInt(s.Nullable), s.LexemeIdx)
	}
	orig, err := compressor.NewOriginalTable(entries, derivedTableCols)
	if err != nil {
		return nil, nil, err
	}
	tab := compressor.NewUniqueEntriesTable()
	if err := tab.Compress(orig); err != nil {
		return nil, nil, err
	}
	return names, tab, nil
}

// UnpackDerived reverses PackDerived, for a reader that wants per-symbol
// facts back out of a compiled grammar's wire form.
func UnpackDerived(names []string, tab *compressor.UniqueEntriesTable) ([]DerivedSymbol, error) {
	out := make([]DerivedSymbol, len(names))
	for i, name := range names {
		terminal, err := tab.Lookup(i, 0)
		if err != nil {
			return nil, err
		}
		nullable, err := tab.Lookup(i, 1)
		if err != nil {
			return nil, err
		}
		lexemeIdx, err := tab.Lookup(i, 2)
		if err != nil {
			return nil, err
		}
		out[i] = DerivedSymbol{Name: name, Terminal: terminal != 0, Nullable: nullable != 0, LexemeIdx: lexemeIdx}
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
