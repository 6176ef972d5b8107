// Package grammar holds the compiled grammar (spec.md 4.F): the symbol
// table, numbered rules, and per-symbol properties the Earley core and
// the parser facade consult while predicting, scanning and completing
// rows.
package grammar

import (
	"fmt"

	"github.com/nihei9/cfgcore/grammar/lexical"
	"github.com/nihei9/cfgcore/grammar/symbol"
	"github.com/nihei9/cfgcore/lexer"
	"github.com/nihei9/cfgcore/rx"
	specgrammar "github.com/nihei9/cfgcore/spec/grammar"
)

// Grammar is the immutable compiled grammar: symbol table, rule list,
// per-symbol properties and the terminal<->lexeme binding. It is built
// once (by a Builder, or a DSL front end) and then shared read-only by
// every parser.Parser instance constructed from it (spec.md 3
// "Lifetimes").
type Grammar struct {
	Symbols *symbol.SymbolTable
	Rules   []*Rule
	Props   map[symbol.Symbol]*Props

	// RulesByLHS indexes rule numbers by their LHS symbol, used by the
	// Earley core's Predict step.
	RulesByLHS map[symbol.Symbol][]int

	StartSymbol symbol.Symbol

	// Set/Lexemes are the compiled lexical layer (rx + lexer.LexemeSpec)
	// this grammar's terminals are bound to.
	Set     *rx.Set
	Lexemes []lexer.LexemeSpec

	// LexSpec carries the source lexical declarations (pattern text, kind
	// names, Skip/Contextual/Greedy flags) Set/Lexemes were compiled from.
	// A Builder or the spec/grammar JSON wire format needs this to emit a
	// GrammarSource a later compile can reproduce byte-for-byte; Set and
	// Lexemes alone have already thrown the pattern text away.
	LexSpec *lexical.LexSpec

	symToLexemeIdx map[symbol.Symbol]int
	lexemeIdxToSym map[int]symbol.Symbol
}

// AfterDot returns the symbol immediately after idx's dot, or false if the
// dot sits at the end of the rule's RHS.
func (g *Grammar) AfterDot(idx RuleIdx) (symbol.Symbol, bool) {
	r := g.Rules[idx.Rule]
	if idx.Dot >= len(r.RHS) {
		return symbol.SymbolNil, false
	}
	return r.RHS[idx.Dot], true
}

// AtEnd reports whether idx's dot has advanced past the last RHS symbol.
func (g *Grammar) AtEnd(idx RuleIdx) bool {
	return idx.Dot >= len(g.Rules[idx.Rule].RHS)
}

// SymbolToLexemeIdx returns the lexer.LexemeSpec.Idx bound to a terminal
// symbol.
func (g *Grammar) SymbolToLexemeIdx(sym symbol.Symbol) (int, bool) {
	idx, ok := g.symToLexemeIdx[sym]
	return idx, ok
}

// LexemeIdxToSymbol is the inverse of SymbolToLexemeIdx, used by Scan to
// find which terminal symbol a matched lexeme advances.
func (g *Grammar) LexemeIdxToSymbol(idx int) (symbol.Symbol, bool) {
	sym, ok := g.lexemeIdxToSym[idx]
	return sym, ok
}

// Builder assembles a Grammar from textual rule/lexeme declarations. It is
// the programmatic half of grammar authoring; package grammar/dsl drives
// it from a grammar-source file.
type Builder struct {
	symbols *symbol.SymbolTable
	props   map[symbol.Symbol]*Props
	rules   []*Rule
	lexspec *lexical.LexSpec
	lexKind map[symbol.Symbol]lexicalKindRef
	start   string
}

type lexicalKindRef struct {
	kind string
}

func NewBuilder() *Builder {
	return &Builder{
		symbols: symbol.NewSymbolTable(),
		props:   map[symbol.Symbol]*Props{},
		lexspec: &lexical.LexSpec{},
		lexKind: map[symbol.Symbol]lexicalKindRef{},
	}
}

// SetStart registers name as the grammar's start symbol.
func (b *Builder) SetStart(name string) error {
	sym, err := b.symbols.Writer().RegisterStartSymbol(name)
	if err != nil {
		return err
	}
	b.ensureProps(sym)
	b.start = name
	return nil
}

// NonTerminal registers (or looks up) a non-terminal symbol, returning its
// Props for the caller to fill in (capture name, hidden, ...).
func (b *Builder) NonTerminal(name string) (symbol.Symbol, *Props, error) {
	sym, err := b.symbols.Writer().RegisterNonTerminalSymbol(name)
	if err != nil {
		return symbol.SymbolNil, nil, err
	}
	return sym, b.ensureProps(sym), nil
}

// Terminal registers (or looks up) a terminal symbol bound to a lexeme
// declaration. pattern is a regex literal in the reused vartan
// regex-literal syntax; a WithLookahead option appends a hidden trailing
// assertion (spec.md 3's hidden-suffix bytes).
func (b *Builder) Terminal(name, pattern string, opts ...LexemeOption) (symbol.Symbol, *Props, error) {
	sym, err := b.symbols.Writer().RegisterTerminalSymbol(name)
	if err != nil {
		return symbol.SymbolNil, nil, err
	}
	if _, already := b.lexKind[sym]; !already {
		e := &lexical.LexEntry{Kind: specgrammar.LexKindName(name), Pattern: pattern, Greedy: true}
		for _, o := range opts {
			o(e)
		}
		b.lexspec.Entries = append(b.lexspec.Entries, e)
		b.lexKind[sym] = lexicalKindRef{kind: name}
	}
	return sym, b.ensureProps(sym), nil
}

// LexemeOption configures a terminal's lexeme declaration (functional
// option pattern, per the teacher's LexerOption idiom).
type LexemeOption func(*lexical.LexEntry)

func Skip() LexemeOption            { return func(e *lexical.LexEntry) { e.Skip = true } }
func Contextual() LexemeOption      { return func(e *lexical.LexEntry) { e.Contextual = true } }
func Lazy() LexemeOption            { return func(e *lexical.LexEntry) { e.Greedy = false } }
func WithLookahead(pattern string, window int) LexemeOption {
	return func(e *lexical.LexEntry) { e.Lookahead = &lexical.LookaheadSpec{Pattern: pattern, Window: window} }
}
func Fragment() LexemeOption { return func(e *lexical.LexEntry) { e.Fragment = true } }

// Rule adds lhs -> rhs... to the grammar.
func (b *Builder) Rule(lhs symbol.Symbol, rhs ...symbol.Symbol) int {
	idx := len(b.rules)
	b.rules = append(b.rules, &Rule{LHS: lhs, RHS: rhs})
	return idx
}

func (b *Builder) ensureProps(sym symbol.Symbol) *Props {
	if p, ok := b.props[sym]; ok {
		return p
	}
	p := &Props{LexemeIdx: -1}
	b.props[sym] = p
	return p
}

// Build compiles the accumulated lexical entries and wires everything
// into an immutable Grammar.
func (b *Builder) Build() (*Grammar, error) {
	if b.start == "" {
		return nil, fmt.Errorf("grammar: no start symbol registered")
	}
	startSym, ok := b.symbols.Reader().ToSymbol(b.start)
	if !ok {
		return nil, fmt.Errorf("grammar: start symbol %q not found", b.start)
	}

	g := &Grammar{
		Symbols:        b.symbols,
		Rules:          b.rules,
		Props:          b.props,
		RulesByLHS:     map[symbol.Symbol][]int{},
		StartSymbol:    startSym,
		LexSpec:        b.lexspec,
		symToLexemeIdx: map[symbol.Symbol]int{},
		lexemeIdxToSym: map[int]symbol.Symbol{},
	}
	for i, r := range b.rules {
		g.RulesByLHS[r.LHS] = append(g.RulesByLHS[r.LHS], i)
	}

	if len(b.lexspec.Entries) > 0 {
		compiled, err := lexical.Compile(b.lexspec)
		if err != nil {
			return nil, fmt.Errorf("grammar: %w", err)
		}
		g.Set = compiled.Set
		g.Lexemes = compiled.Lexemes
		for sym, ref := range b.lexKind {
			idx, ok := compiled.KindToIdx[specgrammar.LexKindName(ref.kind)]
			if !ok {
				continue
			}
			g.symToLexemeIdx[sym] = idx
			g.lexemeIdxToSym[idx] = sym
			g.Props[sym].LexemeIdx = idx
		}
	}

	computeNullable(g)

	return g, nil
}

// computeNullable runs the standard fixed-point closure: a non-terminal is
// nullable iff it has a rule whose entire RHS is nullable (an empty RHS
// trivially qualifies). Needed for predict's "add the item with its dot
// already advanced past a nullable symbol" step (spec.md 4.E) to see
// nullability that was only established via a rule the symbol doesn't
// appear as LHS of directly, e.g. a chain A -> B, B -> (empty).
func computeNullable(g *Grammar) {
	for changed := true; changed; {
		changed = false
		for _, r := range g.Rules {
			props := g.Props[r.LHS]
			if props.Nullable {
				continue
			}
			allNullable := true
			for _, s := range r.RHS {
				if s.IsTerminal() || !g.Props[s].Nullable {
					allNullable = false
					break
				}
			}
			if allNullable {
				props.Nullable = true
				changed = true
			}
		}
	}
}
