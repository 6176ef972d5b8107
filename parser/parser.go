// Package parser implements the public facade (spec.md 6): the byte-try
// state machine over a lexer.Vec and earley.Core, the forced-bytes oracle,
// and the apply_tokens commit path. It is the one type a host (a trie
// walker, a CLI, a test harness) actually talks to.
package parser

import (
	"github.com/nihei9/cfgcore/alphabet"
	"github.com/nihei9/cfgcore/earley"
	"github.com/nihei9/cfgcore/grammar"
	"github.com/nihei9/cfgcore/lexer"
	"github.com/nihei9/cfgcore/lexerstack"
	"github.com/nihei9/cfgcore/rx"
	"github.com/nihei9/cfgcore/stats"
)

// Options configures a Parser at construction (spec.md 6 "Options").
type Options struct {
	// Temperature, if non-nil, overrides the grammar-derived temperature.
	Temperature *float32
	// Fuel bounds the derivative engine's total work; 0 uses a generous
	// default.
	Fuel uint64
	// Stats, if non-nil, accumulates row/byte/lexer-op counters as the
	// parser runs (spec.md 4.K).
	Stats *stats.Counters
}

const defaultFuel = 1 << 24

// greedyMatch remembers the best nullable match seen so far for the
// in-progress lexeme, so a later dead byte can fall back to it (spec.md
// 4.E "for greedy lexers, defer emission until a dead step").
type greedyMatch struct {
	idx     int
	rowIdx  int
	byteLen int
	state   lexer.StateID
}

// Parser is the unit of mutability over an immutable compiled grammar
// (spec.md 5). Not safe for concurrent use.
type Parser struct {
	g       *grammar.Grammar
	deriver *rx.Deriver
	vec     *lexer.Vec
	core    *earley.Core
	stack   *lexerstack.Stack

	definitive bool
	opts       Options

	lexemeBytes   []byte
	greedyPending *greedyMatch
	rowCommitLen  []int // stack.Len() at the moment each row was committed

	// fatal latches on earley.ErrRowOverflow: a grammar/input pathology
	// distinct from an ordinary parse reject (spec.md 4.G step 3).
	fatal bool
}

// Fatal reports whether a row exceeded earley.MaxRow items — a pathology
// the host should treat as an abort, not a retryable reject.
func (p *Parser) Fatal() bool { return p.fatal }

// New builds a Parser over g. definitive selects whether RowInfo bookkeeping
// is recorded (spec.md 3); a speculative instance used only for forced-byte
// probing would pass false, but recognizer.Recognizer always keeps a single
// Parser and flips modes in place via SetDefinitive.
func New(g *grammar.Grammar, definitive bool, opts Options) (*Parser, error) {
	fuel := opts.Fuel
	if fuel == 0 {
		fuel = defaultFuel
	}
	deriver := rx.NewDeriver(g.Set, fuel)
	alpha := alphabet.Identity()
	vec := lexer.NewVec(g.Set, deriver, &alpha, g.Lexemes)

	core, err := earley.New(g, definitive)
	if err != nil {
		return nil, err
	}
	start := vec.StartState(core.CurrentRow().AllowedLexemes, nil)
	return &Parser{
		g:            g,
		deriver:      deriver,
		vec:          vec,
		core:         core,
		stack:        lexerstack.New(start),
		definitive:   definitive,
		opts:         opts,
		rowCommitLen: []int{0},
	}, nil
}

// SetDefinitive switches bookkeeping mode in place (recognizer's
// trie_started/trie_finished mode switch, spec.md 4.I).
func (p *Parser) SetDefinitive(d bool) { p.definitive = d }

// Definitive reports the current mode.
func (p *Parser) Definitive() bool { return p.definitive }

// IsAccepting reports whether the current row contains a completed item for
// the start symbol beginning at row 0. A greedy lexeme still waiting on a
// killing byte to emit (spec.md 4.E) is accounted for by speculatively
// flushing it and rolling the attempt back — is_accepting stays a pure
// query, matching spec.md 6's read-only op table.
func (p *Parser) IsAccepting() bool {
	if p.acceptingRow(p.core.CurrentRow()) {
		return true
	}
	if len(p.lexemeBytes) == 0 {
		return false
	}
	matchState := p.stack.Top().LexerState
	m := p.vec.ForceLexemeEnd(matchState)
	if m < 0 {
		return false
	}
	cp := p.snapshot()
	defer p.restore(cp)
	if !p.commitLexeme(m, append([]byte(nil), p.lexemeBytes...), nil, matchState) {
		return false
	}
	return p.acceptingRow(p.core.CurrentRow())
}

func (p *Parser) acceptingRow(row *earley.Row) bool {
	for _, it := range row.Items {
		if it.Start() != 0 {
			continue
		}
		if !p.g.AtEnd(it.RuleIdx()) {
			continue
		}
		if p.g.Rules[it.Rule()].LHS == p.g.StartSymbol {
			return true
		}
	}
	return false
}

// LexerAllowsEOS reports whether the lexer could end cleanly right now: the
// top lexer state has a pending match. With no bytes pending that state is
// the row's start state, restricted to its allowed lexemes, so EOS is only
// allowed there if one of those lexemes matches the empty string.
func (p *Parser) LexerAllowsEOS() bool {
	return p.vec.ForceLexemeEnd(p.stack.Top().LexerState) >= 0
}

// CanAdvance reports whether any byte could legally be pushed right now.
func (p *Parser) CanAdvance() bool {
	return !p.vec.IsDead(p.stack.Top().LexerState)
}

// FuelExhausted reports the latched lexer-fuel-exhaustion error (spec.md 7).
func (p *Parser) FuelExhausted() bool { return p.deriver.Exhausted() }

// Captures returns the captures accumulated so far.
func (p *Parser) Captures() []earley.Capture { return p.core.Captures }

// Temperature returns Options.Temperature when it is set; otherwise the max
// temperature over the after-dot symbols of the current row's items,
// terminals and non-terminals alike (spec.md 6).
func (p *Parser) Temperature() float32 {
	if p.opts.Temperature != nil {
		return *p.opts.Temperature
	}
	var max float32
	row := p.core.CurrentRow()
	for _, it := range row.Items {
		after, ok := p.g.AfterDot(it.RuleIdx())
		if !ok {
			continue
		}
		if props := p.g.Props[after]; props != nil && props.Temperature > max {
			max = props.Temperature
		}
	}
	return max
}

// ModelVariables returns the set of model-variables reachable in any
// after-dot symbol of the current row (spec.md 4.H).
func (p *Parser) ModelVariables() []grammar.ModelVariable {
	seen := map[grammar.ModelVariable]bool{}
	var out []grammar.ModelVariable
	row := p.core.CurrentRow()
	for _, it := range row.Items {
		after, ok := p.g.AfterDot(it.RuleIdx())
		if !ok {
			continue
		}
		props := p.g.Props[after]
		if props == nil || props.ModelVariable == "" || seen[props.ModelVariable] {
			continue
		}
		seen[props.ModelVariable] = true
		out = append(out, props.ModelVariable)
	}
	return out
}

// MaybeGenGrammar reports the lowest-named sub-grammar reference among the
// current row's after-dot symbols, if any (spec.md 4.H).
func (p *Parser) MaybeGenGrammar() (string, bool) {
	best := ""
	found := false
	row := p.core.CurrentRow()
	for _, it := range row.Items {
		after, ok := p.g.AfterDot(it.RuleIdx())
		if !ok {
			continue
		}
		props := p.g.Props[after]
		if props == nil || props.GenGrammar == "" {
			continue
		}
		if !found || props.GenGrammar < best {
			best = props.GenGrammar
			found = true
		}
	}
	return best, found
}
