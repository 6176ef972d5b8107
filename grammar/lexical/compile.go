package lexical

import (
	"fmt"
	"strings"

	"github.com/nihei9/cfgcore/grammar/lexical/parser"
	"github.com/nihei9/cfgcore/lexer"
	"github.com/nihei9/cfgcore/rx"
	spec "github.com/nihei9/cfgcore/spec/grammar"
)

// CompiledLexemes is the output of Compile: a shared rx.Set plus the
// per-lexeme specs the RegexVec lexer (package lexer) runs over, and the
// idx a kind name was assigned so the grammar layer can bind terminal
// symbols to lexemes.
type CompiledLexemes struct {
	Set      *rx.Set
	Lexemes  []lexer.LexemeSpec
	KindToIdx map[spec.LexKindName]int
}

// Compile parses every entry's regex-literal pattern (reusing vartan's
// regex-literal parser), resolves \f{...} fragment references, lowers each
// pattern to an rx.Ref and assigns lexeme indices (idx 0 reserved for
// lexer.SkipIdx, per spec.md 3).
func Compile(lexspec *LexSpec) (*CompiledLexemes, error) {
	if err := lexspec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lexical specification: %w", err)
	}

	fragTrees := map[spec.LexKindName]parser.CPTree{}
	for _, e := range lexspec.Entries {
		if !e.Fragment {
			continue
		}
		t, err := parseLiteral(e.Kind, e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("fragment %v: %w", e.Kind, err)
		}
		fragTrees[e.Kind] = t
	}
	if err := parser.CompleteFragments(fragTrees); err != nil {
		return nil, fmt.Errorf("unresolvable fragment reference: %w", err)
	}

	set := rx.NewSet()
	out := &CompiledLexemes{Set: set, KindToIdx: map[spec.LexKindName]int{}}

	nextIdx := 1
	for _, e := range lexspec.Entries {
		if e.Fragment {
			continue
		}
		idx := nextIdx
		if e.Skip && !hasSkipIdxAssigned(out) {
			idx = lexer.SkipIdx
		} else {
			nextIdx++
		}

		t, err := parseLiteral(e.Kind, e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("lexeme %v: %w", e.Kind, err)
		}
		if ok, err := parser.ApplyFragments(t, fragTrees); err != nil {
			return nil, fmt.Errorf("lexeme %v: %w", e.Kind, err)
		} else if !ok {
			return nil, fmt.Errorf("lexeme %v: unresolved fragment reference", e.Kind)
		}
		expr, err := compileCPTree(set, t)
		if err != nil {
			return nil, fmt.Errorf("lexeme %v: %w", e.Kind, err)
		}

		hiddenLen := uint32(0)
		if e.Lookahead != nil {
			lt, err := parseLiteral(e.Kind+"_lookahead", e.Lookahead.Pattern)
			if err != nil {
				return nil, fmt.Errorf("lexeme %v lookahead: %w", e.Kind, err)
			}
			lookExpr, err := compileCPTree(set, lt)
			if err != nil {
				return nil, fmt.Errorf("lexeme %v lookahead: %w", e.Kind, err)
			}
			expr = set.MkConcat(expr, set.MkLookahead(lookExpr, e.Lookahead.Window, e.Lookahead.Window))
			hiddenLen = uint32(e.Lookahead.Window)
		}

		out.Lexemes = append(out.Lexemes, lexer.LexemeSpec{
			Idx:             idx,
			Expr:            expr,
			Greedy:          e.Greedy,
			Skip:            e.Skip,
			Contextual:      e.Contextual,
			HiddenSuffixLen: hiddenLen,
		})
		out.KindToIdx[e.Kind] = idx
	}
	return out, nil
}

func hasSkipIdxAssigned(out *CompiledLexemes) bool {
	for _, l := range out.Lexemes {
		if l.Idx == lexer.SkipIdx {
			return true
		}
	}
	return false
}

func parseLiteral(kind spec.LexKindName, pattern string) (parser.CPTree, error) {
	p := parser.NewParser(kind, strings.NewReader(pattern))
	return p.Parse()
}
