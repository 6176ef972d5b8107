package lexical

import (
	"github.com/nihei9/cfgcore/grammar/lexical/parser"
	"github.com/nihei9/cfgcore/rx"
	"github.com/nihei9/cfgcore/utf8"
)

// compileCPTree lowers a regex-literal parse tree (one lexeme's pattern,
// parsed by the reused vartan regex-literal parser) into an rx.Ref over
// set. The recursion mirrors grammar/lexical/dfa's convCPTreeToByteTree,
// but targets the derivative-based Set instead of a Thompson byteTree.
func compileCPTree(set *rx.Set, t parser.CPTree) (rx.Ref, error) {
	if from, to, ok := t.Range(); ok {
		blocks, err := utf8.GenCharBlocks(from, to)
		if err != nil {
			return rx.NoMatch, err
		}
		var alt rx.Ref = rx.NoMatch
		first := true
		for _, b := range blocks {
			var concat rx.Ref = rx.Empty
			for i := range b.From {
				concat = set.MkConcat(concat, set.MkByteSet(rangeClassSet(b.From[i], b.To[i])))
			}
			if first {
				alt = concat
				first = false
			} else {
				alt = set.MkOr(alt, concat)
			}
		}
		return alt, nil
	}

	if inner, ok := t.Repeatable(); ok {
		e, err := compileCPTree(set, inner)
		if err != nil {
			return rx.NoMatch, err
		}
		return set.MkRepeat(e, 0, rx.Unbounded)
	}

	if inner, ok := t.Optional(); ok {
		e, err := compileCPTree(set, inner)
		if err != nil {
			return rx.NoMatch, err
		}
		return set.MkRepeat(e, 0, 1)
	}

	if left, right, ok := t.Concatenation(); ok {
		l, err := compileCPTree(set, left)
		if err != nil {
			return rx.NoMatch, err
		}
		r, err := compileCPTree(set, right)
		if err != nil {
			return rx.NoMatch, err
		}
		return set.MkConcat(l, r), nil
	}

	if left, right, ok := t.Alternatives(); ok {
		l, err := compileCPTree(set, left)
		if err != nil {
			return rx.NoMatch, err
		}
		r, err := compileCPTree(set, right)
		if err != nil {
			return rx.NoMatch, err
		}
		return set.MkOr(l, r), nil
	}

	return rx.NoMatch, nil
}

func rangeClassSet(from, to byte) rx.ClassSet {
	var s rx.ClassSet
	for b := int(from); b <= int(to); b++ {
		s.Add(byte(b))
	}
	return s
}
