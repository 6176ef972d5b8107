package grammar

import "testing"

func TestPackDerivedRoundTripsThroughUniqueEntriesTable(t *testing.T) {
	syms := []DerivedSymbol{
		{Name: "expr", Terminal: false, Nullable: false},
		{Name: "opt", Terminal: false, Nullable: true},
		{Name: "digit", Terminal: true, Nullable: false, LexemeIdx: 1},
		{Name: "ws", Terminal: true, Nullable: false, LexemeIdx: 0},
		// Duplicates expr's row; exercises UniqueEntriesTable's dedup.
		{Name: "stmt", Terminal: false, Nullable: false},
	}

	names, tab, err := PackDerived(syms)
	if err != nil {
		t.Fatalf("PackDerived: %v", err)
	}
	if len(names) != len(syms) {
		t.Fatalf("expected %v names, got %v", len(syms), len(names))
	}
	if len(tab.UniqueEntries) >= len(syms)*derivedTableCols {
		t.Fatalf("expected deduplication to shrink UniqueEntries below the uncompressed size")
	}

	back, err := UnpackDerived(names, tab)
	if err != nil {
		t.Fatalf("UnpackDerived: %v", err)
	}
	if len(back) != len(syms) {
		t.Fatalf("expected %v symbols back, got %v", len(syms), len(back))
	}
	for i, want := range syms {
		got := back[i]
		if got != want {
			t.Fatalf("row %v: expected %+v, got %+v", i, want, got)
		}
	}
}
