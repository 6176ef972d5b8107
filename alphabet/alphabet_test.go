package alphabet

import "testing"

func TestBuildSeparatesOverlappingRanges(t *testing.T) {
	tab := Build([]Range{
		{'a', 'z'},
		{'a', 'm'},
		{'0', '9'},
	})

	if tab.Class('a') != tab.Class('m') {
		t.Fatalf("expected 'a' and 'm' in the same class (both in a-z and a-m)")
	}
	if tab.Class('a') == tab.Class('n') {
		t.Fatalf("expected 'a' and 'n' in different classes ('n' is only in a-z)")
	}
	if tab.Class('0') == tab.Class('a') {
		t.Fatalf("expected '0' and 'a' in different classes")
	}
	if tab.Class('!') == tab.Class('a') {
		t.Fatalf("expected bytes outside any input range to differ from bytes inside one")
	}
}

func TestBuildNoRangesIsOneClass(t *testing.T) {
	tab := Build(nil)
	if tab.NumClasses != 1 {
		t.Fatalf("expected a single catch-all class, got %v", tab.NumClasses)
	}
	for b := 0; b < 256; b++ {
		if tab.Class(byte(b)) != 0 {
			t.Fatalf("expected byte %v in class 0, got %v", b, tab.Class(byte(b)))
		}
	}
}

func TestBuildDeterministicOrdering(t *testing.T) {
	a := Build([]Range{{'a', 'z'}, {'0', '9'}})
	b := Build([]Range{{'0', '9'}, {'a', 'z'}})
	if a != b {
		t.Fatalf("expected class numbering to be independent of input order")
	}
}
