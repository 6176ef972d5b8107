package stats

import "testing"

func TestCountersAccumulate(t *testing.T) {
	var c Counters
	c.AddRow(3)
	c.AddRow(5)
	c.AddBytes(true, 2, 1)
	c.AddBytes(false, 4, 0)
	c.AddLexerOp()
	c.AddLexerOp()
	c.AddLexerOp()

	if c.Rows != 2 {
		t.Fatalf("Rows = %d, want 2", c.Rows)
	}
	if c.Items != 8 {
		t.Fatalf("Items = %d, want 8", c.Items)
	}
	if c.DefinitiveBytes != 2 {
		t.Fatalf("DefinitiveBytes = %d, want 2 (speculative bytes must not count)", c.DefinitiveBytes)
	}
	if c.HiddenBytes != 1 {
		t.Fatalf("HiddenBytes = %d, want 1", c.HiddenBytes)
	}
	if c.LexerOps != 3 {
		t.Fatalf("LexerOps = %d, want 3", c.LexerOps)
	}

	c.Reset()
	if c != (Counters{}) {
		t.Fatalf("expected Reset to zero all counters, got %+v", c)
	}
}
