package tester

import (
	"os"
	"path/filepath"
	"testing"

	specgrammar "github.com/nihei9/cfgcore/spec/grammar"
)

func helloGrammarSource() *specgrammar.GrammarSource {
	return &specgrammar.GrammarSource{
		Start: "greeting",
		Terminals: []specgrammar.TerminalDecl{
			{Name: "hello", Pattern: "hello"},
		},
		Rules: []specgrammar.RuleDecl{
			{LHS: "greeting", RHS: []string{"hello"}},
		},
	}
}

// TestRunAcceptsEndToEndCommitScenario grounds spec.md 8's "End-to-end
// commit" scenario: a grammar accepting only "hello" must force every byte
// of it and then report accepting.
func TestRunAcceptsEndToEndCommitScenario(t *testing.T) {
	c := &TestCaseWithMetadata{
		TestCase: &TestCase{
			Name:       "hello-end-to-end",
			Grammar:    helloGrammarSource(),
			Input:      "hello",
			Accept:     true,
			ForceBytes: "hello",
		},
		FilePath: "<inline>",
	}
	r := runCase(c)
	if r.Error != nil {
		t.Fatalf("expected case to pass, got %v", r.Error)
	}
}

func TestRunRejectsWrongPrefix(t *testing.T) {
	c := &TestCaseWithMetadata{
		TestCase: &TestCase{
			Name:     "hello-reject",
			Grammar:  helloGrammarSource(),
			Input:    "helxo",
			Accept:   false,
			RejectAt: 3,
		},
		FilePath: "<inline>",
	}
	r := runCase(c)
	if r.Error != nil {
		t.Fatalf("expected case to pass, got %v", r.Error)
	}
}

func TestListTestCasesLoadsJSONFilesRecursively(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	const doc = `{
		"name": "hello",
		"grammar": {
			"start": "greeting",
			"terminals": [{"name": "hello", "pattern": "hello"}],
			"rules": [{"lhs": "greeting", "rhs": ["hello"]}]
		},
		"input": "hello",
		"accept": true
	}`
	if err := os.WriteFile(filepath.Join(sub, "case.json"), []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cases := ListTestCases(dir)
	if len(cases) != 1 {
		t.Fatalf("expected exactly 1 case (non-.json files skipped), got %v", len(cases))
	}
	if cases[0].Error != nil {
		t.Fatalf("expected the case to parse cleanly, got %v", cases[0].Error)
	}

	results := (&Tester{Cases: cases}).Run()
	if len(results) != 1 || results[0].Error != nil {
		t.Fatalf("expected the loaded case to pass, got %+v", results)
	}
}
