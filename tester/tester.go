// Package tester runs scenario test cases (spec.md 8 "Scenarios") against a
// compiled grammar: push a byte string and assert whether the parser accepts
// it, rejects it at a given offset, or forces a particular byte run.
package tester

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nihei9/cfgcore/grammar/dsl"
	"github.com/nihei9/cfgcore/parser"
	specgrammar "github.com/nihei9/cfgcore/spec/grammar"
)

// TestCase is one scenario: a grammar source plus an input and the
// behavior the parser must exhibit when that input is pushed byte by byte.
type TestCase struct {
	Name    string                      `json:"name"`
	Grammar *specgrammar.GrammarSource  `json:"grammar"`
	Input   string                      `json:"input"`

	// Accept, if true, requires is_accepting() to be true after every byte
	// of Input has been pushed. If false, RejectAt must be set.
	Accept bool `json:"accept"`
	// RejectAt is the byte offset into Input at which try_push_byte must
	// return false; ignored when Accept is true.
	RejectAt int `json:"reject_at,omitempty"`

	// ForceBytes, if non-empty, asserts that force_bytes() from the
	// initial state returns exactly these bytes before Input is pushed.
	ForceBytes string `json:"force_bytes,omitempty"`
}

// TestCaseWithMetadata pairs a parsed TestCase with the file it came from,
// so a load error can still be reported against a path (mirrors the
// teacher's ListTestCases shape).
type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases loads every *.json file under testPath (a single file or a
// directory, recursively).
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{{FilePath: testPath, Error: err}}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{{TestCase: c, FilePath: testPath, Error: err}}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{{FilePath: testPath, Error: err}}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		if e.IsDir() {
			cases = append(cases, ListTestCases(filepath.Join(testPath, e.Name()))...)
			continue
		}
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		cases = append(cases, ListTestCases(filepath.Join(testPath, e.Name()))...)
	}
	return cases
}

func parseTestCase(path string) (*TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var c TestCase
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// TestResult is one case's outcome.
type TestResult struct {
	TestCasePath string
	Error        error
}

func (r *TestResult) String() string {
	if r.Error != nil {
		return fmt.Sprintf("Failed %v: %v", r.TestCasePath, r.Error)
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

// Tester runs a batch of loaded cases.
type Tester struct {
	Cases []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, runCase(c))
	}
	return rs
}

func runCase(c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{TestCasePath: c.FilePath, Error: c.Error}
	}
	tc := c.TestCase

	g, err := dsl.Load(tc.Grammar)
	if err != nil {
		return &TestResult{TestCasePath: c.FilePath, Error: fmt.Errorf("load grammar: %w", err)}
	}
	p, err := parser.New(g, true, parser.Options{})
	if err != nil {
		return &TestResult{TestCasePath: c.FilePath, Error: fmt.Errorf("new parser: %w", err)}
	}

	if tc.ForceBytes != "" {
		got := p.ForceBytes()
		if !bytes.Equal(got, []byte(tc.ForceBytes)) {
			return &TestResult{TestCasePath: c.FilePath, Error: fmt.Errorf("force_bytes: expected %q, got %q", tc.ForceBytes, got)}
		}
	}

	input := []byte(tc.Input)
	for i, b := range input {
		if !p.TryPushByte(b) {
			if !tc.Accept && i == tc.RejectAt {
				return &TestResult{TestCasePath: c.FilePath}
			}
			return &TestResult{TestCasePath: c.FilePath, Error: fmt.Errorf("try_push_byte rejected at offset %v, expected reject_at=%v accept=%v", i, tc.RejectAt, tc.Accept)}
		}
	}
	if !tc.Accept {
		return &TestResult{TestCasePath: c.FilePath, Error: fmt.Errorf("expected a reject at offset %v but the full input was accepted", tc.RejectAt)}
	}
	if !p.IsAccepting() {
		return &TestResult{TestCasePath: c.FilePath, Error: fmt.Errorf("expected is_accepting() after the full input")}
	}
	return &TestResult{TestCasePath: c.FilePath}
}
