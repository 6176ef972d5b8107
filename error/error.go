package error

import (
	"fmt"
	"strings"
)

// SpecError reports one grammar-source compile error: Row is the 1-indexed
// line the error was found on (0 if unknown), FilePath/SourceName identify
// which input it came from when more than one grammar is being compiled at
// once (e.g. a stdin fallback named "stdin" with no real FilePath).
type SpecError struct {
	Cause      error
	Row        int
	FilePath   string
	SourceName string
}

func (e *SpecError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, "%v: ", e.Row)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	return b.String()
}

// SpecErrors collects every error found while compiling one grammar
// source, so a front end can report them all instead of stopping at the
// first (cmd/cfgcore compile attaches FilePath/SourceName to every entry
// once the source is known).
type SpecErrors []*SpecError

func (es SpecErrors) Error() string {
	lines := make([]string, len(es))
	for i, e := range es {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}
