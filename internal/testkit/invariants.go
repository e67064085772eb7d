// Package testkit holds invariant checks shared by tests of the verifier.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"watchcheck/internal/diag"
	"watchcheck/internal/watchhost"
)

// CheckDiagnosticSpan runs a minimal set of span invariants on d:
// 1) start and length are either both set or both absent
// 2) a span requires a file
// 3) the span is non-negative and lies within the file content
func CheckDiagnosticSpan(d diag.Diagnostic) error {
	if (d.Start == nil) != (d.Length == nil) {
		return fmt.Errorf("start and length must be set together: start=%v length=%v", d.Start, d.Length)
	}
	if d.Start == nil {
		return nil
	}
	if d.File == nil {
		return fmt.Errorf("span without file: start=%d", *d.Start)
	}
	start, length := *d.Start, *d.Length
	// a missing needle leaves start at -1
	if start == -1 {
		return nil
	}
	if start < 0 || length < 0 {
		return fmt.Errorf("negative span: start=%d length=%d", start, length)
	}
	size, err := safecast.Conv[int](len(d.File.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if start+length > size {
		return fmt.Errorf("span [%d,%d) beyond content of %s (%d bytes)", start, start+length, d.File.Path, size)
	}
	return nil
}

// CheckTrace validates a recorded trace:
// 1) screen clear indices are strictly increasing
// 2) every clear points at an existing output
func CheckTrace(tr watchhost.Trace) error {
	prev := -1
	for i, c := range tr.ScreenClears {
		if c <= prev {
			return fmt.Errorf("screen clear #%d at output %d does not follow %d", i, c, prev)
		}
		if c >= len(tr.Outputs) {
			return fmt.Errorf("screen clear #%d at output %d, only %d outputs recorded", i, c, len(tr.Outputs))
		}
		prev = c
	}
	return nil
}
