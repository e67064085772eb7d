package watchcheck

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Kind classifies a verification failure.
type Kind uint8

const (
	// StructuralMismatch: the number of outputs differs from the script.
	StructuralMismatch Kind = iota + 1
	// SegmentMismatch: one log, error or status line differs.
	SegmentMismatch
	// ScreenClearMismatch: a clear is missing, misplaced or unexplained.
	ScreenClearMismatch
	// ExitCodeMismatch: the recorded exit code differs.
	ExitCodeMismatch
)

func (k Kind) String() string {
	switch k {
	case StructuralMismatch:
		return "structural mismatch"
	case SegmentMismatch:
		return "segment mismatch"
	case ScreenClearMismatch:
		return "screen clear mismatch"
	case ExitCodeMismatch:
		return "exit code mismatch"
	default:
		return "mismatch"
	}
}

// Segment captions.
const (
	CaptionLogBeforeWatch   = "logsBeforeWatchDiagnostic"
	CaptionLogBeforeError   = "logBeforeError"
	CaptionDiagnostic       = "Diagnostic"
	CaptionWatchDiagnostic  = "Watch diagnostic"
	CaptionOutputCount      = "output count"
	CaptionScreenClear      = "screen clear"
	CaptionScreenClearCount = "number of screen clears"
	CaptionExitCode         = "exit code"
	CaptionRootFiles        = "Program rootFileNames"
	CaptionActualFiles      = "Program actual files"
)

// MismatchError describes where recorded output diverged from a script.
type MismatchError struct {
	Kind    Kind
	Caption string
	// Index is the output cursor at the failure, -1 when no single output
	// is at fault.
	Index        int
	Expected     string
	Actual       string
	Outputs      []string
	ScreenClears []int
	// Suffix marks status line checks, where Actual only has to end with
	// Expected.
	Suffix bool
	// Detail is a preformatted difference report, e.g. a list diff.
	Detail string
}

func (e *MismatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: expected %s", e.Kind, e.Caption)
	if e.Index >= 0 {
		fmt.Fprintf(&sb, " at output %d", e.Index)
	}
	sb.WriteString("\n")

	exp := strconv.Quote(e.Expected)
	act := strconv.Quote(e.Actual)
	if e.Kind == SegmentMismatch {
		label := "expected:"
		if e.Suffix {
			label = "suffix:  "
		}
		fmt.Fprintf(&sb, "  %s %s\n", label, exp)
		fmt.Fprintf(&sb, "  actual:   %s\n", act)
		if col, ok := firstDifference(exp, act, e.Suffix); ok {
			fmt.Fprintf(&sb, "            %s^\n", strings.Repeat(" ", col))
		}
		fmt.Fprintf(&sb, "  diff:     %s\n", InlineDiff(e.Expected, e.Actual))
	} else {
		fmt.Fprintf(&sb, "  expected: %s\n  actual:   %s\n", e.Expected, e.Actual)
	}
	if e.Detail != "" {
		sb.WriteString(e.Detail)
		if !strings.HasSuffix(e.Detail, "\n") {
			sb.WriteString("\n")
		}
	}
	if e.Outputs != nil {
		sb.WriteString(dumpOutputs(e.Outputs, e.ScreenClears))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// InlineDiff renders the character difference between expected and actual
// as one quoted line: [-removed-] and {+added+}.
func InlineDiff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, d := range diffs {
		text := quoteInner(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + text + "+}")
		default:
			sb.WriteString(text)
		}
	}
	return sb.String()
}

// firstDifference returns the display column in b of the first rune that
// differs from a. Suffix comparisons align both strings at their ends.
func firstDifference(a, b string, suffix bool) (int, bool) {
	if suffix {
		ra, rb := []rune(a), []rune(b)
		i, j := len(ra)-1, len(rb)-1
		// skip the closing quotes and the common tail
		for i >= 0 && j >= 0 && ra[i] == rb[j] {
			i--
			j--
		}
		if j < 0 {
			return 0, true
		}
		return runewidth.StringWidth(string(rb[:j])), true
	}
	ra, rb := []rune(a), []rune(b)
	n := min(len(ra), len(rb))
	for i := 0; i < n; i++ {
		if ra[i] != rb[i] {
			return runewidth.StringWidth(string(rb[:i])), true
		}
	}
	if len(ra) == len(rb) {
		return 0, false
	}
	return runewidth.StringWidth(string(rb[:n])), true
}

func quoteInner(s string) string {
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}

func dumpOutputs(outputs []string, clears []int) string {
	cleared := make(map[int]int, len(clears))
	for _, c := range clears {
		cleared[c]++
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "  outputs (%d):\n", len(outputs))
	for i, out := range outputs {
		marker := " "
		if cleared[i] > 0 {
			marker = "#"
		}
		fmt.Fprintf(&sb, "  %s%3d %s\n", marker, i, strconv.Quote(out))
	}
	if len(clears) > 0 {
		fmt.Fprintf(&sb, "  screen clears: %v\n", clears)
	}
	return sb.String()
}
