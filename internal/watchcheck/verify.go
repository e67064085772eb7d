package watchcheck

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"watchcheck/internal/diag"
	"watchcheck/internal/diagfmt"
	"watchcheck/internal/trace"
	"watchcheck/internal/watchhost"
)

// Recorder is the recorded output of a watch host.
type Recorder interface {
	// Snapshot returns a frozen copy of the recording.
	Snapshot() watchhost.Trace
	// ClearOutput empties outputs and screen clears.
	ClearOutput()
}

var elapsedPattern = regexp.MustCompile(`^Elapsed:: [0-9]+ms`)

// StripElapsed removes a leading "Elapsed:: <n>ms" from s.
func StripElapsed(s string) string {
	return elapsedPattern.ReplaceAllString(s, "")
}

// Verify checks the recording of rec against script. On success the
// recording is cleared; on failure it is left intact and a *MismatchError
// is returned.
func Verify(rec Recorder, script Script, opts Options) error {
	opts = opts.withDefaults()
	snap := rec.Snapshot()

	span := trace.Begin(opts.Tracer, trace.ScopeCase, opts.Name, 0)
	w := &walker{
		outputs: snap.Outputs,
		clears:  snap.ScreenClears,
		opts:    opts,
		host:    formatHost{newLine: opts.NewLine, cwd: opts.CurrentDirectory},
		span:    span.ID(),
	}
	err := w.run(script)
	if err != nil {
		trace.Failure(opts.Tracer, trace.ScopeCase, "mismatch", firstLine(err.Error()), span.ID())
		span.WithExtra("segments", strconv.Itoa(w.index)).End("fail")
		return err
	}
	span.WithExtra("segments", strconv.Itoa(w.index)).End("ok")
	rec.ClearOutput()
	return nil
}

type walker struct {
	outputs      []string
	clears       []int
	index        int
	screenClears int
	opts         Options
	host         formatHost
	span         uint64
}

func (w *walker) run(s Script) error {
	if want := s.Len(); len(w.outputs) != want {
		return &MismatchError{
			Kind:         StructuralMismatch,
			Caption:      CaptionOutputCount,
			Index:        -1,
			Expected:     fmt.Sprintf("%d outputs", want),
			Actual:       fmt.Sprintf("%d outputs", len(w.outputs)),
			Outputs:      w.outputs,
			ScreenClears: w.clears,
		}
	}

	for _, log := range s.LogsBeforeWatchDiagnostic {
		if err := w.log(CaptionLogBeforeWatch, log); err != nil {
			return err
		}
	}
	if err := w.watchDiagnostic(s.WatchDiagnostic); err != nil {
		return err
	}
	for _, log := range s.LogsBeforeErrors {
		if err := w.log(CaptionLogBeforeError, log); err != nil {
			return err
		}
	}
	for _, e := range s.Errors {
		if err := w.diagnostic(e); err != nil {
			return err
		}
	}
	for _, d := range s.PostErrorsWatchDiagnostics {
		if err := w.watchDiagnostic(d); err != nil {
			return err
		}
	}

	if w.screenClears != len(w.clears) {
		return &MismatchError{
			Kind:         ScreenClearMismatch,
			Caption:      CaptionScreenClearCount,
			Index:        -1,
			Expected:     strconv.Itoa(w.screenClears),
			Actual:       fmt.Sprintf("%d at %v", len(w.clears), w.clears),
			Outputs:      w.outputs,
			ScreenClears: w.clears,
		}
	}
	return nil
}

func (w *walker) log(caption, expected string) error {
	actual := w.outputs[w.index]
	if StripElapsed(actual) != StripElapsed(expected) {
		return w.segmentError(caption, expected, actual, false)
	}
	w.advance(caption)
	return nil
}

func (w *walker) diagnostic(e Expected) error {
	expected := e.Text(w.host)
	actual := w.outputs[w.index]
	if actual != expected {
		return w.segmentError(CaptionDiagnostic, expected, actual, false)
	}
	w.advance(CaptionDiagnostic)
	return nil
}

func (w *walker) watchDiagnostic(d diag.Diagnostic) error {
	expected := diagfmt.WatchStatus(d, w.opts.NewLine, w.opts.ScreenStartingCodes)
	if !w.opts.SuppressClears && w.opts.ScreenStartingCodes.Has(d.Code) {
		if w.screenClears >= len(w.clears) || w.clears[w.screenClears] != w.index {
			actual := "no clear recorded"
			if w.screenClears < len(w.clears) {
				actual = fmt.Sprintf("clear before output %d", w.clears[w.screenClears])
			}
			return &MismatchError{
				Kind:         ScreenClearMismatch,
				Caption:      CaptionScreenClear,
				Index:        w.index,
				Expected:     fmt.Sprintf("clear before output %d (%s)", w.index, strconv.Quote(expected)),
				Actual:       actual,
				Outputs:      w.outputs,
				ScreenClears: w.clears,
			}
		}
		w.screenClears++
	}
	actual := w.outputs[w.index]
	if !strings.HasSuffix(actual, expected) {
		return w.segmentError(CaptionWatchDiagnostic, expected, actual, true)
	}
	w.advance(CaptionWatchDiagnostic)
	return nil
}

func (w *walker) advance(caption string) {
	trace.Point(w.opts.Tracer, trace.ScopeSegment, "segment:"+caption, strconv.Itoa(w.index), w.span)
	w.index++
}

func (w *walker) segmentError(caption, expected, actual string, suffix bool) error {
	return &MismatchError{
		Kind:         SegmentMismatch,
		Caption:      caption,
		Index:        w.index,
		Expected:     expected,
		Actual:       actual,
		Outputs:      w.outputs,
		ScreenClears: w.clears,
		Suffix:       suffix,
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
