package watchhost

import (
	"slices"
	"sync"
	"time"

	"watchcheck/internal/diag"
	"watchcheck/internal/diagfmt"
)

// TimestampLayout is the clock format written before watch status lines.
const TimestampLayout = "3:04:05 PM"

// Host records console output. All methods are goroutine-safe.
type Host struct {
	mu       sync.Mutex
	rec      Trace
	newLine  string
	cwd      string
	codes    diag.CodeSet
	preserve bool
	clock    func() time.Time
	reporter diag.Reporter
}

// Option configures a Host.
type Option func(*Host)

// WithNewLine sets the newline sequence. Default "\n".
func WithNewLine(nl string) Option {
	return func(h *Host) { h.newLine = nl }
}

// WithCurrentDirectory sets the directory diagnostics paths are relative to.
func WithCurrentDirectory(dir string) Option {
	return func(h *Host) { h.cwd = dir }
}

// WithScreenStartingCodes replaces the default screen-starting codes.
func WithScreenStartingCodes(codes diag.CodeSet) Option {
	return func(h *Host) { h.codes = codes }
}

// WithPreserveOutput disables screen clears, like a watch session started
// with --preserveWatchOutput.
func WithPreserveOutput(preserve bool) Option {
	return func(h *Host) { h.preserve = preserve }
}

// WithClock sets the clock used for status line timestamps.
func WithClock(clock func() time.Time) Option {
	return func(h *Host) { h.clock = clock }
}

// WithReporter forwards every reported diagnostic to r as well.
func WithReporter(r diag.Reporter) Option {
	return func(h *Host) { h.reporter = r }
}

// New creates an empty recording host.
func New(opts ...Option) *Host {
	h := &Host{
		newLine: "\n",
		cwd:     "/",
		codes:   diag.ScreenStartingCodes(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewLine returns the host's newline sequence.
func (h *Host) NewLine() string { return h.newLine }

// CurrentDirectory returns the host's working directory.
func (h *Host) CurrentDirectory() string { return h.cwd }

// ScreenStartingCodes returns the codes that clear the screen.
func (h *Host) ScreenStartingCodes() diag.CodeSet { return h.codes }

// PreserveOutput reports whether screen clears are disabled.
func (h *Host) PreserveOutput() bool { return h.preserve }

// Write appends s as one output entry.
func (h *Host) Write(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rec.Outputs = append(h.rec.Outputs, s)
}

// Log appends s followed by the newline sequence.
func (h *Host) Log(s string) {
	h.Write(s + h.newLine)
}

// ClearScreen records that the next output starts on a cleared screen.
func (h *Host) ClearScreen() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rec.ScreenClears = append(h.rec.ScreenClears, len(h.rec.Outputs))
}

// Exit records the process exit code. The last call wins.
func (h *Host) Exit(code int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rec.ExitStatus = &code
}

// ExitCode returns the recorded exit code.
func (h *Host) ExitCode() (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rec.ExitCode()
}

// Output returns a copy of the recorded outputs.
func (h *Host) Output() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.rec.Outputs)
}

// ScreenClears returns a copy of the recorded clear positions.
func (h *Host) ScreenClears() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.rec.ScreenClears)
}

// Snapshot returns a frozen copy of the recording.
func (h *Host) Snapshot() Trace {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rec.Snapshot()
}

// ClearOutput drops recorded outputs and clears so the next watch cycle
// starts from an empty buffer.
func (h *Host) ClearOutput() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rec.ClearOutput()
}

// ReportWatchStatus writes a timestamped watch status line, clearing the
// screen first when d opens a new screen.
func (h *Host) ReportWatchStatus(d diag.Diagnostic) {
	line := diagfmt.WatchStatusLine(h.clock().Format(TimestampLayout), d, h.newLine, h.codes)

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.preserve && h.codes.Has(d.Code) {
		h.rec.ScreenClears = append(h.rec.ScreenClears, len(h.rec.Outputs))
	}
	h.rec.Outputs = append(h.rec.Outputs, line)
}

// Report writes d in the full diagnostic form. Host satisfies diag.Reporter.
func (h *Host) Report(d diag.Diagnostic) {
	h.Write(diagfmt.Diagnostic(d, h))
	if h.reporter != nil {
		h.reporter.Report(d)
	}
}

var (
	_ diag.Reporter = (*Host)(nil)
	_ diagfmt.Host  = (*Host)(nil)
)
