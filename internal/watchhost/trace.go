package watchhost

import "slices"

// Trace is a frozen copy of everything a host recorded.
type Trace struct {
	Outputs      []string
	ScreenClears []int
	ExitStatus   *int
}

// Snapshot returns a deep copy of t.
func (t *Trace) Snapshot() Trace {
	out := Trace{
		Outputs:      slices.Clone(t.Outputs),
		ScreenClears: slices.Clone(t.ScreenClears),
	}
	if t.ExitStatus != nil {
		code := *t.ExitStatus
		out.ExitStatus = &code
	}
	return out
}

// ClearOutput truncates outputs and clears. The exit code is kept.
func (t *Trace) ClearOutput() {
	t.Outputs = t.Outputs[:0]
	t.ScreenClears = t.ScreenClears[:0]
}

// ExitCode returns the recorded exit code.
func (t *Trace) ExitCode() (int, bool) {
	if t.ExitStatus == nil {
		return 0, false
	}
	return *t.ExitStatus, true
}
