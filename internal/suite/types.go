// Package suite runs every case of a verification suite, several at a time,
// and reports progress while doing so.
package suite

import "time"

// Stage describes what is happening to a case.
type Stage string

const (
	// StageLoad reads the script and the snapshot.
	StageLoad Stage = "load"
	// StageVerify checks the snapshot against the script.
	StageVerify Stage = "verify"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	// StatusError means the case could not be checked at all.
	StatusError Status = "error"
)

// Event reports progress for a case, or for the whole run when Case is empty.
type Event struct {
	Case    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

// Result is the outcome of one case.
type Result struct {
	Case    string
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Passed reports whether the case verified.
func (r Result) Passed() bool { return r.Status == StatusPassed }

// Failed returns the results that did not pass, in input order.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed() {
			out = append(out, r)
		}
	}
	return out
}
