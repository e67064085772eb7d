package watchcheck

import "watchcheck/internal/watchhost"

// Replay writes script into h the way a conforming watch session would:
// status lines through the host's status reporter (clearing the screen when
// their code asks for it), errors through the full formatter, and logs as
// they are.
func Replay(h *watchhost.Host, s Script) {
	for _, log := range s.LogsBeforeWatchDiagnostic {
		h.Write(log)
	}
	h.ReportWatchStatus(s.WatchDiagnostic)
	for _, log := range s.LogsBeforeErrors {
		h.Write(log)
	}
	for _, e := range s.Errors {
		if e.IsDiagnostic() {
			h.Report(*e.Diagnostic)
			continue
		}
		h.Write(e.Raw)
	}
	for _, d := range s.PostErrorsWatchDiagnostics {
		h.ReportWatchStatus(d)
	}
}
