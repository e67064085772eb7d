package diagfmt

import (
	"watchcheck/internal/diag"
)

// WatchStatus renders a watch status diagnostic without the host's time
// prefix: " - <message>" followed by two newlines when the code opens a new
// screen and one newline otherwise. Nothing is wrapped or truncated.
func WatchStatus(d diag.Diagnostic, newline string, screenStarting diag.CodeSet) string {
	nl := newline
	if screenStarting.Has(d.Code) {
		nl = newline + newline
	}
	return " - " + d.Flatten(newline) + nl
}

// WatchStatusLine prefixes WatchStatus with a host timestamp, producing the
// complete line a watch host writes.
func WatchStatusLine(timestamp string, d diag.Diagnostic, newline string, screenStarting diag.CodeSet) string {
	return timestamp + WatchStatus(d, newline, screenStarting)
}
