package watchcheck

import (
	"watchcheck/internal/diag"
	"watchcheck/internal/diagfmt"
)

// Expected is one expected error: either a structured diagnostic, compared
// through the full formatter, or text the caller already formatted.
type Expected struct {
	Diagnostic *diag.Diagnostic
	Raw        string
}

// Diag wraps a diagnostic as an expected error.
func Diag(d diag.Diagnostic) Expected {
	return Expected{Diagnostic: &d}
}

// Raw wraps preformatted text as an expected error.
func Raw(s string) Expected {
	return Expected{Raw: s}
}

// Diags wraps every diagnostic.
func Diags(ds ...diag.Diagnostic) []Expected {
	out := make([]Expected, len(ds))
	for i, d := range ds {
		out[i] = Diag(d)
	}
	return out
}

// Raws wraps every string.
func Raws(ss ...string) []Expected {
	out := make([]Expected, len(ss))
	for i, s := range ss {
		out[i] = Raw(s)
	}
	return out
}

// IsDiagnostic reports whether e holds a structured diagnostic.
func (e Expected) IsDiagnostic() bool {
	return e.Diagnostic != nil
}

// Text returns the exact output e stands for.
func (e Expected) Text(host diagfmt.Host) string {
	if e.Diagnostic != nil {
		return diagfmt.Diagnostic(*e.Diagnostic, host)
	}
	return e.Raw
}

// Script is the expected output of one watch cycle. Segments are always
// checked in field order.
type Script struct {
	LogsBeforeWatchDiagnostic  []string
	WatchDiagnostic            diag.Diagnostic
	LogsBeforeErrors           []string
	Errors                     []Expected
	PostErrorsWatchDiagnostics []diag.Diagnostic
}

// Len returns the number of outputs the script accounts for.
func (s Script) Len() int {
	return len(s.LogsBeforeWatchDiagnostic) + 1 + len(s.LogsBeforeErrors) +
		len(s.Errors) + len(s.PostErrorsWatchDiagnostics)
}

// InitialScript is the script of a first compilation: the "Starting
// compilation in watch mode" status, errs, and the errors-found summary.
func InitialScript(errs []Expected, logsBeforeErrors []string, loc *diag.Localizer) Script {
	loc = localizer(loc)
	return Script{
		WatchDiagnostic:            loc.Global(diag.StartingCompilationInWatchMode),
		LogsBeforeErrors:           logsBeforeErrors,
		Errors:                     errs,
		PostErrorsWatchDiagnostics: []diag.Diagnostic{loc.ErrorsFound(len(errs))},
	}
}

// IncrementalScript is the script of a recompilation after a file change.
func IncrementalScript(errs []Expected, logsBeforeWatch, logsBeforeErrors []string, loc *diag.Localizer) Script {
	loc = localizer(loc)
	s := IncrementalWithExitScript(errs, logsBeforeWatch, logsBeforeErrors, loc)
	s.PostErrorsWatchDiagnostics = []diag.Diagnostic{loc.ErrorsFound(len(errs))}
	return s
}

// IncrementalWithExitScript is a recompilation that ends the session: no
// summary line follows the errors.
func IncrementalWithExitScript(errs []Expected, logsBeforeWatch, logsBeforeErrors []string, loc *diag.Localizer) Script {
	return Script{
		LogsBeforeWatchDiagnostic: logsBeforeWatch,
		WatchDiagnostic:           localizer(loc).Global(diag.FileChangeDetected),
		LogsBeforeErrors:          logsBeforeErrors,
		Errors:                    errs,
	}
}

func localizer(loc *diag.Localizer) *diag.Localizer {
	if loc == nil {
		return diag.English
	}
	return loc
}
