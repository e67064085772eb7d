package diagfmt

import (
	"fmt"
	"path/filepath"
	"strings"

	"watchcheck/internal/diag"
	"watchcheck/internal/source"
)

// Host supplies what formatting needs from the watch host.
type Host interface {
	NewLine() string
	CurrentDirectory() string
}

// Diagnostic renders d the way a compiler prints it outside of watch status
// lines:
//
//	<path>(<line>,<col>): <category> TS<code>: <message><newline>
//
// The location prefix is omitted for global diagnostics and for spans that
// cannot be resolved.
func Diagnostic(d diag.Diagnostic, host Host) string {
	return DiagnosticWith(d, host, PathModeRelative)
}

// DiagnosticWith is Diagnostic with an explicit path mode.
func DiagnosticWith(d diag.Diagnostic, host Host, mode PathMode) string {
	nl := host.NewLine()
	msg := fmt.Sprintf("%s %s: %s%s", d.Category, d.Code.ID(), d.Flatten(nl), nl)
	pos, ok := Position(d)
	if !ok {
		return msg
	}
	return fmt.Sprintf("%s(%d,%d): %s", displayPath(d.File, host.CurrentDirectory(), mode), pos.Line, pos.Col, msg)
}

// Position resolves the start of d's span. The column counts UTF-16 code
// units like a TypeScript host does.
func Position(d diag.Diagnostic) (source.LineCol, bool) {
	sp, ok := d.Span()
	if !ok {
		return source.LineCol{}, false
	}
	return d.File.UTF16Position(sp.Start), true
}

func displayPath(f *source.File, cwd string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", cwd)
	case PathModeBasename:
		return f.FormatPath("basename", cwd)
	case PathModeAuto:
		return f.FormatPath("auto", cwd)
	}
	if cwd == "" || !filepath.IsAbs(f.Path) {
		return f.Path
	}
	// unlike source.RelativePath this keeps ../ segments for files outside cwd
	rel, err := filepath.Rel(filepath.FromSlash(cwd), filepath.FromSlash(f.Path))
	if err != nil {
		return f.Path
	}
	return filepath.ToSlash(rel)
}

// Diagnostics renders every diagnostic with Diagnostic and concatenates them.
func Diagnostics(ds []diag.Diagnostic, host Host) string {
	var b strings.Builder
	for _, d := range ds {
		b.WriteString(Diagnostic(d, host))
	}
	return b.String()
}
