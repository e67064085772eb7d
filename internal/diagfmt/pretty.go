package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"watchcheck/internal/diag"
	"watchcheck/internal/source"
)

// Pretty formats diagnostics for a human reader. For each diagnostic it prints
//
//	<path>:<line>:<col>: <category> <CODE>: <message>
//
// then the source line with the span underlined by ^~~~. Global diagnostics
// get the header only. Color is enabled by option.
func Pretty(w io.Writer, ds []diag.Diagnostic, opts PrettyOpts) error {
	nl := opts.NewLine
	if nl == "" {
		nl = "\n"
	}
	for _, d := range ds {
		if err := prettyOne(w, d, opts, nl); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, opts PrettyOpts, nl string) error {
	label := categoryColor(d.Category, opts.Color).Sprint(d.Category.String())
	msg := d.Flatten(nl)

	sp, ok := d.Span()
	if !ok {
		_, err := fmt.Fprintf(w, "%s %s: %s%s", label, d.Code.ID(), msg, nl)
		return err
	}

	pos := d.File.Position(sp.Start)
	path := displayPath(d.File, opts.Cwd, opts.PathMode)
	if _, err := fmt.Fprintf(w, "%s:%d:%d: %s %s: %s%s", path, pos.Line, pos.Col, label, d.Code.ID(), msg, nl); err != nil {
		return err
	}

	line := lineText(d.File, pos.Line)
	if opts.Width > 0 && runewidth.StringWidth(line) > opts.Width {
		line = runewidth.Truncate(line, opts.Width, "...")
	}
	gutter := fmt.Sprintf("%5d | ", pos.Line)
	if _, err := fmt.Fprintf(w, "%s%s%s", gutter, line, nl); err != nil {
		return err
	}

	// columns are bytes, the caret has to land on display cells
	startByte := min(int(pos.Col-1), len(line))
	endByte := min(startByte+int(sp.Len()), len(line))
	pad := runewidth.StringWidth(line[:startByte])
	width := max(runewidth.StringWidth(line[startByte:endByte]), 1)
	underline := "^" + strings.Repeat("~", width-1)
	caret := categoryColor(d.Category, opts.Color).Sprint(underline)
	_, err := fmt.Fprintf(w, "%s%s%s%s", strings.Repeat(" ", len(gutter)), strings.Repeat(" ", pad), caret, nl)
	return err
}

func lineText(f *source.File, line uint32) string {
	if line == 0 {
		return ""
	}
	start := 0
	if line > 1 {
		idx := int(line) - 2
		if idx >= len(f.LineIdx) {
			return ""
		}
		start = int(f.LineIdx[idx]) + 1
	}
	end := len(f.Content)
	if idx := int(line) - 1; idx < len(f.LineIdx) {
		end = int(f.LineIdx[idx])
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

func categoryColor(c diag.Category, enabled bool) *color.Color {
	var col *color.Color
	switch c {
	case diag.CategoryError:
		col = color.New(color.FgRed, color.Bold)
	case diag.CategoryWarning:
		col = color.New(color.FgYellow, color.Bold)
	default:
		col = color.New(color.FgCyan)
	}
	if enabled {
		col.EnableColor()
	} else {
		col.DisableColor()
	}
	return col
}
