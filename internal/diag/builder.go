package diag

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/language"

	"watchcheck/internal/source"
)

// Program is the part of a compiled program the builder needs.
type Program interface {
	// SourceFileByPath resolves a canonical path to the program's file.
	SourceFileByPath(path string) (*source.File, bool)
	CurrentDirectory() string
	Language() language.Tag
}

// ResolutionError reports that an expected diagnostic could not be built
// because its file is not part of the program.
type ResolutionError struct {
	Path string
	Cwd  string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("diag: file %q (cwd %q) is not part of the program", e.Path, e.Cwd)
}

// FromFile packages an already resolved file, text and span with the
// category and code of msg. No formatting happens here.
func FromFile(file *source.File, text string, start, length *int, msg Message) Diagnostic {
	return Diagnostic{
		File:        file,
		Start:       start,
		Length:      length,
		MessageText: text,
		Category:    msg.Category,
		Code:        msg.Code,
	}
}

// Global creates a file-less English diagnostic.
func Global(msg Message, args ...any) Diagnostic {
	return English.Global(msg, args...)
}

// ErrorsFound returns the English watch summary for n reported errors.
func ErrorsFound(n int) Diagnostic {
	return English.ErrorsFound(n)
}

// CanonicalPath makes p absolute against cwd and lower-cases it, the form
// programs use as file keys.
func CanonicalPath(p, cwd string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if !path.IsAbs(p) {
		p = path.Join(strings.ReplaceAll(cwd, "\\", "/"), p)
	}
	return strings.ToLower(path.Clean(p))
}

// AtSpan builds a diagnostic for an explicit span of the file at filePath.
func AtSpan(prog Program, filePath string, start, length int, msg Message, args ...any) (Diagnostic, error) {
	file, err := resolve(prog, filePath)
	if err != nil {
		return Diagnostic{}, err
	}
	return atSpan(prog, file, start, length, msg, args...), nil
}

// AtSubstring builds a diagnostic whose span covers the first occurrence of
// needle in the file's text. A missing needle yields start -1; that is the
// caller's mistake and surfaces later as a mismatch.
func AtSubstring(prog Program, filePath string, msg Message, needle string, args ...any) (Diagnostic, error) {
	file, err := resolve(prog, filePath)
	if err != nil {
		return Diagnostic{}, err
	}
	start := strings.Index(file.Text(), needle)
	return atSpan(prog, file, start, len(needle), msg, args...), nil
}

// ModuleNotFound builds the "Cannot find module" error for an import of
// moduleName in the file at filePath.
func ModuleNotFound(prog Program, filePath, moduleName string) (Diagnostic, error) {
	quoted := `"` + moduleName + `"`
	return AtSubstring(prog, filePath, CannotFindModule, quoted, moduleName)
}

func atSpan(prog Program, file *source.File, start, length int, msg Message, args ...any) Diagnostic {
	text := NewLocalizer(prog.Language()).Text(msg, args...)
	return FromFile(file, text, &start, &length, msg)
}

func resolve(prog Program, filePath string) (*source.File, error) {
	cwd := prog.CurrentDirectory()
	file, ok := prog.SourceFileByPath(CanonicalPath(filePath, cwd))
	if !ok || file == nil {
		return nil, &ResolutionError{Path: filePath, Cwd: cwd}
	}
	return file, nil
}
