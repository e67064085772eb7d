// Package program provides an in-memory compiled-program double: a set of
// root files, the source files they pulled in, and the lookups the watch
// verifier needs.
package program

import (
	"sort"

	"golang.org/x/text/language"

	"watchcheck/internal/diag"
	"watchcheck/internal/source"
)

// Program is a snapshot of the files a watch cycle compiled.
type Program struct {
	fs        *source.FileSet
	cwd       string
	lang      language.Tag
	rootNames []string
	byPath    map[string]source.FileID // canonical path -> file
	order     []string                 // canonical paths in insertion order
}

// Option customizes a Program.
type Option func(*Program)

// WithLanguage sets the language used to localize expected messages.
func WithLanguage(tag language.Tag) Option {
	return func(p *Program) { p.lang = tag }
}

// New creates an empty program rooted at cwd.
func New(cwd string, opts ...Option) *Program {
	p := &Program{
		fs:     source.NewFileSetWithBase(cwd),
		cwd:    cwd,
		lang:   language.English,
		byPath: make(map[string]source.FileID),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddRoot adds a root file (one named on the command line or by the config).
func (p *Program) AddRoot(path, content string) *source.File {
	f := p.AddFile(path, content)
	p.rootNames = append(p.rootNames, path)
	return f
}

// AddFile adds a non-root source file, e.g. an imported module or a lib file.
// Adding the same path again replaces the program's view of it.
func (p *Program) AddFile(path, content string) *source.File {
	id := p.fs.AddNormalized(path, []byte(content))
	key := diag.CanonicalPath(path, p.cwd)
	if _, seen := p.byPath[key]; !seen {
		p.order = append(p.order, key)
	}
	p.byPath[key] = id
	return p.fs.Get(id)
}

// SourceFileByPath implements diag.Program.
func (p *Program) SourceFileByPath(path string) (*source.File, bool) {
	id, ok := p.byPath[path]
	if !ok {
		return nil, false
	}
	return p.fs.Get(id), true
}

// SourceFile resolves a path written the way a test author would write it.
func (p *Program) SourceFile(path string) (*source.File, bool) {
	return p.SourceFileByPath(diag.CanonicalPath(path, p.cwd))
}

// CurrentDirectory implements diag.Program.
func (p *Program) CurrentDirectory() string { return p.cwd }

// Language implements diag.Program.
func (p *Program) Language() language.Tag { return p.lang }

// FileSet exposes the underlying file set.
func (p *Program) FileSet() *source.FileSet { return p.fs }

// RootFileNames returns root names as they were added.
func (p *Program) RootFileNames() []string {
	out := make([]string, len(p.rootNames))
	copy(out, p.rootNames)
	return out
}

// SourceFiles returns the current version of every file in insertion order.
func (p *Program) SourceFiles() []*source.File {
	out := make([]*source.File, 0, len(p.order))
	for _, key := range p.order {
		out = append(out, p.fs.Get(p.byPath[key]))
	}
	return out
}

// SourceFileNames returns the paths of SourceFiles, sorted.
func (p *Program) SourceFileNames() []string {
	files := p.SourceFiles()
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	sort.Strings(out)
	return out
}

var _ diag.Program = (*Program)(nil)
