package diag

import (
	"errors"
	"testing"

	"golang.org/x/text/language"

	"watchcheck/internal/source"
)

type fakeProgram struct {
	fs   *source.FileSet
	cwd  string
	lang language.Tag
	keys map[string]source.FileID
}

func newFakeProgram(cwd string, files map[string]string) *fakeProgram {
	p := &fakeProgram{
		fs:   source.NewFileSetWithBase(cwd),
		cwd:  cwd,
		lang: language.English,
		keys: make(map[string]source.FileID),
	}
	for path, content := range files {
		id := p.fs.AddVirtual(path, []byte(content))
		p.keys[CanonicalPath(path, cwd)] = id
	}
	return p
}

func (p *fakeProgram) SourceFileByPath(path string) (*source.File, bool) {
	id, ok := p.keys[path]
	if !ok {
		return nil, false
	}
	return p.fs.Get(id), true
}

func (p *fakeProgram) CurrentDirectory() string { return p.cwd }
func (p *fakeProgram) Language() language.Tag   { return p.lang }

const appContent = "import {f} from \"./f2\"\nimport {g} from \"./g\"\n"

func TestAtSubstring(t *testing.T) {
	prog := newFakeProgram("/a/b", map[string]string{"/a/b/app.ts": appContent})

	d, err := AtSubstring(prog, "/a/b/app.ts", CannotFindModule, `"./g"`, "./g")
	if err != nil {
		t.Fatalf("AtSubstring returned error: %v", err)
	}
	if d.File == nil || d.File.Path != "/a/b/app.ts" {
		t.Fatalf("unexpected file: %+v", d.File)
	}
	if *d.Start != 39 || *d.Length != 5 {
		t.Errorf("span = (%d, %d), want (39, 5)", *d.Start, *d.Length)
	}
	if d.MessageText != "Cannot find module './g'." {
		t.Errorf("MessageText = %q", d.MessageText)
	}
	if d.Category != CategoryError || d.Code != 2307 {
		t.Errorf("category/code = %v/%v", d.Category, d.Code)
	}
}

func TestAtSubstringIsDeterministic(t *testing.T) {
	prog := newFakeProgram("/a/b", map[string]string{"/a/b/app.ts": appContent})

	first, err := AtSubstring(prog, "app.ts", CannotFindName, "f", "f")
	if err != nil {
		t.Fatalf("AtSubstring returned error: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := AtSubstring(prog, "app.ts", CannotFindName, "f", "f")
		if err != nil {
			t.Fatalf("AtSubstring returned error: %v", err)
		}
		if *again.Start != *first.Start || *again.Length != *first.Length || again.MessageText != first.MessageText {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestAtSubstringMissingNeedleKeepsSentinel(t *testing.T) {
	prog := newFakeProgram("/a/b", map[string]string{"/a/b/app.ts": appContent})

	d, err := AtSubstring(prog, "/a/b/app.ts", CannotFindModule, `"./missing"`, "./missing")
	if err != nil {
		t.Fatalf("missing needle must not fail construction: %v", err)
	}
	if *d.Start != -1 {
		t.Errorf("Start = %d, want -1", *d.Start)
	}
	if _, ok := d.Span(); ok {
		t.Error("Span() must reject the not-found sentinel")
	}
}

func TestAtSubstringResolutionFailure(t *testing.T) {
	prog := newFakeProgram("/a/b", map[string]string{"/a/b/app.ts": appContent})

	_, err := AtSubstring(prog, "/a/b/other.ts", CannotFindName, "x", "x")
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected *ResolutionError, got %v", err)
	}
	if resErr.Path != "/a/b/other.ts" {
		t.Errorf("Path = %q", resErr.Path)
	}
}

func TestResolutionIsCaseInsensitive(t *testing.T) {
	prog := newFakeProgram("/a/b", map[string]string{"/a/b/App.ts": appContent})

	if _, err := AtSpan(prog, "/A/B/app.TS", 0, 6, CannotFindName, "import"); err != nil {
		t.Fatalf("expected case-insensitive resolution, got %v", err)
	}
}

func TestModuleNotFound(t *testing.T) {
	prog := newFakeProgram("/a/b", map[string]string{"/a/b/app.ts": appContent})

	d, err := ModuleNotFound(prog, "/a/b/app.ts", "./f2")
	if err != nil {
		t.Fatalf("ModuleNotFound returned error: %v", err)
	}
	if *d.Start != 16 || *d.Length != 6 {
		t.Errorf("span = (%d, %d), want (16, 6)", *d.Start, *d.Length)
	}
	if d.MessageText != "Cannot find module './f2'." {
		t.Errorf("MessageText = %q", d.MessageText)
	}
}

func TestModuleNotFoundLocalized(t *testing.T) {
	prog := newFakeProgram("/a/b", map[string]string{"/a/b/app.ts": appContent})
	prog.lang = language.Russian

	d, err := ModuleNotFound(prog, "/a/b/app.ts", "./f2")
	if err != nil {
		t.Fatalf("ModuleNotFound returned error: %v", err)
	}
	if d.MessageText != "Не удается найти модуль \"./f2\"." {
		t.Errorf("MessageText = %q", d.MessageText)
	}
}

func TestCanonicalPath(t *testing.T) {
	tests := []struct {
		path, cwd, want string
	}{
		{"/a/b/App.ts", "/x", "/a/b/app.ts"},
		{"src/f.ts", "/a/b", "/a/b/src/f.ts"},
		{"../c/f.ts", "/a/b", "/a/c/f.ts"},
		{`c:\proj\F.ts`, "/", "/c:/proj/f.ts"},
	}
	for _, tt := range tests {
		if got := CanonicalPath(tt.path, tt.cwd); got != tt.want {
			t.Errorf("CanonicalPath(%q, %q) = %q, want %q", tt.path, tt.cwd, got, tt.want)
		}
	}
}
