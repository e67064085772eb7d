package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("/a/b/app.ts", []byte("let x = 1;"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("/a/b/app.ts")
	if !exists {
		t.Fatal("Expected file to exist after Add")
	}
	if latestID != id1 {
		t.Errorf("Expected latest ID to be %d, got %d", id1, latestID)
	}

	// an edit during a watch cycle registers a new version under the same path
	id2 := fs.Add("/a/b/app.ts", []byte("let x = 2;"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}
	latestID, _ = fs.GetLatest("/a/b/app.ts")
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	if got := fs.Get(id1).Text(); got != "let x = 1;" {
		t.Errorf("Expected first version to be kept, got %q", got)
	}
	if got := fs.Get(id2).Text(); got != "let x = 2;" {
		t.Errorf("Expected second version content, got %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 stored versions, got %d", fs.Len())
	}
}

func TestFileSetGetUnknownID(t *testing.T) {
	fs := NewFileSet()
	if f := fs.Get(3); f != nil {
		t.Fatalf("Expected nil for unknown id, got %+v", f)
	}
}

func TestFileSetLatestKeepsInsertionOrder(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("/a/b/f1.ts", []byte("1"))
	fs.AddVirtual("/a/b/f2.ts", []byte("2"))
	fs.AddVirtual("/a/b/f1.ts", []byte("1'"))

	latest := fs.Latest()
	if len(latest) != 2 {
		t.Fatalf("Expected 2 latest files, got %d", len(latest))
	}
	if latest[0].Path != "/a/b/f2.ts" || latest[1].Path != "/a/b/f1.ts" {
		t.Errorf("unexpected order: %q, %q", latest[0].Path, latest[1].Path)
	}
	if latest[1].Text() != "1'" {
		t.Errorf("Expected newest f1 content, got %q", latest[1].Text())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.ts", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestFilePosition(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("/a/b/app.ts", []byte("import a from \"f2\"\nlet y = 1;\n"))
	file := fs.Get(id)

	tests := []struct {
		name string
		off  uint32
		want LineCol
	}{
		{"file start", 0, LineCol{Line: 1, Col: 1}},
		{"inside first line", 14, LineCol{Line: 1, Col: 15}},
		{"newline belongs to its line", 18, LineCol{Line: 1, Col: 19}},
		{"second line start", 19, LineCol{Line: 2, Col: 1}},
		{"past the end is clamped", 1000, LineCol{Line: 3, Col: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := file.Position(tt.off); got != tt.want {
				t.Errorf("Position(%d) = %+v, want %+v", tt.off, got, tt.want)
			}
		})
	}
}

func TestUTF16Position(t *testing.T) {
	fs := NewFileSet()
	// é is 2 bytes and 1 unit, 😀 is 4 bytes and 2 units
	id := fs.AddVirtual("wide.ts", []byte("let é = \"😀\"; x\nab"))
	file := fs.Get(id)

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{6, LineCol{Line: 1, Col: 6}},
		{10, LineCol{Line: 1, Col: 10}},
		{17, LineCol{Line: 1, Col: 15}},
		{20, LineCol{Line: 2, Col: 2}},
		{1000, LineCol{Line: 2, Col: 3}},
	}
	for _, tt := range tests {
		if got := file.UTF16Position(tt.off); got != tt.want {
			t.Errorf("UTF16Position(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("utf8.ts", []byte("α\nβ"))

	start, end := fs.Resolve(Span{File: id, Start: 0, End: 2})
	if start.Line != 1 || start.Col != 1 {
		t.Errorf("Expected start 1:1, got %d:%d", start.Line, start.Col)
	}
	// columns are byte based
	if end.Line != 1 || end.Col != 3 {
		t.Errorf("Expected end 1:3, got %d:%d", end.Line, end.Col)
	}
}

func TestAddNormalized(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
		flags   FileFlags
	}{
		{"plain", []byte("a\nb"), "a\nb", 0},
		{"crlf", []byte("a\r\nb\r\n"), "a\nb\n", FileNormalizedCRLF},
		{"lone cr kept", []byte("a\rb"), "a\rb", 0},
		{"bom", []byte("\xEF\xBB\xBFx"), "x", FileHadBOM},
		{"bom and crlf", []byte("\xEF\xBB\xBFx\r\n"), "x\n", FileHadBOM | FileNormalizedCRLF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := NewFileSet()
			file := fs.Get(fs.AddNormalized("f.ts", tt.content))
			if file.Text() != tt.want {
				t.Errorf("content = %q, want %q", file.Text(), tt.want)
			}
			if file.Flags != tt.flags {
				t.Errorf("flags = %b, want %b", file.Flags, tt.flags)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.ts")
	if err := os.WriteFile(path, []byte("let x;\r\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	file := fs.Get(id)
	if file.Text() != "let x;\n" {
		t.Errorf("unexpected content %q", file.Text())
	}
	if file.Flags&FileNormalizedCRLF == 0 {
		t.Error("Expected FileNormalizedCRLF flag")
	}

	if _, err := fs.Load(filepath.Join(dir, "missing.ts")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFormatPath(t *testing.T) {
	fs := NewFileSetWithBase("/a/b")
	file := fs.Get(fs.AddVirtual("/a/b/src/app.ts", nil))

	if got := file.FormatPath("relative", fs.BaseDir()); got != "src/app.ts" {
		t.Errorf("relative = %q", got)
	}
	if got := file.FormatPath("basename", ""); got != "app.ts" {
		t.Errorf("basename = %q", got)
	}
	if got := file.FormatPath("absolute", ""); got != "/a/b/src/app.ts" {
		t.Errorf("absolute = %q", got)
	}
	if got := file.FormatPath("", ""); got != "/a/b/src/app.ts" {
		t.Errorf("default = %q", got)
	}
}
