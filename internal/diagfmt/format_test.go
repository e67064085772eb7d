package diagfmt

import (
	"testing"

	"watchcheck/internal/diag"
	"watchcheck/internal/program"
)

type testHost struct {
	nl  string
	cwd string
}

func (h testHost) NewLine() string          { return h.nl }
func (h testHost) CurrentDirectory() string { return h.cwd }

func TestDiagnostic(t *testing.T) {
	prog := program.New("/a/b")
	prog.AddRoot("/a/b/app.ts", "let x = 1;\nimport {f} from \"./f2\"\n")
	prog.AddFile("/a/lib/lib.ts", "declare let y;\n")

	moduleErr, err := diag.ModuleNotFound(prog, "/a/b/app.ts", "./f2")
	if err != nil {
		t.Fatalf("ModuleNotFound: %v", err)
	}
	libErr, err := diag.AtSubstring(prog, "/a/lib/lib.ts", diag.UnusedLocal, "y", "y")
	if err != nil {
		t.Fatalf("AtSubstring: %v", err)
	}
	missing, err := diag.AtSubstring(prog, "/a/b/app.ts", diag.CannotFindName, "zzz", "zzz")
	if err != nil {
		t.Fatalf("AtSubstring: %v", err)
	}
	prog.AddRoot("/a/b/wide.ts", "const s = \"日本\"; later;\n")
	wideErr, err := diag.AtSubstring(prog, "/a/b/wide.ts", diag.CannotFindName, "later", "later")
	if err != nil {
		t.Fatalf("AtSubstring: %v", err)
	}

	tests := []struct {
		name string
		d    diag.Diagnostic
		host testHost
		want string
	}{
		{
			name: "file relative to cwd",
			d:    moduleErr,
			host: testHost{nl: "\n", cwd: "/a/b"},
			want: "app.ts(2,17): error TS2307: Cannot find module './f2'.\n",
		},
		{
			name: "file outside cwd",
			d:    libErr,
			host: testHost{nl: "\n", cwd: "/a/b"},
			want: "../lib/lib.ts(1,13): error TS6133: 'y' is declared but its value is never read.\n",
		},
		{
			name: "global diagnostic",
			d:    diag.Global(diag.NoInputsFound, "/a/b/tsconfig.json", `["**/*"]`, "[]"),
			host: testHost{nl: "\r\n", cwd: "/a/b"},
			want: "error TS18003: No inputs were found in config file '/a/b/tsconfig.json'. Specified 'include' paths were '[\"**/*\"]' and 'exclude' paths were '[]'.\r\n",
		},
		{
			name: "column in UTF-16 units",
			d:    wideErr,
			host: testHost{nl: "\n", cwd: "/a/b"},
			want: "wide.ts(1,17): error TS2304: Cannot find name 'later'.\n",
		},
		{
			name: "unresolvable span",
			d:    missing,
			host: testHost{nl: "\n", cwd: "/a/b"},
			want: "error TS2304: Cannot find name 'zzz'.\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Diagnostic(tt.d, tt.host); got != tt.want {
				t.Errorf("Diagnostic() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestDiagnosticWithAbsolutePath(t *testing.T) {
	prog := program.New("/a/b")
	prog.AddRoot("/a/b/app.ts", "x;")
	d, err := diag.AtSpan(prog, "/a/b/app.ts", 0, 1, diag.CannotFindName, "x")
	if err != nil {
		t.Fatalf("AtSpan: %v", err)
	}
	got := DiagnosticWith(d, testHost{nl: "\n", cwd: "/a/b"}, PathModeAbsolute)
	if want := "/a/b/app.ts(1,1): error TS2304: Cannot find name 'x'.\n"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
	if got := Diagnostics(nil, testHost{nl: "\n"}); got != "" {
		t.Errorf("Diagnostics(nil) = %q", got)
	}
}
