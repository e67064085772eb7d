package fixture

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchcheck/internal/diag"
)

const suiteToml = `
[verify]
screen_starting_codes = [6031, 6032]
newline = "crlf"
cwd = "/user/username/projects/myproject"

[[case]]
name = "initial-errors"
script = "initial.toml"
trace = "traces/initial.mp"

[[case]]
name = "module-fixed"
script = "/abs/fixed.yaml"
trace = "traces/fixed.mp"
`

func TestLoadSuite(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/suite/"+ConfigName, []byte(suiteToml), 0o644))

	s, err := LoadSuite(fsys, "/suite")
	require.NoError(t, err)
	require.Len(t, s.Config.Cases, 2)
	assert.Equal(t, "/suite/initial.toml", s.Resolve(s.Config.Cases[0].Script))
	assert.Equal(t, "/abs/fixed.yaml", s.Resolve(s.Config.Cases[1].Script))
	assert.Equal(t, "\r\n", s.Config.Verify.Sequence())

	codes, err := s.Config.Verify.Codes()
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{6031, 6032}, codes.Sorted())
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no cases", "[verify]\nnewline = \"lf\"\n", "no [[case]] entries"},
		{"missing name", "[[case]]\nscript = \"a.toml\"\ntrace = \"a.mp\"\n", "missing name"},
		{"missing trace", "[[case]]\nname = \"a\"\nscript = \"a.toml\"\n", "missing trace"},
		{"duplicate", "[[case]]\nname = \"a\"\nscript = \"a.toml\"\ntrace = \"a.mp\"\n[[case]]\nname = \"a\"\nscript = \"b.toml\"\ntrace = \"b.mp\"\n", "duplicate case"},
		{"bad newline", "[verify]\nnewline = \"cr\"\n[[case]]\nname = \"a\"\nscript = \"a.toml\"\ntrace = \"a.mp\"\n", "unsupported newline"},
		{"bad code", "[verify]\nscreen_starting_codes = [-1]\n[[case]]\nname = \"a\"\nscript = \"a.toml\"\ntrace = \"a.mp\"\n", "invalid code"},
		{"unknown key", "[verify]\ncolour = true\n[[case]]\nname = \"a\"\nscript = \"a.toml\"\ntrace = \"a.mp\"\n", "unknown key verify.colour"},
		{"syntax", "[[case]\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig("watchcheck.toml", tt.body)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q does not mention %q", err, tt.want)
		})
	}
}

func TestLoadSuiteMissingFile(t *testing.T) {
	_, err := LoadSuite(afero.NewMemMapFs(), "/nowhere")
	assert.Error(t, err)
}

func TestDefaultVerifyConfig(t *testing.T) {
	var v VerifyConfig
	codes, err := v.Codes()
	require.NoError(t, err)
	assert.True(t, codes.Has(diag.StartingCompilationInWatchMode.Code))
	assert.Equal(t, "\n", v.Sequence())
}
