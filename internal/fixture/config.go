// Package fixture loads verification suites from disk: the suite config,
// the expected scripts and the recorded trace snapshots.
package fixture

import (
	"fmt"
	"path"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"watchcheck/internal/diag"
)

// ConfigName is the suite config file looked up in a suite directory.
const ConfigName = "watchcheck.toml"

// Config is the decoded watchcheck.toml.
type Config struct {
	Verify VerifyConfig `toml:"verify"`
	Cases  []CaseConfig `toml:"case"`
}

// VerifyConfig holds options shared by every case.
type VerifyConfig struct {
	ScreenStartingCodes []int  `toml:"screen_starting_codes"`
	NewLine             string `toml:"newline"`
	SuppressClears      bool   `toml:"suppress_clears"`
	Cwd                 string `toml:"cwd"`
}

// CaseConfig names one script and the snapshot it is checked against.
type CaseConfig struct {
	Name   string `toml:"name"`
	Script string `toml:"script"`
	Trace  string `toml:"trace"`
}

// Suite is a loaded config together with its directory. Case paths are
// relative to Dir.
type Suite struct {
	Dir    string
	Path   string
	Config Config
}

// LoadSuite reads dir/watchcheck.toml from fsys.
func LoadSuite(fsys afero.Fs, dir string) (*Suite, error) {
	p := path.Join(dir, ConfigName)
	data, err := afero.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	cfg, err := parseConfig(p, string(data))
	if err != nil {
		return nil, err
	}
	return &Suite{Dir: dir, Path: p, Config: cfg}, nil
}

func parseConfig(p, data string) (Config, error) {
	var cfg Config
	meta, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", p, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", p, undecoded[0])
	}
	if !meta.IsDefined("case") || len(cfg.Cases) == 0 {
		return Config{}, fmt.Errorf("%s: no [[case]] entries", p)
	}
	seen := make(map[string]bool, len(cfg.Cases))
	for i, c := range cfg.Cases {
		if strings.TrimSpace(c.Name) == "" {
			return Config{}, fmt.Errorf("%s: case #%d: missing name", p, i+1)
		}
		if seen[c.Name] {
			return Config{}, fmt.Errorf("%s: duplicate case %q", p, c.Name)
		}
		seen[c.Name] = true
		if strings.TrimSpace(c.Script) == "" {
			return Config{}, fmt.Errorf("%s: case %q: missing script", p, c.Name)
		}
		if strings.TrimSpace(c.Trace) == "" {
			return Config{}, fmt.Errorf("%s: case %q: missing trace", p, c.Name)
		}
	}
	if _, err := ParseNewLine(cfg.Verify.NewLine); err != nil {
		return Config{}, fmt.Errorf("%s: [verify].newline: %w", p, err)
	}
	if _, err := cfg.Verify.Codes(); err != nil {
		return Config{}, fmt.Errorf("%s: [verify].screen_starting_codes: %w", p, err)
	}
	return cfg, nil
}

// Resolve joins a case-relative path with the suite directory.
func (s *Suite) Resolve(p string) string {
	if path.IsAbs(p) {
		return p
	}
	return path.Join(s.Dir, p)
}

// Codes returns the configured screen-starting codes, or the default set
// when none are configured.
func (v VerifyConfig) Codes() (diag.CodeSet, error) {
	if len(v.ScreenStartingCodes) == 0 {
		return diag.ScreenStartingCodes(), nil
	}
	set := diag.NewCodeSet()
	for _, c := range v.ScreenStartingCodes {
		code, err := safecast.Conv[uint32](c)
		if err != nil || code == 0 {
			return nil, fmt.Errorf("invalid code %d", c)
		}
		set[diag.Code(code)] = struct{}{}
	}
	return set, nil
}

// Sequence returns the configured newline sequence.
func (v VerifyConfig) Sequence() string {
	nl, err := ParseNewLine(v.NewLine)
	if err != nil {
		return "\n"
	}
	return nl
}

// ParseNewLine accepts "lf", "crlf" or the sequences themselves. Empty means
// "\n".
func ParseNewLine(s string) (string, error) {
	switch strings.ToLower(s) {
	case "", "lf", "\n":
		return "\n", nil
	case "crlf", "\r\n":
		return "\r\n", nil
	default:
		return "", fmt.Errorf("unsupported newline %q (expected lf|crlf)", s)
	}
}
