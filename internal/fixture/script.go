package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"watchcheck/internal/diag"
	"watchcheck/internal/program"
	"watchcheck/internal/watchcheck"
)

// Kind selects which watch cycle a script describes.
type Kind string

const (
	KindInitial         Kind = "initial"
	KindIncremental     Kind = "incremental"
	KindIncrementalExit Kind = "incremental_exit"
)

// ScriptFile is the on-disk form of an expected script.
type ScriptFile struct {
	Kind             Kind        `toml:"kind" yaml:"kind"`
	Cwd              string      `toml:"cwd" yaml:"cwd"`
	Language         string      `toml:"language" yaml:"language"`
	ExitCode         int         `toml:"exit_code" yaml:"exit_code"`
	LogsBeforeWatch  []string    `toml:"logs_before_watch" yaml:"logs_before_watch"`
	LogsBeforeErrors []string    `toml:"logs_before_errors" yaml:"logs_before_errors"`
	Files            []FileSpec  `toml:"files" yaml:"files"`
	Errors           []ErrorSpec `toml:"errors" yaml:"errors"`
}

// FileSpec is a source file of the program the script refers to.
type FileSpec struct {
	Path    string `toml:"path" yaml:"path"`
	Content string `toml:"content" yaml:"content"`
	// Lib marks files the program pulled in without naming them as roots.
	Lib bool `toml:"lib" yaml:"lib"`
}

// ErrorSpec is one expected error. Exactly one form is used:
//
//   - raw: preformatted text
//   - module_not_found: a "Cannot find module" error in file
//   - message: a catalog message key, located by needle in file, or global
//     when file is empty
type ErrorSpec struct {
	Raw            string   `toml:"raw" yaml:"raw"`
	File           string   `toml:"file" yaml:"file"`
	Needle         string   `toml:"needle" yaml:"needle"`
	Message        string   `toml:"message" yaml:"message"`
	Args           []string `toml:"args" yaml:"args"`
	ModuleNotFound string   `toml:"module_not_found" yaml:"module_not_found"`
}

// LoadScript reads a .toml or .yaml script from fsys.
func LoadScript(fsys afero.Fs, p string) (*ScriptFile, error) {
	data, err := afero.ReadFile(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	var sf ScriptFile
	switch ext := strings.ToLower(path.Ext(p)); ext {
	case ".toml":
		meta, err := toml.Decode(string(data), &sf)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", p, err)
		}
		if !meta.IsDefined("kind") {
			return nil, fmt.Errorf("%s: missing kind", p)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&sf); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", p, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported script format %q", p, ext)
	}
	if err := sf.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return &sf, nil
}

func (sf *ScriptFile) validate() error {
	switch sf.Kind {
	case KindInitial, KindIncremental, KindIncrementalExit:
	case "":
		return errors.New("missing kind")
	default:
		return fmt.Errorf("unknown kind %q (expected initial|incremental|incremental_exit)", sf.Kind)
	}
	if sf.Kind == KindInitial && len(sf.LogsBeforeWatch) > 0 {
		return errors.New("logs_before_watch is not allowed for an initial script")
	}
	for i, e := range sf.Errors {
		forms := 0
		for _, set := range []bool{e.Raw != "", e.ModuleNotFound != "", e.Message != ""} {
			if set {
				forms++
			}
		}
		if forms != 1 {
			return fmt.Errorf("error #%d: set exactly one of raw, module_not_found, message", i+1)
		}
		if (e.ModuleNotFound != "" || e.Needle != "") && e.File == "" {
			return fmt.Errorf("error #%d: missing file", i+1)
		}
	}
	return nil
}

// Built is a script resolved against its program.
type Built struct {
	Kind      Kind
	ExitCode  int
	Program   *program.Program
	Localizer *diag.Localizer
	Errors    []watchcheck.Expected
	Script    watchcheck.Script
}

// Build creates the script's program and expected values. cwd is used when
// the script does not set its own.
func (sf *ScriptFile) Build(cwd string) (*Built, error) {
	if sf.Cwd != "" {
		cwd = sf.Cwd
	}
	if cwd == "" {
		cwd = "/"
	}
	tag := language.English
	if sf.Language != "" {
		t, err := language.Parse(sf.Language)
		if err != nil {
			return nil, fmt.Errorf("language %q: %w", sf.Language, err)
		}
		tag = t
	}
	prog := program.New(cwd, program.WithLanguage(tag))
	for _, f := range sf.Files {
		p := f.Path
		if !path.IsAbs(p) {
			p = path.Join(cwd, p)
		}
		if f.Lib {
			prog.AddFile(p, f.Content)
		} else {
			prog.AddRoot(p, f.Content)
		}
	}

	loc := diag.NewLocalizer(tag)
	errs := make([]watchcheck.Expected, 0, len(sf.Errors))
	for i, spec := range sf.Errors {
		e, err := spec.build(prog, loc)
		if err != nil {
			return nil, fmt.Errorf("error #%d: %w", i+1, err)
		}
		errs = append(errs, e)
	}

	b := &Built{Kind: sf.Kind, ExitCode: sf.ExitCode, Program: prog, Localizer: loc, Errors: errs}
	switch sf.Kind {
	case KindInitial:
		b.Script = watchcheck.InitialScript(errs, sf.LogsBeforeErrors, loc)
	case KindIncremental:
		b.Script = watchcheck.IncrementalScript(errs, sf.LogsBeforeWatch, sf.LogsBeforeErrors, loc)
	case KindIncrementalExit:
		b.Script = watchcheck.IncrementalWithExitScript(errs, sf.LogsBeforeWatch, sf.LogsBeforeErrors, loc)
	}
	return b, nil
}

func (e ErrorSpec) build(prog *program.Program, loc *diag.Localizer) (watchcheck.Expected, error) {
	switch {
	case e.Raw != "":
		return watchcheck.Raw(e.Raw), nil
	case e.ModuleNotFound != "":
		d, err := diag.ModuleNotFound(prog, e.File, e.ModuleNotFound)
		if err != nil {
			return watchcheck.Expected{}, err
		}
		return watchcheck.Diag(d), nil
	}
	msg, ok := diag.Lookup(e.Message)
	if !ok {
		return watchcheck.Expected{}, fmt.Errorf("unknown message %q", e.Message)
	}
	args := make([]any, len(e.Args))
	for i, a := range e.Args {
		args[i] = a
	}
	if e.File == "" {
		return watchcheck.Diag(loc.Global(msg, args...)), nil
	}
	d, err := diag.AtSubstring(prog, e.File, msg, e.Needle, args...)
	if err != nil {
		return watchcheck.Expected{}, err
	}
	return watchcheck.Diag(d), nil
}
