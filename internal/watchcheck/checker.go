package watchcheck

import "testing"

// Checker binds a test, a recorder and options so watch tests read as a
// sequence of expectations. Any mismatch fails the test immediately.
type Checker struct {
	t    testing.TB
	rec  ExitRecorder
	opts Options
}

// NewChecker returns a Checker for rec.
func NewChecker(t testing.TB, rec ExitRecorder, opts Options) *Checker {
	return &Checker{t: t, rec: rec, opts: opts}
}

// Options returns the checker's options.
func (c *Checker) Options() Options { return c.opts }

// Initial asserts the output of the first compilation.
func (c *Checker) Initial(errs []Expected, logsBeforeErrors ...string) {
	c.t.Helper()
	c.fatal(VerifyInitial(c.rec, errs, c.opts, logsBeforeErrors))
}

// Incremental asserts the output of a recompilation.
func (c *Checker) Incremental(errs []Expected, logsBeforeWatch, logsBeforeErrors []string) {
	c.t.Helper()
	c.fatal(VerifyIncremental(c.rec, errs, c.opts, logsBeforeWatch, logsBeforeErrors))
}

// IncrementalWithExit asserts a recompilation that ended with exitCode.
func (c *Checker) IncrementalWithExit(errs []Expected, exitCode int, logsBeforeWatch, logsBeforeErrors []string) {
	c.t.Helper()
	c.fatal(VerifyIncrementalWithExit(c.rec, errs, exitCode, c.opts, logsBeforeWatch, logsBeforeErrors))
}

// Script asserts an arbitrary script.
func (c *Checker) Script(s Script) {
	c.t.Helper()
	c.fatal(Verify(c.rec, s, c.opts))
}

// RootFiles asserts the program's root file names.
func (c *Checker) RootFiles(prog RootFiler, expected ...string) {
	c.t.Helper()
	c.fatal(CheckProgramRootFiles(prog, expected))
}

// ActualFiles asserts the program's source file names.
func (c *Checker) ActualFiles(prog SourceFiler, expected ...string) {
	c.t.Helper()
	c.fatal(CheckProgramActualFiles(prog, expected))
}

func (c *Checker) fatal(err error) {
	c.t.Helper()
	if err != nil {
		c.t.Fatal(err)
	}
}
