package watchcheck

import (
	"fmt"
	"strconv"
)

// VerifyInitial checks the output of a first compilation: the "Starting
// compilation in watch mode" status, optional logs, errs and the
// errors-found summary.
func VerifyInitial(rec Recorder, errs []Expected, opts Options, logsBeforeErrors []string) error {
	return Verify(rec, InitialScript(errs, logsBeforeErrors, opts.Localizer), opts)
}

// VerifyIncremental checks the output of a recompilation after a file change.
func VerifyIncremental(rec Recorder, errs []Expected, opts Options, logsBeforeWatch, logsBeforeErrors []string) error {
	return Verify(rec, IncrementalScript(errs, logsBeforeWatch, logsBeforeErrors, opts.Localizer), opts)
}

// ExitRecorder is a Recorder that also knows the process exit code.
type ExitRecorder interface {
	Recorder
	ExitCode() (int, bool)
}

// VerifyIncrementalWithExit checks a recompilation that ended the session:
// no summary follows the errors and the host must have exited with exitCode.
func VerifyIncrementalWithExit(rec ExitRecorder, errs []Expected, exitCode int, opts Options, logsBeforeWatch, logsBeforeErrors []string) error {
	if err := Verify(rec, IncrementalWithExitScript(errs, logsBeforeWatch, logsBeforeErrors, opts.Localizer), opts); err != nil {
		return err
	}
	return checkExitCode(rec, exitCode)
}

func checkExitCode(rec ExitRecorder, want int) error {
	got, ok := rec.ExitCode()
	if ok && got == want {
		return nil
	}
	actual := "none"
	if ok {
		actual = strconv.Itoa(got)
	}
	return &MismatchError{
		Kind:     ExitCodeMismatch,
		Caption:  CaptionExitCode,
		Index:    -1,
		Expected: fmt.Sprint(want),
		Actual:   actual,
	}
}
