package suite

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"watchcheck/internal/fixture"
	"watchcheck/internal/observ"
	"watchcheck/internal/trace"
	"watchcheck/internal/watchcheck"
)

// Runner verifies the cases of a suite.
type Runner struct {
	FS    afero.Fs
	Suite *fixture.Suite
	Store *fixture.Store
	// Jobs limits concurrent cases. Zero means GOMAXPROCS.
	Jobs int
	// SuppressClears forces clear checks off for every case.
	SuppressClears bool
	Sink           ProgressSink
	Timer          *observ.Timer
}

// Run verifies every case. Case failures are reported in the results; the
// error is only set when ctx is cancelled.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	cases := r.Suite.Config.Cases
	results := make([]Result, len(cases))
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeSuite, "suite", 0)
	defer span.End("")

	for _, c := range cases {
		r.emit(Event{Case: c.Name, Stage: StageLoad, Status: StatusQueued})
	}

	jobs := r.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, c := range cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			caseCtx := trace.WithCase(gctx, trace.CaseSpan{Parent: span.ID(), Case: c.Name})
			results[i] = r.RunCase(caseCtx, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	span.WithExtra("failed", fmt.Sprint(len(Failed(results))))
	return results, nil
}

// RunCase loads and verifies one case.
func (r *Runner) RunCase(ctx context.Context, c fixture.CaseConfig) Result {
	start := time.Now()
	phase := -1
	if r.Timer != nil {
		phase = r.Timer.Begin("case:" + c.Name)
	}
	leave := trace.ActivityFrom(ctx).Enter(c.Name)
	res := r.runCase(ctx, c)
	leave()
	res.Case = c.Name
	if res.Status == StatusError {
		cs, _ := trace.CurrentCase(ctx)
		trace.Failure(trace.FromContext(ctx), trace.ScopeCase, "case:"+c.Name, res.Err.Error(), cs.Parent)
	}
	res.Elapsed = time.Since(start)
	if r.Timer != nil {
		r.Timer.End(phase, string(res.Status))
	}

	stage := StageVerify
	if res.Status == StatusError {
		stage = StageLoad
	}
	r.emit(Event{Case: c.Name, Stage: stage, Status: res.Status, Err: res.Err, Elapsed: res.Elapsed})
	return res
}

func (r *Runner) runCase(ctx context.Context, c fixture.CaseConfig) Result {
	r.emit(Event{Case: c.Name, Stage: StageLoad, Status: StatusWorking})
	cfg := r.Suite.Config.Verify

	sf, err := fixture.LoadScript(r.FS, r.Suite.Resolve(c.Script))
	if err != nil {
		return Result{Status: StatusError, Err: err}
	}
	built, err := sf.Build(cfg.Cwd)
	if err != nil {
		return Result{Status: StatusError, Err: fmt.Errorf("%s: %w", c.Script, err)}
	}
	snap, err := r.Store.Get(r.Suite.Resolve(c.Trace))
	if err != nil {
		return Result{Status: StatusError, Err: err}
	}
	codes, err := cfg.Codes()
	if err != nil {
		return Result{Status: StatusError, Err: err}
	}

	r.emit(Event{Case: c.Name, Stage: StageVerify, Status: StatusWorking})
	newline := snap.NewLine
	if newline == "" {
		newline = cfg.Sequence()
	}
	opts := watchcheck.Options{
		ScreenStartingCodes: codes,
		NewLine:             newline,
		CurrentDirectory:    built.Program.CurrentDirectory(),
		SuppressClears:      cfg.SuppressClears || r.SuppressClears,
		Localizer:           built.Localizer,
		Tracer:              trace.FromContext(ctx),
		Name:                "case:" + c.Name,
	}

	tr := snap.Trace()
	switch built.Kind {
	case fixture.KindInitial:
		err = watchcheck.VerifyInitial(tr, built.Errors, opts, sf.LogsBeforeErrors)
	case fixture.KindIncremental:
		err = watchcheck.VerifyIncremental(tr, built.Errors, opts, sf.LogsBeforeWatch, sf.LogsBeforeErrors)
	case fixture.KindIncrementalExit:
		err = watchcheck.VerifyIncrementalWithExit(tr, built.Errors, built.ExitCode, opts, sf.LogsBeforeWatch, sf.LogsBeforeErrors)
	}
	if err != nil {
		var me *watchcheck.MismatchError
		if errors.As(err, &me) {
			return Result{Status: StatusFailed, Err: err}
		}
		return Result{Status: StatusError, Err: err}
	}
	return Result{Status: StatusPassed}
}

func (r *Runner) emit(ev Event) {
	if r.Sink != nil {
		r.Sink.OnEvent(ev)
	}
}
