package suite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"watchcheck/internal/fixture"
	"watchcheck/internal/observ"
	"watchcheck/internal/trace"
	"watchcheck/internal/watchcheck"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const suiteConfig = `
[verify]
cwd = "/project"

[[case]]
name = "initial"
script = "initial.toml"
trace = "traces/initial.mp"

[[case]]
name = "broken-trace"
script = "initial.toml"
trace = "traces/broken.mp"

[[case]]
name = "exit"
script = "exit.yaml"
trace = "traces/exit.mp"

[[case]]
name = "no-snapshot"
script = "exit.yaml"
trace = "traces/missing.mp"
`

const initialScript = `
kind = "initial"

[[files]]
path = "a.ts"
content = 'import "./b";'

[[errors]]
module_not_found = "./b"
file = "a.ts"
`

const exitScript = `
kind: incremental_exit
exit_code: 2
logs_before_watch: ["Elapsed:: 3ms change\n"]
`

func writeSuite(t *testing.T) (afero.Fs, *fixture.Suite, *fixture.Store) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	files := map[string]string{
		"/s/" + fixture.ConfigName: suiteConfig,
		"/s/initial.toml":          initialScript,
		"/s/exit.yaml":             exitScript,
	}
	for p, body := range files {
		require.NoError(t, afero.WriteFile(fsys, p, []byte(body), 0o644))
	}
	s, err := fixture.LoadSuite(fsys, "/s")
	require.NoError(t, err)
	store := fixture.NewStore(fsys)

	render := func(script, out string, mutate func(*fixture.Snapshot)) {
		sf, err := fixture.LoadScript(fsys, s.Resolve(script))
		require.NoError(t, err)
		snap, err := Render(sf, s.Config.Verify, store)
		require.NoError(t, err)
		if mutate != nil {
			mutate(snap)
		}
		require.NoError(t, store.Put(s.Resolve(out), snap))
	}
	render("initial.toml", "traces/initial.mp", nil)
	render("initial.toml", "traces/broken.mp", func(snap *fixture.Snapshot) {
		snap.ScreenClears = nil
	})
	render("exit.yaml", "traces/exit.mp", nil)
	return fsys, s, store
}

func TestRunReportsExactlyTheFailingCases(t *testing.T) {
	fsys, s, store := writeSuite(t)

	var mu sync.Mutex
	var events []Event
	sink := SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})
	timer := observ.NewTimer()
	r := &Runner{FS: fsys, Suite: s, Store: store, Jobs: 2, Sink: sink, Timer: timer}

	results, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, StatusPassed, results[0].Status)
	assert.Equal(t, StatusFailed, results[1].Status)
	assert.Equal(t, StatusPassed, results[2].Status)
	assert.Equal(t, StatusError, results[3].Status)

	var me *watchcheck.MismatchError
	require.True(t, errors.As(results[1].Err, &me))
	assert.Equal(t, watchcheck.ScreenClearMismatch, me.Kind)

	failed := Failed(results)
	require.Len(t, failed, 2)
	assert.Equal(t, "broken-trace", failed[0].Case)
	assert.Equal(t, "no-snapshot", failed[1].Case)

	final := map[string]Status{}
	for _, ev := range events {
		if ev.Status == StatusPassed || ev.Status == StatusFailed || ev.Status == StatusError {
			final[ev.Case] = ev.Status
		}
	}
	assert.Equal(t, map[string]Status{
		"initial":      StatusPassed,
		"broken-trace": StatusFailed,
		"exit":         StatusPassed,
		"no-snapshot":  StatusError,
	}, final)
	assert.Len(t, timer.Report().Phases, 4)
}

func TestRunSuppressClears(t *testing.T) {
	fsys, s, store := writeSuite(t)
	r := &Runner{FS: fsys, Suite: s, Store: store, SuppressClears: true}

	results, err := r.Run(context.Background())
	require.NoError(t, err)
	// the broken trace lost its clear, which no longer matters; the intact
	// ones still record clears nothing claims
	assert.Equal(t, StatusPassed, results[1].Status)
	assert.Equal(t, StatusFailed, results[0].Status)
}

func TestRunCancelled(t *testing.T) {
	fsys, s, store := writeSuite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{FS: fsys, Suite: s, Store: store, Jobs: 1}
	_, err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunTracesCases(t *testing.T) {
	fsys, s, store := writeSuite(t)
	ring := trace.NewRingTracer(256, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)

	r := &Runner{FS: fsys, Suite: s, Store: store, Jobs: 1}
	_, err := r.Run(ctx)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, ev := range ring.Snapshot() {
		names[ev.Name] = true
	}
	assert.True(t, names["suite"])
	assert.True(t, names["case:initial"])
	assert.True(t, names["mismatch"])

	var loadFailure bool
	for _, ev := range ring.Failures() {
		if ev.Name == "case:no-snapshot" {
			loadFailure = true
			assert.NotZero(t, ev.ParentID)
		}
	}
	assert.True(t, loadFailure)
}

func TestRunTracksActivity(t *testing.T) {
	fsys, s, store := writeSuite(t)
	activity := trace.NewActivity()
	ctx := trace.WithActivity(context.Background(), activity)

	r := &Runner{FS: fsys, Suite: s, Store: store, Jobs: 2}
	_, err := r.Run(ctx)
	require.NoError(t, err)

	running, done := activity.Running()
	assert.Empty(t, running)
	assert.Equal(t, 4, done)
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{Case: "a", Status: StatusQueued})
	assert.Equal(t, "a", (<-ch).Case)
	ChannelSink{}.OnEvent(Event{})
}
