package trace

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevelAndMode(t *testing.T) {
	lvl, err := ParseLevel("detail")
	require.NoError(t, err)
	assert.Equal(t, LevelDetail, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)

	mode, err := ParseMode("BOTH")
	require.NoError(t, err)
	assert.Equal(t, ModeBoth, mode)

	f, err := ParseFormat("ndjson")
	require.NoError(t, err)
	assert.Equal(t, FormatNDJSON, f)
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeSuite, false},
		{LevelError, ScopeSuite, false},
		{LevelPhase, ScopeSuite, true},
		{LevelPhase, ScopeCase, false},
		{LevelDetail, ScopeCase, true},
		{LevelDetail, ScopeSegment, false},
		{LevelDebug, ScopeSegment, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	assert.False(t, tr.Enabled())
	assert.Equal(t, Nop, tr)
}

func TestStreamTracerFiltersByScope(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, ScopeCase, "case:initial", 0)
	Point(tr, ScopeSegment, "segment:Diagnostic", "ignored", span.ID())
	span.WithExtra("segments", "3").End("ok")

	out := buf.String()
	assert.Contains(t, out, "→ case:initial")
	assert.Contains(t, out, "← case:initial (ok) {segments=3}")
	assert.NotContains(t, out, "segment:Diagnostic")
}

func TestFailurePassesErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatNDJSON)

	Begin(tr, ScopeSuite, "suite", 0).End("")
	Failure(tr, ScopeSegment, "mismatch", "Watch diagnostic at 3", 0)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"name":"mismatch"`)
	assert.Contains(t, lines[0], `"status":"fail"`)
}

func TestRingTracerWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopeSegment, name, "", 0)
	}
	snap := ring.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "c", snap[0].Name)
	assert.Equal(t, "e", snap[2].Name)

	var buf bytes.Buffer
	require.NoError(t, ring.Dump(&buf, FormatText))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}

func TestNewBothWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.ndjson")
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, OutputPath: path, RingSize: 8})
	require.NoError(t, err)

	multi, ok := tr.(*MultiTracer)
	require.True(t, ok)
	ring, ok := multi.Ring()
	require.True(t, ok)

	Begin(tr, ScopeSuite, "suite", 0).End("")
	require.NoError(t, tr.Close())
	assert.Len(t, ring.Snapshot(), 2)
}

func TestContextPropagation(t *testing.T) {
	assert.Equal(t, Nop, FromContext(context.Background()))

	ring := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	assert.Equal(t, Tracer(ring), FromContext(ctx))

	_, ok := CurrentCase(ctx)
	assert.False(t, ok)
	ctx = WithCase(ctx, CaseSpan{Parent: 7, Case: "initial"})
	cs, ok := CurrentCase(ctx)
	require.True(t, ok)
	assert.Equal(t, CaseSpan{Parent: 7, Case: "initial"}, cs)

	assert.Nil(t, ActivityFrom(ctx))
	a := NewActivity()
	assert.Same(t, a, ActivityFrom(WithActivity(ctx, a)))
}

func TestActivity(t *testing.T) {
	a := NewActivity()
	leaveEdit := a.Enter("edit")
	leaveInitial := a.Enter("initial")
	names, done := a.Running()
	assert.Equal(t, []string{"edit", "initial"}, names)
	assert.Zero(t, done)

	leaveEdit()
	leaveEdit()
	names, done = a.Running()
	assert.Equal(t, []string{"initial"}, names)
	assert.Equal(t, 1, done)
	assert.Equal(t, "#4 done=1 running=initial", beatDetail(4, a))

	leaveInitial()
	assert.Equal(t, "#5 done=2 idle", beatDetail(5, a))

	var none *Activity
	none.Enter("x")()
	assert.Equal(t, "#1 done=0 idle", beatDetail(1, none))
}

func TestRingFailures(t *testing.T) {
	ring := NewRingTracer(8, LevelError)
	Point(ring, ScopeSegment, "segment:Diagnostic", "", 0)
	Failure(ring, ScopeCase, "case:edit", "segment mismatch", 0)
	failures := ring.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "case:edit", failures[0].Name)
	assert.Len(t, ring.Snapshot(), 1)
}

func TestHeartbeatStops(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	a := NewActivity()
	defer a.Enter("initial")()
	hb := StartHeartbeat(ring, time.Millisecond, a)
	require.NotNil(t, hb)
	time.Sleep(10 * time.Millisecond)
	hb.Stop()
	hb.Stop()

	snap := ring.Snapshot()
	n := len(snap)
	require.Positive(t, n)
	assert.Contains(t, snap[0].Detail, "running=initial")
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, n, len(ring.Snapshot()))
}
