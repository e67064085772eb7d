package watchhost

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchcheck/internal/diag"
	"watchcheck/internal/program"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 14, 5, 9, 0, time.UTC)
}

func TestReportWatchStatusClearsOnScreenStartingCodes(t *testing.T) {
	h := New(WithClock(fixedClock))

	h.ReportWatchStatus(diag.Global(diag.StartingCompilationInWatchMode))
	h.ReportWatchStatus(diag.ErrorsFound(0))

	out := h.Output()
	require.Len(t, out, 2)
	assert.Equal(t, "2:05:09 PM - Starting compilation in watch mode...\n\n", out[0])
	assert.Equal(t, "2:05:09 PM - Found 0 errors. Watching for file changes.\n", out[1])
	assert.Equal(t, []int{0}, h.ScreenClears())
}

func TestPreserveOutputSkipsClears(t *testing.T) {
	h := New(WithClock(fixedClock), WithPreserveOutput(true))
	h.ReportWatchStatus(diag.Global(diag.FileChangeDetected))
	assert.Empty(t, h.ScreenClears())
	assert.Len(t, h.Output(), 1)
}

func TestCustomScreenStartingCodes(t *testing.T) {
	h := New(WithClock(fixedClock), WithScreenStartingCodes(diag.NewCodeSet(diag.FoundOneErrorWatching.Code)), WithNewLine("\r\n"))
	h.ReportWatchStatus(diag.Global(diag.StartingCompilationInWatchMode))
	h.ReportWatchStatus(diag.ErrorsFound(1))

	assert.Equal(t, []int{1}, h.ScreenClears())
	assert.Equal(t, "2:05:09 PM - Found 1 error. Watching for file changes.\r\n\r\n", h.Output()[1])
}

func TestReportUsesFullFormatter(t *testing.T) {
	prog := program.New("/user/username/projects/myproject")
	prog.AddRoot("/user/username/projects/myproject/a.ts", `import { x } from "./b";`)

	d, err := diag.ModuleNotFound(prog, "a.ts", "./b")
	require.NoError(t, err)

	bag := diag.NewBag(0)
	h := New(WithCurrentDirectory(prog.CurrentDirectory()), WithReporter(diag.BagReporter{Bag: bag}))
	h.Report(d)

	assert.Equal(t, []string{"a.ts(1,19): error TS2307: Cannot find module './b'.\n"}, h.Output())
	assert.Equal(t, 1, bag.Len())
}

func TestClearOutputKeepsExitCode(t *testing.T) {
	h := New()
	h.Log("hello")
	h.ClearScreen()
	h.Write("x")
	h.Exit(2)

	snap := h.Snapshot()
	assert.Equal(t, []string{"hello\n", "x"}, snap.Outputs)
	assert.Equal(t, []int{1}, snap.ScreenClears)

	h.ClearOutput()
	assert.Empty(t, h.Output())
	assert.Empty(t, h.ScreenClears())
	code, ok := h.ExitCode()
	assert.True(t, ok)
	assert.Equal(t, 2, code)

	// snapshots are detached from the host
	assert.Len(t, snap.Outputs, 2)
}

func TestConcurrentWrites(t *testing.T) {
	h := New()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				h.Write("line")
			}
		}()
	}
	wg.Wait()
	assert.Len(t, h.Output(), 800)
}

func TestTraceSnapshotCopiesExitCode(t *testing.T) {
	code := 1
	tr := Trace{Outputs: []string{"a"}, ExitStatus: &code}
	cp := tr.Snapshot()
	code = 5
	got, ok := cp.ExitCode()
	assert.True(t, ok)
	assert.Equal(t, 1, got)

	_, ok = (&Trace{}).ExitCode()
	assert.False(t, ok)
}
