package trace

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Heartbeat periodically reports which cases are still being verified. A
// case that hangs shows up as the same name in consecutive beats.
type Heartbeat struct {
	tracer   Tracer
	activity *Activity
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// StartHeartbeat starts beating on tracer every interval. activity may be
// nil, the beats then only carry their sequence number. It returns nil when
// tracing is disabled.
func StartHeartbeat(tracer Tracer, interval time.Duration, activity *Activity) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		activity: activity,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var beat uint64
	for {
		select {
		case <-ticker.C:
			beat++
			h.tracer.Emit(&Event{
				Time:   time.Now(),
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeSuite,
				GID:    getGoroutineID(),
				Name:   "heartbeat",
				Detail: beatDetail(beat, h.activity),
			})
		case <-h.stopCh:
			return
		}
	}
}

// beatDetail renders "#3 done=2 running=edit,initial" or "#3 done=2 idle".
func beatDetail(beat uint64, a *Activity) string {
	names, done := a.Running()
	if len(names) == 0 {
		return fmt.Sprintf("#%d done=%d idle", beat, done)
	}
	return fmt.Sprintf("#%d done=%d running=%s", beat, done, strings.Join(names, ","))
}

// Stop ends the beats and waits for the goroutine. Safe on nil and when
// called twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.stopCh) })
	h.wg.Wait()
}
