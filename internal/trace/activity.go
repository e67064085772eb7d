package trace

import (
	"sort"
	"sync"
)

// Activity tracks the cases currently being verified so heartbeats can name
// them.
type Activity struct {
	mu      sync.Mutex
	running map[string]int
	done    int
}

func NewActivity() *Activity {
	return &Activity{running: make(map[string]int)}
}

// Enter marks a case as running and returns the function that marks it done.
func (a *Activity) Enter(name string) func() {
	if a == nil {
		return func() {}
	}
	a.mu.Lock()
	a.running[name]++
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			if a.running[name]--; a.running[name] <= 0 {
				delete(a.running, name)
			}
			a.done++
		})
	}
}

// Running returns the running case names in sorted order and the number of
// finished cases.
func (a *Activity) Running() (names []string, done int) {
	if a == nil {
		return nil, 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for name := range a.running {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, a.done
}
