package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	KindHeartbeat // periodic liveness signal
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeSuite covers a whole CLI run over many cases.
	ScopeSuite Scope = iota + 1
	// ScopeCase covers one verification of one trace.
	ScopeCase
	// ScopeSegment covers single segment comparisons (most detailed).
	ScopeSegment
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeSuite:
		return "suite"
	case ScopeCase:
		return "case"
	case ScopeSegment:
		return "segment"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	GID      uint64            // goroutine ID (for concurrent spans)
	Name     string            // e.g. "verify", "case:initial-errors", "segment:Diagnostic"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}
