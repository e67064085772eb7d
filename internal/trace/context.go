package trace

import "context"

type (
	tracerKey   struct{}
	caseKey     struct{}
	activityKey struct{}
)

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer returns ctx carrying t. A nil tracer is stored as Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// CaseSpan names the case a goroutine verifies and the suite span it runs
// under.
type CaseSpan struct {
	Parent uint64
	Case   string
}

// WithCase returns ctx carrying cs.
func WithCase(ctx context.Context, cs CaseSpan) context.Context {
	return context.WithValue(ctx, caseKey{}, cs)
}

// CurrentCase returns the case carried by ctx.
func CurrentCase(ctx context.Context) (CaseSpan, bool) {
	if ctx == nil {
		return CaseSpan{}, false
	}
	cs, ok := ctx.Value(caseKey{}).(CaseSpan)
	return cs, ok
}

// WithActivity returns ctx carrying a.
func WithActivity(ctx context.Context, a *Activity) context.Context {
	return context.WithValue(ctx, activityKey{}, a)
}

// ActivityFrom returns the activity carried by ctx. The result may be nil,
// which Activity methods accept.
func ActivityFrom(ctx context.Context) *Activity {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(activityKey{}).(*Activity)
	return a
}
