package watchcheck

import (
	"watchcheck/internal/diag"
	"watchcheck/internal/trace"
	"watchcheck/internal/watchhost"
)

// Options configures a verification.
type Options struct {
	// ScreenStartingCodes are the status codes preceded by a screen clear.
	// Nil means diag.ScreenStartingCodes().
	ScreenStartingCodes diag.CodeSet
	// NewLine is the host newline sequence. Empty means "\n".
	NewLine string
	// CurrentDirectory is where formatted error paths are relative to.
	CurrentDirectory string
	// SuppressClears skips every screen clear check, for sessions that
	// preserve watch output.
	SuppressClears bool
	// Localizer renders the status lines the callers add. Nil means English.
	Localizer *diag.Localizer
	// Tracer receives a case span and one point per segment. Nil disables
	// tracing.
	Tracer trace.Tracer
	// Name labels the trace span.
	Name string
}

// OptionsFor returns options matching the configuration of h.
func OptionsFor(h *watchhost.Host) Options {
	return Options{
		ScreenStartingCodes: h.ScreenStartingCodes(),
		NewLine:             h.NewLine(),
		CurrentDirectory:    h.CurrentDirectory(),
		SuppressClears:      h.PreserveOutput(),
	}
}

func (o Options) withDefaults() Options {
	if o.ScreenStartingCodes == nil {
		o.ScreenStartingCodes = diag.ScreenStartingCodes()
	}
	if o.NewLine == "" {
		o.NewLine = "\n"
	}
	if o.Localizer == nil {
		o.Localizer = diag.English
	}
	if o.Tracer == nil {
		o.Tracer = trace.Nop
	}
	if o.Name == "" {
		o.Name = "verify"
	}
	return o
}

// formatHost adapts options to what the full formatter needs.
type formatHost struct {
	newLine string
	cwd     string
}

func (h formatHost) NewLine() string          { return h.newLine }
func (h formatHost) CurrentDirectory() string { return h.cwd }
