package diag

import (
	"strings"

	"fortio.org/safecast"

	"watchcheck/internal/source"
)

// MessageChain is a message followed by nested, more detailed messages.
type MessageChain struct {
	Text string
	Next []MessageChain
}

// Diagnostic is one compiler finding or watch status message.
// File, Start and Length are nil for global diagnostics.
type Diagnostic struct {
	File        *source.File
	Start       *int
	Length      *int
	MessageText string
	Chain       *MessageChain
	Category    Category
	Code        Code
}

// Flatten resolves the message into a single string. Nested chain entries
// start on a new line indented by two spaces per level.
func (d Diagnostic) Flatten(newline string) string {
	if d.Chain == nil {
		return d.MessageText
	}
	return d.Chain.Flatten(newline)
}

// Flatten renders the chain depth first.
func (c *MessageChain) Flatten(newline string) string {
	var b strings.Builder
	c.flatten(&b, newline, 0)
	return b.String()
}

func (c *MessageChain) flatten(b *strings.Builder, newline string, depth int) {
	if depth > 0 {
		b.WriteString(newline)
		b.WriteString(strings.Repeat("  ", depth))
	}
	b.WriteString(c.Text)
	for i := range c.Next {
		c.Next[i].flatten(b, newline, depth+1)
	}
}

// HasSpan reports whether the diagnostic points into a file.
func (d Diagnostic) HasSpan() bool {
	return d.File != nil && d.Start != nil
}

// Span converts the start/length pair to a source span. It fails when the
// start is the "not found" sentinel or the offsets overflow.
func (d Diagnostic) Span() (source.Span, bool) {
	if !d.HasSpan() {
		return source.Span{}, false
	}
	start, err := safecast.Conv[uint32](*d.Start)
	if err != nil {
		return source.Span{}, false
	}
	length := uint32(0)
	if d.Length != nil {
		if length, err = safecast.Conv[uint32](*d.Length); err != nil {
			return source.Span{}, false
		}
	}
	return source.Span{File: d.File.ID, Start: start, End: start + length}, true
}

// WithChain attaches nested messages below the diagnostic's text.
func (d Diagnostic) WithChain(next ...MessageChain) Diagnostic {
	d.Chain = &MessageChain{Text: d.MessageText, Next: next}
	return d
}
