// Package diag defines the diagnostic values a watch session prints and the
// helpers test authors use to build the diagnostics they expect.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - File, Start, Length – optional location; absent for status messages
//     such as "Found 2 errors. Watching for file changes.".
//   - MessageText – the rendered, localized message.
//   - Chain – optional nested messages; Flatten turns it into one string.
//   - Category and Code – copied from the catalog Message.
//
// Messages live in codes.go. Their templates use Go positional verbs and are
// localized through a golang.org/x/text catalog (localize.go).
//
// # Building expected diagnostics
//
// AtSubstring locates a span by searching the file text for a needle, so
// tests can address "the import of ./f2" instead of counting bytes:
//
//	d, err := diag.ModuleNotFound(prog, "/a/b/app.ts", "./f2")
//
// The needle is not required to exist. When it is absent Start is -1 and the
// mismatch shows up when the diagnostic is compared, not here.
//
// # Scope
//
// Package diag does not format anything for output. Rendering lives in
// internal/diagfmt.
package diag
