// Package watchcheck verifies the console output of a watch session against
// an expected script.
//
// A script lists, in fixed order, the logs printed before the watch status
// line, the status line itself, the logs printed before the errors, the
// errors, and the trailing status lines (usually the "Found N errors"
// summary). Verify walks the recorded outputs with a cursor and compares one
// segment per output:
//
//   - logs compare equal after an "Elapsed:: <n>ms" prefix is stripped from
//     both sides;
//   - errors compare equal to a raw string or to the fully formatted
//     diagnostic;
//   - status lines only have to end with the rendered status text, so a host
//     timestamp in front of them is tolerated.
//
// Status lines whose code opens a new screen must be preceded by a recorded
// screen clear at exactly their position, and every recorded clear must be
// claimed by one such line. A passing Verify empties the recording so the same
// host can be checked again after the next watch cycle.
package watchcheck
