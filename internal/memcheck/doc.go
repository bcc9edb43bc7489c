// Package memcheck reads the XML error reports written by Valgrind tools
// (memcheck, helgrind, drd with --xml=yes) into an in-memory model.
//
// # Data model
//
//   - Frame – one stack-trace entry: instruction pointer, object, function,
//     directory, file and line. Line -1 means "unknown".
//   - Stack – frames in document order, innermost call first.
//   - Error – one reported defect: kind, free-text description and stack.
//
// Errors are deduplicated by structure: two errors with the same kind and the
// same stack are the same defect, whatever their text says. ErrorSet keeps
// exactly one Error per (kind, stack) key.
//
// # Parsing
//
// Parse consumes the document once, front to back, on top of encoding/xml
// tokens. Tags are matched case-insensitively; unknown elements are skipped.
// A malformed document (broken markup, truncated stream, bad line number)
// yields an error wrapping ErrMalformed and no partial result.
//
// # Ownership
//
// Error.OwnFrame picks the innermost frame whose directory lies under the
// project root, using a raw string prefix test. This is the frame a finding is
// attributed to.
package memcheck
