// Package diag defines the diagnostic model produced from Valgrind findings.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings that were
//     attributed to a project source file.
//   - Map Valgrind error kinds ("InvalidRead", "Leak_DefinitelyLost", "Race", ...)
//     onto a stable rule catalog with IDs, titles and default severities.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting, IO, or CLI integration.
// Rendering lives in internal/diagfmt; report parsing and attribution live in
// internal/memcheck and internal/driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric rule identifier (see codes.go) with a stable ID
//     such as MEM1003 and the Valgrind kind it stands for.
//   - Kind – the raw kind string from the report; it differs from Code.Kind()
//     only for kinds missing from the catalog.
//   - Message – the error text followed by the rendered stack.
//   - Primary – the project location the finding is attributed to.
//   - Notes – stack frames with a known location, innermost first.
//
// # Emitting diagnostics
//
// Producers use a Reporter. ReportBuilder (NewReportBuilder, ReportError,
// ReportWarning, ReportInfo) accumulates notes before Emit. BagReporter stores
// into a Bag, which supports sorting, deduplication and filtering;
// DedupReporter drops repeated diagnostics before they reach the next reporter.
package diag
