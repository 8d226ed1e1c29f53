// Package services defines shared error-handling utilities consumed by the
// caption engine, the QC validator, and the CLI.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that tag failures with a
//     category the CLI can translate into exit codes.
//   - Context helpers that stamp run identifiers and pipeline stage names
//     for logging.
//
// Use these helpers when wiring new engine passes so operational behaviour
// (error classification, observability) stays uniform across the pipeline.
package services
