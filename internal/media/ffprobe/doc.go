// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no techsprint-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, size)
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns a parsed Result
//   - ProbeDuration: convenience duration probe used by the caption engine
package ffprobe
