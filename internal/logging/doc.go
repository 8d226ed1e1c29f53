// Package logging wraps log/slog with typed attribute helpers and the two
// output formats the CLI supports: a human console format and JSON for
// machine consumption. Components receive a *slog.Logger and never construct
// handlers themselves.
package logging
