// Package captions turns narration text into timed subtitle cues that honor
// the broadcast contract: duration windows, reading-speed ceilings, two-line
// safe-area layout, and sentence-level well-formedness.
//
// The pipeline is a sequence of pure passes over an in-memory cue list:
// normalization, cue building (script-driven or transcript-driven),
// constraint enforcement run to a fixed point, integrity merging, and an
// optional verbatim guard. Serialization to SRT and ASS shares one timestamp
// codec so written files parse back bit-for-bit.
package captions
