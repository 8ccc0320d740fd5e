// Package tee pumps one child output stream into a capture buffer while
// forwarding the same bytes to a passthrough sink as they arrive.
//
// # Units
//
// The pump reads in chunks and splits them into units: every complete line
// is a unit, and whatever remains of a partial line at a read boundary is a
// unit too, so prompts that never end in a newline still reach the sink
// immediately. In text mode a trailing character that is not complete yet
// is held back and joined with the next read.
//
// # Decoding
//
// In binary mode units are stored verbatim. In text mode each unit is
// decoded strictly; a unit that fails is decoded with the fallback codec
// instead and the first failure is recorded for the caller. Line endings
// are normalized to "\n" in the text buffer only, never in the sink.
package tee
