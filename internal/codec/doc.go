// Package codec resolves text encodings by name and decodes captured output.
//
// Encodings are looked up in the IANA registry first and in the WHATWG
// encoding index second, so both "cp850" and "latin1" style labels work.
// Decoding comes in two flavors: Decode is strict and reports the first
// undecodable byte range, DecodeLossy replaces undecodable bytes with U+FFFD.
package codec
