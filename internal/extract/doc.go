// Package extract finds website mentions in transcript text.
//
// The result is an insertion-ordered set: every distinct matched substring
// appears once, in the order it was first seen, so downstream enrichment and
// report output are deterministic for a given transcript.
package extract
