// Package level computes time-domain level statistics of rendered audio:
// peak, RMS, DC offset, crest factor, zero crossings, non-finite sample
// counts and decay/settling measures used to judge filter stability.
//
// [Calculate] works on a complete buffer; [Meter] accumulates the same
// statistics block by block and yields identical results.
package level
