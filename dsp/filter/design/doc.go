// Package design provides the RBJ-style band-reject biquad designer used by
// dsp/filter/notch.
//
// Invalid frequencies or sample rates yield zero coefficients, which process
// to silence. Lowpass cascades live in design/pass.
package design
