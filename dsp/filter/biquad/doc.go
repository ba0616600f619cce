// Package biquad provides the second-order IIR runtime used by the notch and
// anti-alias stages.
//
// A [Section] implements Direct Form II Transposed processing for one
// second-order section defined by [Coefficients]. Sections are cascaded via
// [Chain] for higher-order responses. Block processing dispatches to the
// fastest kernel registered for the running CPU.
//
// Coefficient design lives in dsp/filter/design.
package biquad
