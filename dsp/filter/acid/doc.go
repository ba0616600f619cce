// Package acid runs a resonant ladder core inside an oversampled,
// state-persistent conditioning chain, as used to emulate the filter
// section of a classic acid bass line synthesizer.
//
// For every output sample the pipeline
//
//  1. stages cutoff (Hz) and resonance (0..1, scaled to percent) on the core
//     and recomputes the core coefficients once,
//  2. feeds the inverted input sample N times through
//     pre-highpass -> core -> anti-alias lowpass at N times the output rate,
//     holding the input and carrying all state between passes,
//  3. keeps the last pass and runs it through allpass -> post-highpass ->
//     band-reject at the output rate.
//
// Cutoff and resonance are streams with one value per output sample. The
// per-sample path does not allocate, lock, or branch on sample values.
//
// A Pipeline is not safe for concurrent use. Independent pipelines share no
// state and may run on separate goroutines.
package acid
