// Package teebee provides a nonlinear four-pole ladder lowpass modeled on
// the diode ladder of a classic monophonic bass synthesizer.
//
// Modes:
//   - ModeTB303 (default): diode-ladder topology with coupled stages and
//     polynomial-approximated coefficients for the cutoff and feedback gain.
//   - ModeFlat, ModeLP6 ... ModeLP24, ModeHP6 ... ModeHP24, ModeBP6,
//     ModeBP12: a transistor-style ladder of identical leaky integrators
//     whose pole outputs are mixed with binomial weights.
//
// Feedback is taken from the last pole through a one-pole highpass, so the
// resonance does not cancel the DC gain. The summing node saturates with
// tanh or a cheaper rational approximation.
//
// Cutoff and resonance setters only stage the new values. Coefficients are
// recomputed by UpdateCoefficients, which lets a caller change both
// parameters and pay for one recomputation.
package teebee
