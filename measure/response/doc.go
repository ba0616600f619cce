// Package response measures the magnitude response of a mono processor by
// driving it with a unit impulse and transforming the captured impulse
// response with an FFT.
//
// Nonlinear processors such as the acid pipeline are measured at the small
// signal level of the impulse, which is where their response is defined by
// the linearised filter.
package response
