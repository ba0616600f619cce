// Package pass designs high-order lowpass filters as cascades of biquad
// sections.
//
// The designers start from the analog prototype poles, map each conjugate
// pair through the bilinear transform with frequency prewarping and return
// one biquad.Coefficients per pair. Odd orders end with a first-order
// section (B2 = A2 = 0).
package pass
