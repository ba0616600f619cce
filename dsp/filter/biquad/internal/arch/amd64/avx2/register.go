//go:build amd64 && !purego

// Package avx2 registers the paired-sample biquad block kernel for AVX2 CPUs.
package avx2

import (
	"github.com/cwbudde/algo-acid/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:         "avx2",
		SIMDLevel:    cpu.SIMDAVX2,
		Priority:     20,
		ProcessBlock: processBlock,
	})
}

// processBlock walks buf two samples at a time, keeping the delay line in
// registers. Operation order matches the generic kernel, so results are
// bit-identical.
func processBlock(c registry.Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	for len(buf) >= 2 {
		pair := buf[:2:2]

		x := pair[0]
		y := b0*x + d0
		t0 := b1*x - a1*y + d1
		t1 := b2*x - a2*y
		pair[0] = y

		x = pair[1]
		y = b0*x + t0
		d0 = b1*x - a1*y + t1
		d1 = b2*x - a2*y
		pair[1] = y

		buf = buf[2:]
	}

	if len(buf) == 1 {
		x := buf[0]
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[0] = y
	}

	return d0, d1
}
