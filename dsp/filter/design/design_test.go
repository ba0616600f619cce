package design

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-acid/dsp/filter/biquad"
)

const sr = 48000.0

func TestBandrejectBandwidth(t *testing.T) {
	const (
		fc = 1000.0
		bw = 2.0
	)

	c := Bandreject(fc, bw, sr)
	if !c.IsStable() {
		t.Fatal("unstable band-reject")
	}

	if db := c.MagnitudeDB(fc, sr); db > -100 {
		t.Fatalf("center = %.2f dB, want deep rejection", db)
	}

	// The -3 dB edges of the digital notch sit bw octaves apart.
	lo := fc / math.Pow(2, bw/2)
	hi := fc * math.Pow(2, bw/2)
	lo, hi = refineEdge(c, lo, fc), refineEdge(c, hi, fc)

	if got := math.Log2(hi / lo); math.Abs(got-bw) > 0.05 {
		t.Fatalf("measured bandwidth %.3f octaves, want %.3f", got, bw)
	}
}

// refineEdge searches the -3.0103 dB point between start and center.
func refineEdge(c biquad.Coefficients, start, center float64) float64 {
	a, b := start/2, start*2
	if start > center {
		a, b = center*1.0001, math.Min(start*2, sr/2*0.999)
	} else {
		b = center * 0.9999
	}

	for range 100 {
		m := 0.5 * (a + b)
		above := c.MagnitudeDB(m, sr) > -3.0103
		// Gain falls towards the center in both bands.
		if (start < center) == above {
			a = m
		} else {
			b = m
		}
	}

	return 0.5 * (a + b)
}

func TestBandrejectInvalid(t *testing.T) {
	for _, c := range []biquad.Coefficients{
		Bandreject(0, 1, sr),
		Bandreject(1000, 0, sr),
		Bandreject(1000, math.NaN(), sr),
		Bandreject(30000, 1, sr),
		Bandreject(1000, 1, 0),
	} {
		if c != (biquad.Coefficients{}) {
			t.Fatalf("expected zero coefficients, got %+v", c)
		}
	}
}
