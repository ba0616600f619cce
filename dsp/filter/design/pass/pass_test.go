package pass

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-acid/dsp/filter/biquad"
)

const sr = 176400.0

func cascadeDB(sections []biquad.Coefficients, f float64) float64 {
	var db float64
	for i := range sections {
		db += sections[i].MagnitudeDB(f, sr)
	}

	return db
}

func TestButterworthLP(t *testing.T) {
	for _, order := range []int{1, 2, 3, 4, 5, 8} {
		sections := ButterworthLP(20000, order, sr)
		if len(sections) != (order+1)/2 {
			t.Fatalf("order %d: %d sections", order, len(sections))
		}

		for i, s := range sections {
			if !s.IsStable() {
				t.Fatalf("order %d: section %d unstable", order, i)
			}
		}

		if db := cascadeDB(sections, 20000); math.Abs(db+3.0103) > 0.01 {
			t.Fatalf("order %d: |H(fc)| = %.4f dB, want -3.01", order, db)
		}

		if db := cascadeDB(sections, 10); math.Abs(db) > 1e-6 {
			t.Fatalf("order %d: DC gain %.6f dB", order, db)
		}
	}
}

func TestChebyshev1LPRipple(t *testing.T) {
	const (
		fc     = 19845.0
		ripple = 0.1
	)

	for _, order := range []int{2, 3, 6, 8} {
		sections := Chebyshev1LP(fc, order, ripple, sr)
		if len(sections) != (order+1)/2 {
			t.Fatalf("order %d: %d sections", order, len(sections))
		}

		for i, s := range sections {
			if !s.IsStable() {
				t.Fatalf("order %d: section %d unstable", order, i)
			}
		}

		maxDB, minDB := math.Inf(-1), math.Inf(1)
		for f := 10.0; f <= fc; f += 25 {
			db := cascadeDB(sections, f)
			maxDB = math.Max(maxDB, db)
			minDB = math.Min(minDB, db)
		}

		if maxDB > 1e-6 || minDB < -ripple-1e-3 {
			t.Fatalf("order %d: passband spans [%.4f, %.4f] dB, want within [-%.1f, 0]",
				order, minDB, maxDB, ripple)
		}

		if db := cascadeDB(sections, fc); math.Abs(db+ripple) > 1e-3 {
			t.Fatalf("order %d: edge %.4f dB, want -%.1f", order, db, ripple)
		}
	}
}

func TestChebyshev1LPStopband(t *testing.T) {
	sections := Chebyshev1LP(19845, 8, 0.1, sr)

	// Well above the edge the eighth-order response must be far down.
	if db := cascadeDB(sections, 44100); db > -60 {
		t.Fatalf("stopband at 44.1 kHz = %.2f dB", db)
	}

	// Steeper than Butterworth of the same order.
	bw := ButterworthLP(19845, 8, sr)
	if cascadeDB(sections, 30000) >= cascadeDB(bw, 30000) {
		t.Fatal("Chebyshev I should roll off faster than Butterworth")
	}
}

func TestInvalidParameters(t *testing.T) {
	cases := [][]biquad.Coefficients{
		ButterworthLP(1000, 0, sr),
		ButterworthLP(0, 4, sr),
		ButterworthLP(sr, 4, sr),
		Chebyshev1LP(1000, -1, 0.1, sr),
		Chebyshev1LP(1000, 4, 0.1, 0),
	}

	for i, c := range cases {
		if c != nil {
			t.Fatalf("case %d: expected nil, got %d sections", i, len(c))
		}
	}

	if got := Chebyshev1LP(1000, 4, 0, sr); len(got) != 2 {
		t.Fatalf("default ripple should still design: %d sections", len(got))
	}
}
