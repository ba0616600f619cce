package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

// lowpass is a fixed RBJ lowpass (fc = 1 kHz at 48 kHz, Q = 1/sqrt2).
var lowpass = Coefficients{
	B0: 0.003916126660547368,
	B1: 0.007832253321094737,
	B2: 0.003916126660547368,
	A1: -1.8153396116625289,
	A2: 0.8310041183047182,
}

func TestSectionIdentity(t *testing.T) {
	s := NewSection(Coefficients{B0: 1})
	for i, x := range []float64{1, -0.5, 0.25, 0} {
		if y := s.ProcessSample(x); y != x {
			t.Fatalf("sample %d: got %v, want %v", i, y, x)
		}
	}
}

func TestSectionProcessBlockMatchesProcessSample(t *testing.T) {
	for _, n := range []int{1, 3, 4, 7, 64, 129} {
		in := make([]float64, n)
		for i := range in {
			in[i] = math.Sin(float64(i)*0.3) + 0.1*float64(i%5)
		}

		a := NewSection(lowpass)
		b := NewSection(lowpass)

		want := make([]float64, n)
		for i, x := range in {
			want[i] = a.ProcessSample(x)
		}

		got := append([]float64(nil), in...)
		b.ProcessBlock(got)

		for i := range want {
			if math.Abs(got[i]-want[i]) > 1e-12 {
				t.Fatalf("n=%d sample %d: block=%v sample=%v", n, i, got[i], want[i])
			}
		}

		if a.State() != b.State() {
			t.Fatalf("n=%d: state mismatch %v vs %v", n, a.State(), b.State())
		}
	}
}

func TestSectionProcessBlockEmpty(t *testing.T) {
	s := NewSection(lowpass)
	s.ProcessBlock(nil)

	if s.State() != [2]float64{} {
		t.Fatalf("state changed on empty block: %v", s.State())
	}
}

func TestSectionStateRoundTrip(t *testing.T) {
	s := NewSection(lowpass)
	for range 10 {
		s.ProcessSample(1)
	}

	saved := s.State()
	want := s.ProcessSample(0.5)

	s.SetState(saved)

	if got := s.ProcessSample(0.5); got != want {
		t.Fatalf("after SetState got %v, want %v", got, want)
	}

	s.Reset()

	if s.State() != [2]float64{} {
		t.Fatalf("Reset left state %v", s.State())
	}
}

func TestSetCoefficientsKeepsState(t *testing.T) {
	s := NewSection(lowpass)
	s.ProcessSample(1)
	before := s.State()

	s.SetCoefficients(Coefficients{B0: 1})

	if s.State() != before {
		t.Fatalf("SetCoefficients changed state: %v -> %v", before, s.State())
	}
}

func TestIsStable(t *testing.T) {
	tests := []struct {
		name string
		c    Coefficients
		want bool
	}{
		{"lowpass", lowpass, true},
		{"fir", Coefficients{B0: 1, B1: 1}, true},
		{"pole on circle", Coefficients{B0: 1, A2: 1}, false},
		{"pole outside", Coefficients{B0: 1, A1: -2.1, A2: 1.2}, false},
		{"real pole at -1.1", Coefficients{B0: 1, A1: 1.1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.IsStable(); got != tt.want {
				t.Fatalf("IsStable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMagnitudeSquaredMatchesResponse(t *testing.T) {
	for _, f := range []float64{0, 100, 1000, 5000, 20000} {
		h := lowpass.Response(f, 48000)
		want := cmplx.Abs(h) * cmplx.Abs(h)

		got := lowpass.MagnitudeSquared(f, 48000)
		if math.Abs(got-want) > 1e-9*math.Max(1, want) {
			t.Fatalf("f=%v: MagnitudeSquared=%v, |H|^2=%v", f, got, want)
		}
	}

	if db := lowpass.MagnitudeDB(1000, 48000); math.Abs(db+3.0103) > 0.01 {
		t.Fatalf("lowpass at fc = %.4f dB, want about -3.01", db)
	}
}

func TestMagnitudeSquaredNearDC(t *testing.T) {
	const (
		sr = 44100.0
		f0 = 7.5164
	)

	// Zeros on the unit circle at f0, poles just inside.
	w0 := 2 * math.Pi * f0 / sr
	cw := math.Cos(w0)
	c := Coefficients{B0: 1, B1: -2 * cw, B2: 1, A1: -2 * 0.99 * cw, A2: 0.99 * 0.99}

	if db := c.MagnitudeDB(f0, sr); db > -100 {
		t.Fatalf("center = %.2f dB, want deep rejection", db)
	}

	for _, f := range []float64{1, 3, 30, 300, 3000} {
		h := c.Response(f, sr)
		want := cmplx.Abs(h) * cmplx.Abs(h)

		got := c.MagnitudeSquared(f, sr)
		if math.Abs(got-want) > 1e-6*want {
			t.Fatalf("f=%v: MagnitudeSquared=%v, |H|^2=%v", f, got, want)
		}
	}
}

func BenchmarkSectionProcessBlock(b *testing.B) {
	s := NewSection(lowpass)
	buf := make([]float64, 1024)

	b.ReportAllocs()
	b.SetBytes(int64(len(buf) * 8))

	for b.Loop() {
		s.ProcessBlock(buf)
	}
}
