package antialias

import (
	"math"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		rate   float64
		factor int
		opts   []Option
	}{
		{"zero rate", 0, 4, nil},
		{"zero factor", 176400, 0, nil},
		{"huge factor", 176400, 17, nil},
		{"bad order", 176400, 4, []Option{WithOrder(0)}},
		{"bad ripple", 176400, 4, []Option{WithRippleDB(-1)}},
		{"bad edge", 176400, 4, []Option{WithEdge(1)}},
		{"bad design", 176400, 4, []Option{WithDesign(Design(9))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.rate, tt.factor, tt.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEdgePlacement(t *testing.T) {
	f, err := New(4*44100, 4)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := 0.9 * 22050
	if math.Abs(f.CutoffHz()-want) > 1e-9 {
		t.Fatalf("CutoffHz() = %v, want %v", f.CutoffHz(), want)
	}

	if f.Order() != 8 || f.Design() != DesignChebyshev1 || f.Factor() != 4 {
		t.Fatalf("defaults: order=%d design=%s factor=%d", f.Order(), f.Design(), f.Factor())
	}
}

func TestAttenuatesAboveBaseNyquist(t *testing.T) {
	const base = 44100.0

	for _, d := range []Design{DesignChebyshev1, DesignButterworth} {
		t.Run(d.String(), func(t *testing.T) {
			f, err := New(4*base, 4, WithDesign(d))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			// Passband is flat up to half the base rate's Nyquist.
			for _, hz := range []float64{20, 1000, 10000} {
				if db := f.MagnitudeDB(hz); math.Abs(db) > 0.2 {
					t.Fatalf("passband |H(%v)| = %.3f dB", hz, db)
				}
			}

			// Everything that would fold back after decimation is attenuated.
			limit := -40.0
			if d == DesignButterworth {
				limit = -20
			}

			for _, hz := range []float64{base * 0.75, base, 2 * base} {
				if db := f.MagnitudeDB(hz); db > limit {
					t.Fatalf("stopband |H(%v)| = %.2f dB, want below %.0f", hz, db, limit)
				}
			}
		})
	}
}

func TestSetSampleRateKeepsState(t *testing.T) {
	f, _ := New(4*44100, 4)
	for i := range 16 {
		f.ProcessSample(math.Sin(float64(i)))
	}

	before := f.State()

	if err := f.SetSampleRate(4 * 48000); err != nil {
		t.Fatalf("SetSampleRate() error = %v", err)
	}

	after := f.State()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("section %d state changed", i)
		}
	}

	if math.Abs(f.CutoffHz()-0.9*24000) > 1e-9 {
		t.Fatalf("CutoffHz() = %v after rate change", f.CutoffHz())
	}

	if err := f.SetSampleRate(math.NaN()); err == nil {
		t.Fatal("expected error for NaN rate")
	}
}

func TestResetAndStateValidation(t *testing.T) {
	f, _ := New(96000, 2, WithOrder(5))

	f.ProcessSample(1)
	f.Reset()

	for _, s := range f.State() {
		if s != [2]float64{} {
			t.Fatal("Reset left state")
		}
	}

	if err := f.SetState(make([][2]float64, 1)); err == nil {
		t.Fatal("expected error for mismatched state length")
	}

	if err := f.SetState(make([][2]float64, 3)); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
}

func TestProcessInPlaceMatchesSample(t *testing.T) {
	a, _ := New(176400, 4)
	b, _ := New(176400, 4)

	buf := make([]float64, 200)
	for i := range buf {
		buf[i] = math.Sin(float64(i) * 0.9)
	}

	want := make([]float64, len(buf))
	for i, x := range buf {
		want[i] = a.ProcessSample(x)
	}

	b.ProcessInPlace(buf)

	for i := range buf {
		if math.Abs(buf[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d: %v vs %v", i, buf[i], want[i])
		}
	}
}

func TestParseDesign(t *testing.T) {
	if d, err := ParseDesign("butterworth"); err != nil || d != DesignButterworth {
		t.Fatalf("ParseDesign(butterworth) = %v, %v", d, err)
	}

	if d, err := ParseDesign("cheby1"); err != nil || d != DesignChebyshev1 {
		t.Fatalf("ParseDesign(cheby1) = %v, %v", d, err)
	}

	if _, err := ParseDesign("elliptic"); err == nil {
		t.Fatal("expected error for unknown design")
	}
}
