package biquad

import (
	"math"
	"testing"
)

func TestChainCascadesSections(t *testing.T) {
	c := NewChain([]Coefficients{lowpass, lowpass}, WithGain(0.5))

	if c.NumSections() != 2 || c.Order() != 4 {
		t.Fatalf("NumSections=%d Order=%d", c.NumSections(), c.Order())
	}

	if c.Gain() != 0.5 {
		t.Fatalf("Gain() = %v", c.Gain())
	}

	a := NewSection(lowpass)
	b := NewSection(lowpass)

	for i := range 32 {
		x := math.Cos(float64(i))
		want := b.ProcessSample(a.ProcessSample(0.5 * x))

		if got := c.ProcessSample(x); math.Abs(got-want) > 1e-15 {
			t.Fatalf("sample %d: got %v, want %v", i, got, want)
		}
	}
}

func TestChainProcessBlockMatchesProcessSample(t *testing.T) {
	in := make([]float64, 100)
	for i := range in {
		in[i] = math.Sin(float64(i) * 0.7)
	}

	a := NewChain([]Coefficients{lowpass, lowpass}, WithGain(2))
	b := NewChain([]Coefficients{lowpass, lowpass}, WithGain(2))

	got := append([]float64(nil), in...)
	b.ProcessBlock(got)

	for i, x := range in {
		if want := a.ProcessSample(x); math.Abs(got[i]-want) > 1e-12 {
			t.Fatalf("sample %d: block=%v sample=%v", i, got[i], want)
		}
	}
}

func TestChainUpdateCoefficients(t *testing.T) {
	c := NewChain([]Coefficients{lowpass, lowpass})
	c.ProcessSample(1)
	before := c.State()

	c.UpdateCoefficients([]Coefficients{{B0: 1}, {B0: 1}}, 1)

	after := c.State()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("section %d state changed on same-size update", i)
		}
	}

	c.UpdateCoefficients([]Coefficients{{B0: 1}}, 3)

	if c.NumSections() != 1 || c.Gain() != 3 {
		t.Fatalf("NumSections=%d Gain=%v after resize", c.NumSections(), c.Gain())
	}

	if c.Section(0).State() != [2]float64{} {
		t.Fatal("resized chain should start from zero state")
	}
}

func TestChainImpulseResponsePreservesState(t *testing.T) {
	c := NewChain([]Coefficients{lowpass})
	c.ProcessSample(1)
	saved := c.State()

	ir := c.ImpulseResponse(8)
	if len(ir) != 8 {
		t.Fatalf("len(ir) = %d", len(ir))
	}

	if math.Abs(ir[0]-lowpass.B0) > 1e-15 {
		t.Fatalf("ir[0] = %v, want b0 %v", ir[0], lowpass.B0)
	}

	if c.State()[0] != saved[0] {
		t.Fatal("ImpulseResponse did not restore state")
	}

	if c.ImpulseResponse(0) != nil {
		t.Fatal("ImpulseResponse(0) should be nil")
	}
}

func TestChainMagnitudeDB(t *testing.T) {
	c := NewChain([]Coefficients{lowpass, lowpass})

	want := 2 * lowpass.MagnitudeDB(3000, 48000)
	if got := c.MagnitudeDB(3000, 48000); math.Abs(got-want) > 1e-9 {
		t.Fatalf("MagnitudeDB = %v, want %v", got, want)
	}

	c.Reset()

	for _, s := range c.State() {
		if s != [2]float64{} {
			t.Fatal("Reset left non-zero state")
		}
	}
}
