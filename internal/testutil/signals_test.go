package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}

	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}

	RequireBounded(t, s, 1)
}

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	RequireSliceNearlyEqual(t, a, b, 0)

	c := DeterministicNoise(43, 1.0, 64)
	if d, _ := MaxAbsDiff(a, c); d == 0 {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestImpulseAndDC(t *testing.T) {
	imp := Impulse(8, 3)
	if imp[3] != 1 || Energy(imp) != 1 {
		t.Fatalf("Impulse() = %v", imp)
	}

	RequireSilent(t, Impulse(4, 10))

	dc := DC(0.5, 4)
	if Energy(dc) != 1 {
		t.Fatalf("Energy(DC) = %v, want 1", Energy(dc))
	}
}

func TestControlSweep(t *testing.T) {
	cutoff, res := ControlSweep(1000, 100, 1600)

	if cutoff[0] != 100 {
		t.Fatalf("cutoff[0] = %v", cutoff[0])
	}

	if math.Abs(cutoff[500]-400) > 1e-9 {
		t.Fatalf("cutoff midpoint = %v, want 400", cutoff[500])
	}

	for i, r := range res {
		if r < 0 || r > 1 {
			t.Fatalf("res[%d] = %v outside [0, 1]", i, r)
		}
	}
}
