package acid

import "fmt"

// Core is the resonant filter the pipeline oversamples. SetCutoff and
// SetResonance only stage values; UpdateCoefficients applies them and is
// called once per output sample. ProcessSample runs at the oversampled rate.
type Core interface {
	SetCutoff(hz float64)
	SetResonance(percent float64)
	UpdateCoefficients()
	ProcessSample(x float64) float64
	SetSampleRate(sampleRate float64) error
	Reset()
}

// Stage is a linear filter in the conditioning chain.
type Stage interface {
	SetSampleRate(sampleRate float64) error
	ProcessSample(x float64) float64
	Reset()
}

// Bypass is an identity Stage.
type Bypass struct{}

// SetSampleRate accepts any rate.
func (Bypass) SetSampleRate(float64) error { return nil }

// ProcessSample returns x.
func (Bypass) ProcessSample(x float64) float64 { return x }

// Reset does nothing.
func (Bypass) Reset() {}

// StageRole names a slot in the conditioning chain.
type StageRole int

const (
	// RolePreHighpass runs before the core at the oversampled rate.
	RolePreHighpass StageRole = iota
	// RoleAntiAlias runs after the core at the oversampled rate.
	RoleAntiAlias
	// RoleAllpass is the first post stage at the output rate.
	RoleAllpass
	// RolePostHighpass follows the allpass at the output rate.
	RolePostHighpass
	// RoleNotch is the last stage at the output rate.
	RoleNotch

	numRoles
)

func (r StageRole) String() string {
	switch r {
	case RolePreHighpass:
		return "pre-highpass"
	case RoleAntiAlias:
		return "anti-alias"
	case RoleAllpass:
		return "allpass"
	case RolePostHighpass:
		return "post-highpass"
	case RoleNotch:
		return "notch"
	default:
		return fmt.Sprintf("StageRole(%d)", int(r))
	}
}

// oversampled reports whether the role runs at N times the output rate.
func (r StageRole) oversampled() bool {
	return r == RolePreHighpass || r == RoleAntiAlias
}
