package acid

// resonanceScale converts the 0..1 resonance stream to the core's percent.
const resonanceScale = 100.0

// stager pushes one output sample's control values into the core and pays
// for exactly one coefficient update.
type stager struct {
	core Core
}

func (s stager) stage(cutoffHz, resonance float64) {
	s.core.SetCutoff(cutoffHz)
	s.core.SetResonance(resonance * resonanceScale)
	s.core.UpdateCoefficients()
}
