package acid

import (
	"fmt"
	"math"
)

type rateSetter interface {
	SetSampleRate(sampleRate float64) error
}

// rateConfigurator routes output-rate changes to every stage: the core and
// the oversampled stages get factor*rate, the post stages get rate.
type rateConfigurator struct {
	factor      int
	rate        float64
	oversampled []rateSetter
	base        []rateSetter
}

// configure applies rate to all stages. It is a no-op when rate equals the
// current one. On error the cached rate is left untouched.
func (c *rateConfigurator) configure(rate float64) (bool, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return false, fmt.Errorf("%w: %v", ErrInvalidSampleRate, rate)
	}

	if rate == c.rate {
		return false, nil
	}

	osRate := rate * float64(c.factor)
	for _, s := range c.oversampled {
		if err := s.SetSampleRate(osRate); err != nil {
			return false, fmt.Errorf("acid: configure %v Hz: %w", osRate, err)
		}
	}

	for _, s := range c.base {
		if err := s.SetSampleRate(rate); err != nil {
			return false, fmt.Errorf("acid: configure %v Hz: %w", rate, err)
		}
	}

	c.rate = rate

	return true, nil
}
