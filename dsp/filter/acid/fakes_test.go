package acid

import (
	"errors"
	"fmt"
)

// callLog collects calls from fakes in order.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

// countingCore is an identity core that records every call.
type countingCore struct {
	log *callLog

	cutoff, resonance float64
	updates           int
	processed         int
	resets            int
	rates             []float64
	closed            bool
}

func (c *countingCore) SetCutoff(hz float64) {
	c.cutoff = hz
	c.log.add("cutoff %g", hz)
}

func (c *countingCore) SetResonance(percent float64) {
	c.resonance = percent
	c.log.add("resonance %g", percent)
}

func (c *countingCore) UpdateCoefficients() {
	c.updates++
	c.log.add("update")
}

func (c *countingCore) ProcessSample(x float64) float64 {
	c.processed++
	c.log.add("core")

	return x
}

func (c *countingCore) SetSampleRate(sampleRate float64) error {
	c.rates = append(c.rates, sampleRate)
	return nil
}

func (c *countingCore) Reset() { c.resets++ }

func (c *countingCore) Close() error {
	c.closed = true
	return errors.New("core close failed")
}

// recordingStage is an identity stage that logs its name per sample.
type recordingStage struct {
	name   string
	log    *callLog
	rates  []float64
	resets int
	fail   bool
}

func (s *recordingStage) SetSampleRate(sampleRate float64) error {
	if s.fail {
		return errors.New("refused")
	}

	s.rates = append(s.rates, sampleRate)

	return nil
}

func (s *recordingStage) ProcessSample(x float64) float64 {
	if s.log != nil {
		s.log.add("%s", s.name)
	}

	return x
}

func (s *recordingStage) Reset() { s.resets++ }

type recordedPipeline struct {
	*Pipeline

	log    *callLog
	core   *countingCore
	stages [numRoles]*recordingStage
}

func newRecorded(sampleRate float64, factor int) (*recordedPipeline, error) {
	log := &callLog{}
	r := &recordedPipeline{log: log, core: &countingCore{log: log}}

	opts := []Option{WithOversampling(factor), WithCore(r.core)}
	for role := range numRoles {
		r.stages[role] = &recordingStage{name: role.String(), log: log}
		opts = append(opts, WithStage(role, r.stages[role]))
	}

	p, err := New(sampleRate, opts...)
	if err != nil {
		return nil, err
	}

	r.Pipeline = p

	return r, nil
}
