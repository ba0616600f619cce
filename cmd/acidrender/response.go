package main

import (
	"fmt"

	"github.com/cwbudde/algo-acid/dsp/filter/acid"
	"github.com/cwbudde/algo-acid/internal/ui"
	"github.com/cwbudde/algo-acid/measure/level"
	"github.com/cwbudde/algo-acid/measure/response"
)

// ResponseCmd prints the small-signal magnitude response of the chain.
type ResponseCmd struct {
	SampleRate float64   `name:"sample-rate" default:"44100" help:"Output sample rate in Hz."`
	Cutoff     float64   `default:"1000" help:"Held cutoff in Hz."`
	Resonance  float64   `default:"0" help:"Held resonance in [0, 1]."`
	FFTSize    int       `name:"fft-size" default:"65536" help:"Impulse response length (power of two)."`
	Freqs      []float64 `default:"20,50,100,200,500,1000,2000,5000,10000,20000" help:"Frequencies to report in Hz."`

	PipelineFlags `embed:""`
}

// Run measures and prints the response.
func (c *ResponseCmd) Run(g *Globals) error {
	if err := c.validate(); err != nil {
		return err
	}

	r, stats, err := c.measure()
	if err != nil {
		return err
	}

	aa, nt, err := c.measureStages()
	if err != nil {
		return err
	}

	w := g.stdout

	fmt.Fprintln(w, ui.TitleStyle.Render(fmt.Sprintf("%s, cutoff %g Hz, resonance %g", c.Mode, c.Cutoff, c.Resonance)))

	for _, f := range c.Freqs {
		ui.PrintKV(w, fmt.Sprintf("%g Hz", f), fmt.Sprintf("%7.2f dB   anti-alias %7.2f   notch %7.2f",
			r.MagnitudeDB(f), aa.MagnitudeDB(f), nt.MagnitudeDB(f)))
	}

	peakHz, peakDB := r.Peak()
	ui.PrintKV(w, "peak", fmt.Sprintf("%.1f Hz at %.2f dB", peakHz, peakDB))
	ui.PrintKV(w, "ir peak", fmt.Sprintf("%.4g at sample %d", stats.Peak, stats.PeakPos))
	ui.PrintKV(w, "ir energy", fmt.Sprintf("%.4g", stats.Energy))
	ui.PrintKV(w, "ir settles", fmt.Sprintf("sample %d (-120 dB)", level.SettleIndex(r.Impulse(), 1e-6*stats.Peak)))
	ui.PrintKV(w, "ir tail", fmt.Sprintf("%.3g of energy in last quarter", level.TailEnergyRatio(r.Impulse(), 0.25)))

	g.trace.Logf("[RESPONSE] fft %d, bin %.3f Hz", r.FFTSize(), r.BinHz())

	return nil
}

func (c *ResponseCmd) measure() (*response.Response, level.Stats, error) {
	p, err := c.newPipeline(c.SampleRate)
	if err != nil {
		return nil, level.Stats{}, err
	}
	defer p.Close()

	// A small impulse keeps the saturating core in its linear range.
	r, err := response.Measure(c.SampleRate, func(x float64) float64 {
		return p.ProcessSample(x, c.Cutoff, c.Resonance)
	}, response.WithFFTSize(c.FFTSize), response.WithAmplitude(1e-3))
	if err != nil {
		return nil, level.Stats{}, err
	}

	return r, level.Calculate(r.Impulse()), nil
}

func (c *ResponseCmd) validate() error {
	if !(c.SampleRate > 0) {
		return fmt.Errorf("sample rate must be > 0: %v", c.SampleRate)
	}

	if !(c.Cutoff > 0) {
		return fmt.Errorf("cutoff must be > 0: %v", c.Cutoff)
	}

	if !(c.Resonance >= 0 && c.Resonance <= 1) {
		return fmt.Errorf("resonance must be in [0, 1]: %v", c.Resonance)
	}

	if c.FFTSize < 2 || c.FFTSize&(c.FFTSize-1) != 0 {
		return fmt.Errorf("%w: %d", response.ErrInvalidFFTSize, c.FFTSize)
	}

	return nil
}

// blockStage is a conditioning stage with a block path.
type blockStage interface {
	ProcessInPlace(buf []float64)
	Reset()
}

// measureStages runs an impulse block through the pipeline's own anti-alias
// and notch stages, each at the rate it runs at inside the pipeline.
func (c *ResponseCmd) measureStages() (antiAlias, notch *response.Response, err error) {
	p, err := c.newPipeline(c.SampleRate)
	if err != nil {
		return nil, nil, err
	}
	defer p.Close()

	antiAlias, err = stageResponse(p, acid.RoleAntiAlias, p.OversampledRate(), c.FFTSize)
	if err != nil {
		return nil, nil, err
	}

	notch, err = stageResponse(p, acid.RoleNotch, p.SampleRate(), c.FFTSize)
	if err != nil {
		return nil, nil, err
	}

	return antiAlias, notch, nil
}

func stageResponse(p *acid.Pipeline, role acid.StageRole, rate float64, size int) (*response.Response, error) {
	stage, ok := p.Stage(role).(blockStage)
	if !ok {
		return nil, fmt.Errorf("%s stage has no block path", role)
	}

	ir := make([]float64, size)
	ir[0] = 1

	stage.Reset()
	stage.ProcessInPlace(ir)
	stage.Reset()

	return response.FromImpulse(rate, ir, response.WithFFTSize(size))
}
