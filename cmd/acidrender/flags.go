package main

import (
	"fmt"

	"github.com/cwbudde/algo-acid/dsp/core"
	"github.com/cwbudde/algo-acid/dsp/filter/acid"
	"github.com/cwbudde/algo-acid/dsp/filter/antialias"
	"github.com/cwbudde/algo-acid/dsp/filter/teebee"
	"github.com/cwbudde/algo-acid/dsp/signal"
)

// PipelineFlags select the filter voicing.
type PipelineFlags struct {
	Mode         string `default:"tb303" enum:"tb303,lp24,lp18,lp12,lp6,bp12,bp6,hp24,hp18,hp12,hp6,flat" help:"Core response mode."`
	Saturation   string `default:"tanh" enum:"tanh,lightweight" help:"Core saturation curve."`
	Oversampling int    `default:"4" help:"Core passes per output sample."`
	AntiAlias    string `name:"anti-alias" default:"chebyshev1" enum:"chebyshev1,butterworth" help:"Anti-alias prototype."`
	AAOrder      int    `name:"aa-order" default:"0" help:"Anti-alias order (0 keeps the prototype default)."`
}

func (f PipelineFlags) newPipeline(sampleRate float64) (*acid.Pipeline, error) {
	mode, err := teebee.ParseMode(f.Mode)
	if err != nil {
		return nil, err
	}

	sat := teebee.SaturationTanh
	if f.Saturation == "lightweight" {
		sat = teebee.SaturationLightweight
	}

	design, err := antialias.ParseDesign(f.AntiAlias)
	if err != nil {
		return nil, err
	}

	factor := f.Oversampling
	if factor == 0 {
		factor = acid.DefaultOversampling
	}

	ladder, err := teebee.New(sampleRate*float64(factor), teebee.WithMode(mode), teebee.WithSaturation(sat))
	if err != nil {
		return nil, err
	}

	return acid.New(sampleRate,
		acid.WithOversampling(factor),
		acid.WithCore(ladder),
		acid.WithAntiAliasDesign(design, f.AAOrder),
	)
}

// ControlFlags shape the cutoff and resonance streams.
type ControlFlags struct {
	Block       int     `default:"64" help:"Host block size in samples."`
	Cutoff      float64 `default:"300" help:"Base cutoff in Hz."`
	EnvMod      float64 `name:"env-mod" default:"3" help:"Envelope sweep above the base cutoff, in octaves."`
	Decay       float64 `default:"0.12" help:"Envelope decay time constant in seconds."`
	Step        float64 `default:"0.125" help:"Envelope retrigger interval in seconds."`
	Resonance   float64 `default:"0.8" help:"Resonance in [0, 1]."`
	ResLFO      float64 `name:"res-lfo" default:"0" help:"Resonance LFO rate in Hz (0 keeps it constant)."`
	ResLFODepth float64 `name:"res-lfo-depth" default:"0.15" help:"Resonance LFO depth."`
	Ceiling     float64 `default:"-1" help:"Peak level of the rendered file in dBFS (0 disables normalisation)."`
}

func (f ControlFlags) validate() error {
	if f.Block <= 0 {
		return fmt.Errorf("block size must be > 0: %d", f.Block)
	}

	if f.Cutoff <= 0 {
		return fmt.Errorf("cutoff must be > 0: %v", f.Cutoff)
	}

	if f.Resonance < 0 || f.Resonance > 1 {
		return fmt.Errorf("resonance must be in [0, 1]: %v", f.Resonance)
	}

	if f.Ceiling > 0 {
		return fmt.Errorf("ceiling must be <= 0 dBFS: %v", f.Ceiling)
	}

	return nil
}

// controls builds per-sample cutoff and resonance streams.
func (f ControlFlags) controls(sampleRate float64, n int) (cutoff, resonance []float64, err error) {
	gen := signal.NewGenerator(core.WithSampleRate(sampleRate), core.WithBlockSize(f.Block))

	env, err := gen.DecayEnvelope(f.Step, f.Decay, n)
	if err != nil {
		return nil, nil, err
	}

	cutoff = signal.ExpSweep(env, f.Cutoff, f.EnvMod)

	if f.ResLFO > 0 {
		resonance, err = gen.LFO(f.ResLFO, f.Resonance, f.ResLFODepth, n)
		if err != nil {
			return nil, nil, err
		}

		signal.Clamp(resonance, 0, 1)
	} else {
		resonance = signal.Fill(f.Resonance, n)
	}

	return cutoff, resonance, nil
}
