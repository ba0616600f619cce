package main

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-acid/dsp/core"
	"github.com/cwbudde/algo-acid/dsp/signal"
	"github.com/cwbudde/algo-acid/internal/audiofile"
	"github.com/cwbudde/algo-acid/internal/ui"
	"github.com/cwbudde/algo-acid/measure/level"
)

// Sixteenth-note pattern in semitones above the root.
var demoPattern = []int{0, 0, 12, 0, 3, 0, 7, 10, 0, 12, 0, 5, 0, 3, 15, 0}

// DemoCmd renders a synthetic bass line.
type DemoCmd struct {
	Out        string  `short:"o" type:"path" default:"acid-demo.wav" help:"Output WAV file."`
	SampleRate int     `name:"sample-rate" default:"44100" help:"Output sample rate in Hz."`
	Tempo      float64 `default:"130" help:"Tempo in BPM, one note per sixteenth."`
	Bars       int     `default:"4" help:"Number of bars."`
	Root       float64 `default:"55" help:"Root note in Hz."`
	BitDepth   int     `name:"bit-depth" default:"16" enum:"16,24" help:"Output PCM bit depth."`

	PipelineFlags `embed:""`
	ControlFlags  `embed:""`
}

// Run synthesises the saw line, filters it and writes the file.
func (c *DemoCmd) Run(g *Globals) error {
	y, err := c.render(context.Background())
	if err != nil {
		return err
	}

	if err := audiofile.WriteFile(c.Out, y, c.SampleRate, c.BitDepth); err != nil {
		return err
	}

	stats := level.Calculate(y)
	g.trace.Logf("[DEMO] %s: %d samples, peak %.2f dBFS", c.Out, stats.Length, stats.Peak_dB)

	ui.PrintKV(g.stdout, "written", c.Out)
	ui.PrintKV(g.stdout, "duration", fmt.Sprintf("%.2f s", float64(stats.Length)/float64(c.SampleRate)))
	ui.PrintKV(g.stdout, "peak", fmt.Sprintf("%.1f dBFS", stats.Peak_dB))
	ui.PrintKV(g.stdout, "rms", fmt.Sprintf("%.1f dBFS", stats.RMS_dB))

	return nil
}

func (c *DemoCmd) render(ctx context.Context) ([]float64, error) {
	if c.SampleRate <= 0 || c.Tempo <= 0 || c.Bars <= 0 || c.Root <= 0 {
		return nil, fmt.Errorf("demo: sample rate, tempo, bars and root must be > 0")
	}

	if err := c.ControlFlags.validate(); err != nil {
		return nil, err
	}

	sr := float64(c.SampleRate)
	step := 60 / c.Tempo / 4

	notes := make([]float64, len(demoPattern))
	for i, semis := range demoPattern {
		notes[i] = c.Root * math.Exp2(float64(semis)/12)
	}

	n := int(math.Round(float64(c.Bars*16) * step * sr))

	gen := signal.NewGenerator(core.WithSampleRate(sr))

	saw, err := gen.Sequence(notes, step, 0.5, n)
	if err != nil {
		return nil, err
	}

	// The filter envelope retriggers on every note.
	cf := c.ControlFlags
	cf.Step = step

	return renderSignal(ctx, saw, sr, c.PipelineFlags, cf, nil)
}
