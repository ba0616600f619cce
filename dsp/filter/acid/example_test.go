package acid_test

import (
	"fmt"

	"github.com/cwbudde/algo-acid/dsp/filter/acid"
)

func ExampleNew() {
	p, err := acid.New(44100)
	if err != nil {
		panic(err)
	}
	defer p.Close()

	fmt.Println(p.Oversampling(), p.SampleRate(), p.OversampledRate())
	// Output:
	// 4 44100 176400
}

func ExamplePipeline_ProcessBlock() {
	p, err := acid.New(48000)
	if err != nil {
		panic(err)
	}
	defer p.Close()

	const n = 64

	in := make([]float64, n)
	cutoff := make([]float64, n)
	resonance := make([]float64, n)

	for i := range n {
		in[i] = float64(i%16)/8 - 1 // saw
		cutoff[i] = 300 + 40*float64(i)
		resonance[i] = 0.8
	}

	out := make([]float64, n)
	p.ProcessBlock(out, in, cutoff, resonance)

	changed, _ := p.SetSampleRate(48000)
	fmt.Println(len(out), changed)
	// Output:
	// 64 false
}

func ExampleBypass() {
	p, err := acid.New(44100,
		acid.WithOversampling(1),
		acid.WithStage(acid.RoleNotch, acid.Bypass{}),
	)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%T %s\n", p.Stage(acid.RoleNotch), acid.RoleNotch)
	// Output:
	// acid.Bypass notch
}
