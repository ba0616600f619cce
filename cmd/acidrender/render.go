package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	ossignal "os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-acid/dsp/core"
	"github.com/cwbudde/algo-acid/dsp/signal"
	"github.com/cwbudde/algo-acid/internal/audiofile"
	"github.com/cwbudde/algo-acid/internal/host"
	"github.com/cwbudde/algo-acid/internal/ui"
	"github.com/cwbudde/algo-acid/measure/level"
)

// RenderCmd filters audio files.
type RenderCmd struct {
	Inputs   []string `arg:"" name:"input" type:"existingfile" help:"Audio files to filter."`
	OutDir   string   `name:"out-dir" short:"o" type:"path" default:"." help:"Directory for rendered files."`
	Jobs     int      `short:"j" default:"0" help:"Files rendered concurrently (0 uses every CPU)."`
	BitDepth int      `name:"bit-depth" default:"16" enum:"16,24" help:"Output PCM bit depth."`
	Progress bool     `help:"Show a live progress display."`

	PipelineFlags `embed:""`
	ControlFlags  `embed:""`
}

// Run renders every input with its own pipeline.
func (c *RenderCmd) Run(g *Globals) error {
	if err := c.ControlFlags.validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return fmt.Errorf("output directory: %w", err)
	}

	outputs := make([]string, len(c.Inputs))
	for i, in := range c.Inputs {
		outputs[i] = outputPath(c.OutDir, in)
	}

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	job := func(ctx context.Context, i int, progress host.ProgressFunc) (level.Stats, error) {
		return c.renderFile(ctx, c.Inputs[i], outputs[i], progress, g.trace)
	}

	if !c.Progress {
		rep := &textReporter{w: g.stdout, inputs: c.Inputs, outputs: outputs}
		return renderAll(ctx, len(c.Inputs), c.Jobs, job, rep, g.trace)
	}

	model := ui.NewModel(c.Inputs)
	model.Logf = g.trace.Logf

	prog := tea.NewProgram(model, tea.WithContext(ctx))
	rep := &teaReporter{p: prog, outputs: outputs}

	var renderErr error

	done := make(chan struct{})
	go func() {
		defer close(done)

		renderErr = renderAll(ctx, len(c.Inputs), c.Jobs, job, rep, g.trace)
		prog.Send(ui.AllCompleteMsg{})
	}()

	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		stop()
		<-done

		return fmt.Errorf("ui: %w", err)
	}

	stop()
	<-done

	return renderErr
}

func outputPath(dir, input string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	return filepath.Join(dir, stem+"-acid.wav")
}

func (c *RenderCmd) renderFile(ctx context.Context, in, out string, progress host.ProgressFunc, trace *tracer) (level.Stats, error) {
	a, err := audiofile.Read(in)
	if err != nil {
		return level.Stats{}, err
	}

	trace.Logf("[RENDER] %s: %d samples at %d Hz, %d channel(s)", in, len(a.Samples), a.SampleRate, a.Channels)

	y, err := renderSignal(ctx, a.Samples, float64(a.SampleRate), c.PipelineFlags, c.ControlFlags, progress)
	if err != nil {
		return level.Stats{}, err
	}

	stats := level.Calculate(y)
	if err := audiofile.WriteFile(out, y, a.SampleRate, c.BitDepth); err != nil {
		return level.Stats{}, err
	}

	trace.Logf("[RENDER] %s: peak %.2f dBFS, rms %.2f dBFS", out, stats.Peak_dB, stats.RMS_dB)

	return stats, nil
}

// renderSignal runs in through a fresh pipeline driven by a host shell and
// normalises the result to the configured ceiling.
func renderSignal(ctx context.Context, in []float64, sampleRate float64, pf PipelineFlags, cf ControlFlags, progress host.ProgressFunc) ([]float64, error) {
	p, err := pf.newPipeline(sampleRate)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	shell, err := host.New(p, core.WithSampleRate(sampleRate), core.WithBlockSize(cf.Block))
	if err != nil {
		return nil, err
	}

	cutoff, resonance, err := cf.controls(sampleRate, len(in))
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(in))
	if err := shell.Render(ctx, out, in, cutoff, resonance, progress); err != nil {
		return nil, err
	}

	if stats := level.Calculate(out); !stats.Finite() {
		return nil, fmt.Errorf("render produced %d non-finite samples", stats.NonFinite)
	}

	if cf.Ceiling == 0 {
		return out, nil
	}

	return signal.Normalize(out, core.DBToLinear(cf.Ceiling))
}

type renderJob func(ctx context.Context, i int, progress host.ProgressFunc) (level.Stats, error)

type reporter interface {
	start(i int)
	progress(i int, fraction float64)
	done(i int, stats level.Stats, err error)
}

// renderAll runs n jobs with at most jobs in flight. A failing file does
// not stop the others; the joined per-file errors are returned.
func renderAll(ctx context.Context, n, jobs int, job renderJob, rep reporter, trace *tracer) error {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	errs := make([]error, n)

	for i := range n {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rep.start(i)
			trace.Logf("[WORKER] start %d", i)

			// Report whole percents only.
			last := -1
			stats, err := job(ctx, i, func(done, total int) {
				if pct := done * 100 / total; pct != last {
					last = pct
					rep.progress(i, float64(done)/float64(total))
				}
			})

			rep.done(i, stats, err)
			trace.Logf("[WORKER] done %d err=%v", i, err)

			if errors.Is(err, context.Canceled) {
				return err
			}

			errs[i] = err

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return errors.Join(errs...)
}

type textReporter struct {
	mu      sync.Mutex
	w       io.Writer
	inputs  []string
	outputs []string
}

func (r *textReporter) start(int) {}

func (r *textReporter) progress(int, float64) {}

func (r *textReporter) done(i int, stats level.Stats, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		ui.PrintError(r.w, fmt.Sprintf("%s: %v", r.inputs[i], err))
		return
	}

	ui.PrintKV(r.w, filepath.Base(r.outputs[i]),
		fmt.Sprintf("peak %.1f dBFS, rms %.1f dBFS", stats.Peak_dB, stats.RMS_dB))
}

type teaReporter struct {
	p       *tea.Program
	outputs []string
}

func (r *teaReporter) start(i int) { r.p.Send(ui.FileStartMsg{Index: i}) }

func (r *teaReporter) progress(i int, fraction float64) {
	r.p.Send(ui.ProgressMsg{Index: i, Progress: fraction})
}

func (r *teaReporter) done(i int, stats level.Stats, err error) {
	r.p.Send(ui.FileCompleteMsg{
		Index:      i,
		OutputPath: r.outputs[i],
		PeakDB:     stats.Peak_dB,
		RMSDB:      stats.RMS_dB,
		Err:        err,
	})
}
