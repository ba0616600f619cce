// Package host drives a block processor the way a patching host does:
// fixed-size blocks, a sample-rate notification before every block and an
// explicit reset message.
package host

import (
	"context"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-acid/dsp/core"
)

// ErrLengthMismatch reports signal and control streams of different lengths.
var ErrLengthMismatch = errors.New("host: signal and control lengths differ")

// Processor is a mono block processor with per-sample control streams.
type Processor interface {
	SetSampleRate(sampleRate float64) (changed bool, err error)
	ProcessBlock(dst, in, cutoff, resonance []float64)
	Reset()
}

// ProgressFunc receives the number of rendered samples after each block.
type ProgressFunc func(done, total int)

// Shell feeds a Processor in fixed-size blocks.
type Shell struct {
	proc Processor
	cfg  core.ProcessorConfig

	rateChanges int
}

// New wraps proc. The processing config defaults to 44.1 kHz with 64-sample
// blocks.
func New(proc Processor, opts ...core.ProcessorOption) (*Shell, error) {
	if proc == nil {
		return nil, errors.New("host: nil processor")
	}

	cfg := core.ApplyProcessorOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}

	return &Shell{proc: proc, cfg: cfg}, nil
}

// Config returns the current processing configuration.
func (s *Shell) Config() core.ProcessorConfig { return s.cfg }

// RateChanges reports how many block callbacks actually changed the
// processor's rate.
func (s *Shell) RateChanges() int { return s.rateChanges }

// SetSampleRate changes the host rate. The processor sees it at the start of
// the next block.
func (s *Shell) SetSampleRate(sampleRate float64) error {
	cfg := s.cfg
	cfg.SampleRate = sampleRate

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("host: %w", err)
	}

	s.cfg = cfg

	return nil
}

// Bang resets the processor.
func (s *Shell) Bang() { s.proc.Reset() }

// Block runs one host callback: rate notification, then processing.
// Blocks shorter than the configured size are allowed at the end of a
// stream.
func (s *Shell) Block(dst, in, cutoff, resonance []float64) error {
	if len(in) != len(dst) || len(cutoff) != len(in) || len(resonance) != len(in) {
		return fmt.Errorf("%w: dst %d, in %d, cutoff %d, resonance %d",
			ErrLengthMismatch, len(dst), len(in), len(cutoff), len(resonance))
	}

	changed, err := s.proc.SetSampleRate(s.cfg.SampleRate)
	if err != nil {
		return fmt.Errorf("host: set sample rate: %w", err)
	}

	if changed {
		s.rateChanges++
	}

	s.proc.ProcessBlock(dst, in, cutoff, resonance)

	return nil
}

// Render processes in through the processor block by block. It stops
// between blocks when ctx is cancelled.
func (s *Shell) Render(ctx context.Context, dst, in, cutoff, resonance []float64, progress ProgressFunc) error {
	n := len(in)
	if len(dst) != n || len(cutoff) != n || len(resonance) != n {
		return fmt.Errorf("%w: dst %d, in %d, cutoff %d, resonance %d",
			ErrLengthMismatch, len(dst), n, len(cutoff), len(resonance))
	}

	bs := s.cfg.BlockSize
	for start := 0; start < n; start += bs {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+bs, n)
		if err := s.Block(dst[start:end], in[start:end], cutoff[start:end], resonance[start:end]); err != nil {
			return err
		}

		if progress != nil {
			progress(end, n)
		}
	}

	return nil
}
