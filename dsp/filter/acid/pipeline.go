package acid

import (
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/cwbudde/algo-acid/dsp/filter/antialias"
	"github.com/cwbudde/algo-acid/dsp/filter/notch"
	"github.com/cwbudde/algo-acid/dsp/filter/onepole"
	"github.com/cwbudde/algo-acid/dsp/filter/teebee"
)

// Fixed voicing of the conditioning chain.
const (
	PreHighpassHz      = 44.486
	PostHighpassHz     = 24.167
	AllpassHz          = 14.008
	NotchHz            = 7.5164
	NotchBandwidthOct  = 4.7
	FeedbackHighpassHz = 150.0

	DefaultOversampling = 4
	MaxOversampling     = 16
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	factor   int
	core     Core
	stages   [numRoles]Stage
	aaDesign antialias.Design
	aaOrder  int
}

func defaultConfig() config {
	return config{
		factor:   DefaultOversampling,
		aaDesign: antialias.DesignChebyshev1,
	}
}

// WithOversampling sets the number of core passes per output sample,
// in [1, MaxOversampling].
func WithOversampling(factor int) Option {
	return func(cfg *config) error {
		if factor < 1 || factor > MaxOversampling {
			return fmt.Errorf("%w: %d", ErrInvalidOversampling, factor)
		}

		cfg.factor = factor

		return nil
	}
}

// WithCore replaces the default TB-303 ladder. The pipeline takes ownership
// and sets the core's rate to the oversampled rate.
func WithCore(core Core) Option {
	return func(cfg *config) error {
		if core == nil {
			return fmt.Errorf("%w: nil core", ErrInvalidStage)
		}

		cfg.core = core

		return nil
	}
}

// WithStage replaces the stage in role, for example with Bypass{}.
func WithStage(role StageRole, stage Stage) Option {
	return func(cfg *config) error {
		if role < 0 || role >= numRoles {
			return fmt.Errorf("%w: unknown role %d", ErrInvalidStage, role)
		}

		if stage == nil {
			return fmt.Errorf("%w: nil %s", ErrInvalidStage, role)
		}

		cfg.stages[role] = stage

		return nil
	}
}

// WithAntiAliasDesign selects the default anti-alias prototype and order.
// An order of 0 keeps the prototype's default.
func WithAntiAliasDesign(design antialias.Design, order int) Option {
	return func(cfg *config) error {
		if design != antialias.DesignChebyshev1 && design != antialias.DesignButterworth {
			return fmt.Errorf("%w: anti-alias design %d", ErrInvalidStage, design)
		}

		if order < 0 {
			return fmt.Errorf("%w: anti-alias order %d", ErrInvalidStage, order)
		}

		cfg.aaDesign = design
		cfg.aaOrder = order

		return nil
	}
}

// Pipeline is the oversampled acid filter.
type Pipeline struct {
	factor int
	rates  rateConfigurator
	stager stager

	core      Core
	pre       Stage
	antiAlias Stage
	allpass   Stage
	postHP    Stage
	notch     Stage

	closed bool
}

// New builds a pipeline for output rate sampleRate.
func New(sampleRate float64, opts ...Option) (*Pipeline, error) {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.checkShared(); err != nil {
		return nil, err
	}

	if err := cfg.fillDefaults(sampleRate); err != nil {
		return nil, err
	}

	p := &Pipeline{
		factor:    cfg.factor,
		stager:    stager{core: cfg.core},
		core:      cfg.core,
		pre:       cfg.stages[RolePreHighpass],
		antiAlias: cfg.stages[RoleAntiAlias],
		allpass:   cfg.stages[RoleAllpass],
		postHP:    cfg.stages[RolePostHighpass],
		notch:     cfg.stages[RoleNotch],
	}

	p.rates = rateConfigurator{
		factor:      cfg.factor,
		oversampled: []rateSetter{p.core, p.pre, p.antiAlias},
		base:        []rateSetter{p.allpass, p.postHP, p.notch},
	}

	// Injected stages may have been built for another rate.
	if _, err := p.rates.configure(sampleRate); err != nil {
		return nil, err
	}

	return p, nil
}

// checkShared rejects one stateful instance in more than one slot. The core
// and every stage must own their state. Zero-size values carry no state.
func (cfg *config) checkShared() error {
	seen := make(map[any]string, numRoles+1)

	claim := func(v any, slot string) error {
		if v == nil {
			return nil
		}

		t := reflect.TypeOf(v)
		if t.Kind() != reflect.Pointer || t.Elem().Size() == 0 {
			return nil
		}

		if prev, ok := seen[v]; ok {
			return fmt.Errorf("%w: %s and %s share one instance", ErrInvalidStage, prev, slot)
		}

		seen[v] = slot

		return nil
	}

	if err := claim(cfg.core, "core"); err != nil {
		return err
	}

	for role := range numRoles {
		if cfg.stages[role] == nil {
			continue
		}

		if err := claim(cfg.stages[role], role.String()); err != nil {
			return err
		}
	}

	return nil
}

// fillDefaults builds the stock stage for every role left empty.
func (cfg *config) fillDefaults(sampleRate float64) error {
	osRate := sampleRate * float64(cfg.factor)

	if cfg.core == nil {
		core, err := teebee.New(osRate,
			teebee.WithMode(teebee.ModeTB303),
			teebee.WithFeedbackHighpassHz(FeedbackHighpassHz),
		)
		if err != nil {
			return fmt.Errorf("acid: core: %w", err)
		}

		cfg.core = core
	}

	for role := range numRoles {
		if cfg.stages[role] != nil {
			continue
		}

		stage, err := cfg.defaultStage(role, sampleRate)
		if err != nil {
			return fmt.Errorf("acid: %s: %w", role, err)
		}

		cfg.stages[role] = stage
	}

	return nil
}

func (cfg *config) defaultStage(role StageRole, sampleRate float64) (Stage, error) {
	rate := sampleRate
	if role.oversampled() {
		rate *= float64(cfg.factor)
	}

	switch role {
	case RolePreHighpass:
		return onepole.New(rate, onepole.WithMode(onepole.ModeHighpass), onepole.WithCutoffHz(PreHighpassHz))
	case RoleAntiAlias:
		opts := []antialias.Option{antialias.WithDesign(cfg.aaDesign)}
		if cfg.aaOrder > 0 {
			opts = append(opts, antialias.WithOrder(cfg.aaOrder))
		}

		return antialias.New(rate, cfg.factor, opts...)
	case RoleAllpass:
		return onepole.New(rate, onepole.WithMode(onepole.ModeAllpass), onepole.WithCutoffHz(AllpassHz))
	case RolePostHighpass:
		return onepole.New(rate, onepole.WithMode(onepole.ModeHighpass), onepole.WithCutoffHz(PostHighpassHz))
	case RoleNotch:
		return notch.New(rate, notch.WithFrequencyHz(NotchHz), notch.WithBandwidthOct(NotchBandwidthOct))
	default:
		return nil, fmt.Errorf("%w: unknown role %d", ErrInvalidStage, role)
	}
}

// SampleRate returns the output rate in Hz.
func (p *Pipeline) SampleRate() float64 { return p.rates.rate }

// OversampledRate returns the rate of the core and the oversampled stages.
func (p *Pipeline) OversampledRate() float64 { return p.rates.rate * float64(p.factor) }

// Oversampling returns the number of core passes per output sample.
func (p *Pipeline) Oversampling() int { return p.factor }

// Core returns the resonant core.
func (p *Pipeline) Core() Core { return p.core }

// Stage returns the stage in role, or nil for an unknown role.
func (p *Pipeline) Stage(role StageRole) Stage {
	switch role {
	case RolePreHighpass:
		return p.pre
	case RoleAntiAlias:
		return p.antiAlias
	case RoleAllpass:
		return p.allpass
	case RolePostHighpass:
		return p.postHP
	case RoleNotch:
		return p.notch
	default:
		return nil
	}
}

// SetSampleRate reconfigures every stage for a new output rate and reports
// whether anything changed. Filter state is kept.
func (p *Pipeline) SetSampleRate(sampleRate float64) (bool, error) {
	if p.closed {
		return false, ErrClosed
	}

	return p.rates.configure(sampleRate)
}

// ProcessSample filters one output sample. resonance is in [0, 1].
func (p *Pipeline) ProcessSample(x, cutoffHz, resonance float64) float64 {
	p.mustBeOpen()

	return p.process(x, cutoffHz, resonance)
}

// ProcessBlock filters in into dst with per-sample cutoff (Hz) and
// resonance (0..1). dst, cutoff and resonance must be at least as long as
// in. dst may alias in.
func (p *Pipeline) ProcessBlock(dst, in, cutoff, resonance []float64) {
	p.mustBeOpen()

	n := len(in)
	if n == 0 {
		return
	}

	_ = dst[n-1]
	_ = cutoff[n-1]
	_ = resonance[n-1]

	for i, x := range in {
		dst[i] = p.process(x, cutoff[i], resonance[i])
	}
}

// ProcessBlockConstant is ProcessBlock with the same cutoff and resonance
// for every sample. The core is still updated once per sample.
func (p *Pipeline) ProcessBlockConstant(dst, in []float64, cutoffHz, resonance float64) {
	p.mustBeOpen()

	n := len(in)
	if n == 0 {
		return
	}

	_ = dst[n-1]

	for i, x := range in {
		dst[i] = p.process(x, cutoffHz, resonance)
	}
}

func (p *Pipeline) process(x, cutoffHz, resonance float64) float64 {
	p.stager.stage(cutoffHz, resonance)

	var v float64
	for range p.factor {
		v = -x
		v = p.pre.ProcessSample(v)
		v = p.core.ProcessSample(v)
		v = p.antiAlias.ProcessSample(v)
	}

	v = p.allpass.ProcessSample(v)
	v = p.postHP.ProcessSample(v)

	return p.notch.ProcessSample(v)
}

// Reset zeroes the state of the core and every stage. Coefficients and
// the configured rate are kept.
func (p *Pipeline) Reset() {
	p.mustBeOpen()

	p.core.Reset()
	p.pre.Reset()
	p.antiAlias.Reset()
	p.allpass.Reset()
	p.postHP.Reset()
	p.notch.Reset()
}

// Close releases the core and the stages. Members implementing io.Closer
// are closed. Closing twice is a no-op.
func (p *Pipeline) Close() error {
	if p.closed {
		return nil
	}

	p.closed = true

	var errs []error
	for _, m := range []any{p.core, p.pre, p.antiAlias, p.allpass, p.postHP, p.notch} {
		if c, ok := m.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func (p *Pipeline) mustBeOpen() {
	if p.closed {
		panic(ErrClosed)
	}
}
