package teebee

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-acid/dsp/core"
	"github.com/cwbudde/algo-acid/dsp/filter/onepole"
)

const (
	defaultCutoffHz           = 1000.0
	defaultResonance          = 0.0
	defaultFeedbackHighpassHz = 150.0

	minCutoffHz    = 20.0
	maxCutoffHz    = 20000.0
	maxCutoffRatio = 0.45
	maxResonance   = 100.0

	stateLimit = 32.0
)

// Mode selects the ladder topology and output mix. LP and HP modes are named
// by slope in dB/oct; BP6 and BP12 combine equal low and high slopes.
type Mode int

// Ladder modes.
const (
	ModeFlat Mode = iota
	ModeLP6
	ModeLP12
	ModeLP18
	ModeLP24
	ModeHP6
	ModeHP12
	ModeHP18
	ModeHP24
	ModeBP6
	ModeBP12
	ModeTB303
)

var modeNames = [...]string{
	ModeFlat:    "flat",
	ModeLP6:     "lp6",
	ModeLP12:    "lp12",
	ModeLP18:    "lp18",
	ModeLP24:    "lp24",
	ModeHP6:     "hp6",
	ModeHP12:    "hp12",
	ModeHP18:    "hp18",
	ModeHP24:    "hp24",
	ModeBP6:     "bp6",
	ModeBP12:    "bp12",
	ModeTB303:   "tb303",
}

func (m Mode) String() string {
	if !validMode(m) {
		return "unknown"
	}

	return modeNames[m]
}

// ParseMode maps a mode name as returned by Mode.String to a Mode.
func ParseMode(name string) (Mode, error) {
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}

	return 0, fmt.Errorf("teebee: unknown mode %q", name)
}

// Saturation selects the summing-node nonlinearity.
type Saturation int

const (
	// SaturationTanh uses exact tanh.
	SaturationTanh Saturation = iota
	// SaturationLightweight uses a rational tanh approximation.
	SaturationLightweight
)

// Option mutates constructor configuration.
type Option func(*config) error

type config struct {
	mode               Mode
	saturation         Saturation
	cutoffHz           float64
	resonance          float64
	feedbackHighpassHz float64
}

func defaultConfig() config {
	return config{
		mode:               ModeTB303,
		saturation:         SaturationTanh,
		cutoffHz:           defaultCutoffHz,
		resonance:          defaultResonance,
		feedbackHighpassHz: defaultFeedbackHighpassHz,
	}
}

// WithMode selects the ladder mode.
func WithMode(mode Mode) Option {
	return func(cfg *config) error {
		if !validMode(mode) {
			return fmt.Errorf("teebee: invalid mode: %d", mode)
		}

		cfg.mode = mode

		return nil
	}
}

// WithSaturation selects the summing-node nonlinearity.
func WithSaturation(saturation Saturation) Option {
	return func(cfg *config) error {
		if saturation != SaturationTanh && saturation != SaturationLightweight {
			return fmt.Errorf("teebee: invalid saturation: %d", saturation)
		}

		cfg.saturation = saturation

		return nil
	}
}

// WithCutoffHz sets the initial cutoff. It is clamped like SetCutoff.
func WithCutoffHz(cutoffHz float64) Option {
	return func(cfg *config) error {
		if !isFinite(cutoffHz) {
			return fmt.Errorf("teebee: cutoff must be finite: %v", cutoffHz)
		}

		cfg.cutoffHz = cutoffHz

		return nil
	}
}

// WithResonance sets the initial resonance in percent, [0, 100].
func WithResonance(percent float64) Option {
	return func(cfg *config) error {
		if !isFinite(percent) || percent < 0 || percent > maxResonance {
			return fmt.Errorf("teebee: resonance must be in [0, %g]: %f", maxResonance, percent)
		}

		cfg.resonance = percent

		return nil
	}
}

// WithFeedbackHighpassHz sets the corner of the highpass in the feedback
// path. Must be finite and > 0.
func WithFeedbackHighpassHz(hz float64) Option {
	return func(cfg *config) error {
		if !isFinite(hz) || hz <= 0 {
			return fmt.Errorf("teebee: feedback highpass must be > 0 and finite: %f", hz)
		}

		cfg.feedbackHighpassHz = hz

		return nil
	}
}

// State contains explicit ladder runtime state for save/restore workflows.
type State struct {
	Stage    [4]float64
	Feedback onepole.State
}

// Filter is a nonlinear four-pole ladder.
type Filter struct {
	sampleRate float64
	mode       Mode
	saturate   func(float64) float64
	saturation Saturation

	cutoffHz  float64
	resonance float64

	// Derived per UpdateCoefficients.
	b0, a1 float64
	k, g   float64
	mix    [5]float64

	feedbackHP *onepole.Filter
	state      State
}

// New constructs a ladder filter running at sampleRate.
func New(sampleRate float64, opts ...Option) (*Filter, error) {
	if !isFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("teebee: sample rate must be > 0 and finite: %f", sampleRate)
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

	hp, err := onepole.New(sampleRate,
		onepole.WithMode(onepole.ModeHighpass),
		onepole.WithCutoffHz(cfg.feedbackHighpassHz),
	)
	if err != nil {
		return nil, fmt.Errorf("teebee: feedback highpass: %w", err)
	}

	f := &Filter{
		sampleRate: sampleRate,
		mode:       cfg.mode,
		feedbackHP: hp,
	}
	f.setSaturation(cfg.saturation)
	f.SetCutoff(cfg.cutoffHz)
	f.SetResonance(cfg.resonance)
	f.UpdateCoefficients()

	return f, nil
}

// SampleRate returns the sample rate in Hz.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Mode returns the ladder mode.
func (f *Filter) Mode() Mode { return f.mode }

// Saturation returns the summing-node nonlinearity.
func (f *Filter) Saturation() Saturation { return f.saturation }

// CutoffHz returns the staged cutoff in Hz, before rate-dependent clamping.
func (f *Filter) CutoffHz() float64 { return f.cutoffHz }

// Resonance returns the staged resonance in percent.
func (f *Filter) Resonance() float64 { return f.resonance }

// FeedbackHighpassHz returns the feedback highpass corner.
func (f *Filter) FeedbackHighpassHz() float64 { return f.feedbackHP.CutoffHz() }

// SetCutoff stages a new cutoff. Values are clamped to
// [20 Hz, min(20 kHz, 0.45*sampleRate)] when the coefficients are updated.
// Non-finite values are ignored.
func (f *Filter) SetCutoff(hz float64) {
	if isFinite(hz) {
		f.cutoffHz = hz
	}
}

// SetResonance stages a new resonance in percent, clamped to [0, 100].
// Non-finite values are ignored.
func (f *Filter) SetResonance(percent float64) {
	if isFinite(percent) {
		f.resonance = clamp(percent, 0, maxResonance)
	}
}

// SetSampleRate changes the processing rate and recomputes all coefficients.
// Ladder state is kept.
func (f *Filter) SetSampleRate(sampleRate float64) error {
	if !isFinite(sampleRate) || sampleRate <= 0 {
		return fmt.Errorf("teebee: sample rate must be > 0 and finite: %f", sampleRate)
	}

	if err := f.feedbackHP.SetSampleRate(sampleRate); err != nil {
		return fmt.Errorf("teebee: feedback highpass: %w", err)
	}

	f.sampleRate = sampleRate
	f.UpdateCoefficients()

	return nil
}

// SetMode switches the ladder mode and recomputes coefficients.
func (f *Filter) SetMode(mode Mode) error {
	if !validMode(mode) {
		return fmt.Errorf("teebee: invalid mode: %d", mode)
	}

	f.mode = mode
	f.UpdateCoefficients()

	return nil
}

// SetSaturation switches the summing-node nonlinearity.
func (f *Filter) SetSaturation(saturation Saturation) error {
	if saturation != SaturationTanh && saturation != SaturationLightweight {
		return fmt.Errorf("teebee: invalid saturation: %d", saturation)
	}

	f.setSaturation(saturation)

	return nil
}

// SetFeedbackHighpassHz moves the feedback highpass corner.
func (f *Filter) SetFeedbackHighpassHz(hz float64) error {
	if err := f.feedbackHP.SetCutoffHz(hz); err != nil {
		return fmt.Errorf("teebee: feedback highpass: %w", err)
	}

	return nil
}

// UpdateCoefficients recomputes the ladder coefficients from the staged
// cutoff and resonance.
func (f *Filter) UpdateCoefficients() {
	fc := clamp(f.cutoffHz, minCutoffHz, math.Min(maxCutoffHz, maxCutoffRatio*f.sampleRate))
	r := skewResonance(f.resonance / maxResonance)

	if f.mode == ModeTB303 {
		f.tb303Coefficients(fc, r)
		return
	}

	f.ladderCoefficients(fc, r)
}

// tb303Coefficients evaluates rational and polynomial fits of the diode
// ladder's stage coefficient and feedback gain over fx = fc/(fs*sqrt2).
func (f *Filter) tb303Coefficients(fc, r float64) {
	fx := fc / (f.sampleRate * math.Sqrt2)

	f.b0 = (0.00045522346 + 6.1922189*fx) / (1 + 12.358354*fx + 4.4156345*fx*fx)

	k := fx*(fx*(fx*(fx*(fx*(fx+7198.6997)-5837.7917)-476.47308)+614.95611)+213.87126) + 16.998792

	g := k / 17
	g = (g-1)*r + 1
	g *= 1 + r

	f.k = k * r
	f.g = g
}

// ladderCoefficients tunes identical one-pole stages so the resonance peak
// lands on the cutoff at full resonance, and scales the feedback by the
// inverse ladder gain there.
func (f *Filter) ladderCoefficients(fc, r float64) {
	wc := 2 * math.Pi * fc / f.sampleRate
	s, c := math.Sincos(wc)
	t := math.Tan(0.25 * (wc - math.Pi))

	a1FullRes := t / (s - c*t)
	a1NoRes := -math.Exp(-wc)
	f.a1 = r*a1FullRes + (1-r)*a1NoRes
	f.b0 = 1 + f.a1

	gsq := f.b0 * f.b0 / (1 + f.a1*f.a1 + 2*f.a1*c)
	f.k = r / (gsq * gsq)
	f.g = 1
	f.mix = mixWeights(f.mode)
}

// ProcessSample runs one ladder step.
func (f *Filter) ProcessSample(x float64) float64 {
	if !isFinite(x) {
		x = 0
	}

	s := &f.state
	y0 := f.saturate(x - f.feedbackHP.ProcessSample(f.k*s.Stage[3]))

	if f.mode == ModeTB303 {
		s.Stage[0] = clipState(s.Stage[0] + 2*f.b0*(y0-s.Stage[0]+s.Stage[1]))
		s.Stage[1] = clipState(s.Stage[1] + f.b0*(s.Stage[0]-2*s.Stage[1]+s.Stage[2]))
		s.Stage[2] = clipState(s.Stage[2] + f.b0*(s.Stage[1]-2*s.Stage[2]+s.Stage[3]))
		s.Stage[3] = clipState(s.Stage[3] + f.b0*(s.Stage[2]-2*s.Stage[3]))

		return sanitizeOutput(2 * f.g * s.Stage[3])
	}

	s.Stage[0] = clipState(f.b0*y0 - f.a1*s.Stage[0])
	s.Stage[1] = clipState(f.b0*s.Stage[0] - f.a1*s.Stage[1])
	s.Stage[2] = clipState(f.b0*s.Stage[1] - f.a1*s.Stage[2])
	s.Stage[3] = clipState(f.b0*s.Stage[2] - f.a1*s.Stage[3])

	m := &f.mix
	out := m[0]*y0 + m[1]*s.Stage[0] + m[2]*s.Stage[1] + m[3]*s.Stage[2] + m[4]*s.Stage[3]

	return sanitizeOutput(f.g * out)
}

// Reset clears ladder and feedback state. Coefficients are kept.
func (f *Filter) Reset() {
	f.state = State{}
	f.feedbackHP.Reset()
}

// State returns a copy of the current processor state.
func (f *Filter) State() State {
	st := f.state
	st.Feedback = f.feedbackHP.State()

	return st
}

// SetState restores an externally saved processor state.
func (f *Filter) SetState(state State) error {
	for _, v := range state.Stage {
		if !isFinite(v) {
			return fmt.Errorf("teebee: state contains NaN or Inf")
		}
	}

	if !isFinite(state.Feedback.X1) || !isFinite(state.Feedback.Y1) {
		return fmt.Errorf("teebee: state contains NaN or Inf")
	}

	f.state = state
	f.feedbackHP.SetState(state.Feedback)

	return nil
}

func (f *Filter) setSaturation(saturation Saturation) {
	f.saturation = saturation
	if saturation == SaturationLightweight {
		f.saturate = fastTanhApprox
		return
	}

	f.saturate = math.Tanh
}

// mixWeights returns the weights of [input, pole1..pole4] for a ladder mode.
// Highpass and bandpass responses use binomial expansions of (1 - LP).
func mixWeights(mode Mode) [5]float64 {
	switch mode {
	case ModeLP6:
		return [5]float64{0, 1, 0, 0, 0}
	case ModeLP12:
		return [5]float64{0, 0, 1, 0, 0}
	case ModeLP18:
		return [5]float64{0, 0, 0, 1, 0}
	case ModeLP24:
		return [5]float64{0, 0, 0, 0, 1}
	case ModeHP6:
		return [5]float64{1, -1, 0, 0, 0}
	case ModeHP12:
		return [5]float64{1, -2, 1, 0, 0}
	case ModeHP18:
		return [5]float64{1, -3, 3, -1, 0}
	case ModeHP24:
		return [5]float64{1, -4, 6, -4, 1}
	case ModeBP6:
		return [5]float64{0, 1, -1, 0, 0}
	case ModeBP12:
		return [5]float64{0, 0, 1, -2, 1}
	default:
		return [5]float64{1, 0, 0, 0, 0}
	}
}

// skewResonance maps linear resonance in [0, 1] onto an exponential-ish
// curve so most of the knob travel sits in the musically useful range.
func skewResonance(r float64) float64 {
	return (1 - math.Exp(-3*r)) / (1 - math.Exp(-3))
}

func validMode(mode Mode) bool {
	return mode >= ModeFlat && mode <= ModeTB303
}

func sanitizeOutput(value float64) float64 {
	if !isFinite(value) {
		return 0
	}

	return value
}

func clipState(value float64) float64 {
	return core.FlushDenormals(core.Clamp(value, -stateLimit, stateLimit))
}

func fastTanhApprox(x float64) float64 {
	if x > 3 {
		return 1
	}

	if x < -3 {
		return -1
	}

	x2 := x * x

	return clamp(x*(27+x2)/(27+9*x2), -1, 1)
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}

	if x > hi {
		return hi
	}

	return x
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
