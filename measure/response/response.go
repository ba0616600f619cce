package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-acid/dsp/core"
)

// DefaultFFTSize is the transform length used when none is given.
const DefaultFFTSize = 16384

// ErrInvalidFFTSize reports an FFT length that is not a power of two >= 2.
var ErrInvalidFFTSize = errors.New("response: fft size must be a power of two >= 2")

// SampleFunc processes one sample.
type SampleFunc func(x float64) float64

// Option configures a measurement.
type Option func(*config) error

type config struct {
	fftSize   int
	amplitude float64
}

func defaultConfig() config {
	return config{fftSize: DefaultFFTSize, amplitude: 1}
}

// WithFFTSize sets the transform length, which is also the number of impulse
// response samples captured by [Measure].
func WithFFTSize(n int) Option {
	return func(cfg *config) error {
		if n < 2 || n&(n-1) != 0 {
			return fmt.Errorf("%w: %d", ErrInvalidFFTSize, n)
		}

		cfg.fftSize = n

		return nil
	}
}

// WithAmplitude scales the excitation impulse. The reported response is
// normalised back to unit gain.
func WithAmplitude(amplitude float64) Option {
	return func(cfg *config) error {
		if !core.IsFinite(amplitude) || amplitude <= 0 {
			return fmt.Errorf("response: amplitude must be > 0 and finite: %v", amplitude)
		}

		cfg.amplitude = amplitude

		return nil
	}
}

// Response is a measured magnitude response.
type Response struct {
	sampleRate float64
	fftSize    int
	impulse    []float64
	power      []float64 // bins 0..fftSize/2
}

// Measure drives fn with an impulse, captures the configured number of
// output samples and returns their spectrum.
func Measure(sampleRate float64, fn SampleFunc, opts ...Option) (*Response, error) {
	if fn == nil {
		return nil, errors.New("response: nil sample func")
	}

	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	ir := make([]float64, cfg.fftSize)
	for i := range ir {
		x := 0.0
		if i == 0 {
			x = cfg.amplitude
		}

		ir[i] = fn(x) / cfg.amplitude
	}

	return transform(sampleRate, ir, cfg.fftSize)
}

// FromImpulse computes the response of an already captured impulse
// response. The impulse is zero-padded to the FFT size; longer impulses
// raise the size to the next power of two.
func FromImpulse(sampleRate float64, impulse []float64, opts ...Option) (*Response, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	size := cfg.fftSize
	for size < len(impulse) {
		size *= 2
	}

	ir := make([]float64, size)
	copy(ir, impulse)

	return transform(sampleRate, ir, size)
}

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}

	return cfg, nil
}

func transform(sampleRate float64, ir []float64, size int) (*Response, error) {
	if !core.IsFinite(sampleRate) || sampleRate <= 0 {
		return nil, fmt.Errorf("response: sample rate must be > 0 and finite: %v", sampleRate)
	}

	for i, v := range ir {
		if !core.IsFinite(v) {
			return nil, fmt.Errorf("response: impulse response sample %d is not finite: %v", i, v)
		}
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("response: fft plan: %w", err)
	}

	in := make([]complex128, size)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("response: fft: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}

	power := make([]float64, bins)
	vecmath.Power(power, re, im)

	return &Response{
		sampleRate: sampleRate,
		fftSize:    size,
		impulse:    ir,
		power:      power,
	}, nil
}

// SampleRate returns the rate the response was measured at.
func (r *Response) SampleRate() float64 { return r.sampleRate }

// FFTSize returns the transform length.
func (r *Response) FFTSize() int { return r.fftSize }

// BinHz returns the frequency spacing of the bins.
func (r *Response) BinHz() float64 { return r.sampleRate / float64(r.fftSize) }

// Impulse returns the (zero-padded) impulse response. The slice is shared.
func (r *Response) Impulse() []float64 { return r.impulse }

// Power returns |H(k)|^2 for bins 0..FFTSize/2. The slice is shared.
func (r *Response) Power() []float64 { return r.power }

// MagnitudeDB returns the response at freqHz in dB, linearly interpolating
// power between neighbouring bins. Frequencies outside [0, Nyquist] are
// clamped.
func (r *Response) MagnitudeDB(freqHz float64) float64 {
	pos := core.Clamp(freqHz/r.BinHz(), 0, float64(len(r.power)-1))

	k := int(pos)
	if k >= len(r.power)-1 {
		return core.LinearPowerToDB(r.power[len(r.power)-1])
	}

	frac := pos - float64(k)
	p := r.power[k]*(1-frac) + r.power[k+1]*frac

	return core.LinearPowerToDB(p)
}

// MagnitudeDBAt evaluates [Response.MagnitudeDB] at each frequency.
func (r *Response) MagnitudeDBAt(freqsHz []float64) []float64 {
	out := make([]float64, len(freqsHz))
	for i, f := range freqsHz {
		out[i] = r.MagnitudeDB(f)
	}

	return out
}

// Peak returns the frequency and level of the strongest bin above DC.
func (r *Response) Peak() (freqHz, db float64) {
	best := 1
	for k := 2; k < len(r.power); k++ {
		if r.power[k] > r.power[best] {
			best = k
		}
	}

	return float64(best) * r.BinHz(), core.LinearPowerToDB(r.power[best])
}

// BandPowerDB returns the mean power in [loHz, hiHz] in dB.
func (r *Response) BandPowerDB(loHz, hiHz float64) float64 {
	if hiHz < loHz {
		loHz, hiHz = hiHz, loHz
	}

	last := len(r.power) - 1
	lo := min(last, max(0, int(math.Ceil(loHz/r.BinHz()))))
	hi := min(last, max(0, int(math.Floor(hiHz/r.BinHz()))))

	if hi < lo {
		return r.MagnitudeDB(0.5 * (loHz + hiHz))
	}

	var sum float64
	for k := lo; k <= hi; k++ {
		sum += r.power[k]
	}

	return core.LinearPowerToDB(sum / float64(hi-lo+1))
}
