package audiofile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Format identifies a container/codec.
type Format int

const (
	// FormatUnknown is returned for unrecognised extensions.
	FormatUnknown Format = iota
	// FormatWAV is RIFF/WAVE PCM, 8 to 32 bit.
	FormatWAV
	// FormatMP3 is MPEG-1/2 Layer III.
	FormatMP3
	// FormatOgg is Ogg Vorbis.
	FormatOgg
)

func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatMP3:
		return "mp3"
	case FormatOgg:
		return "ogg"
	default:
		return "unknown"
	}
}

// FormatFromPath guesses the format from the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return FormatWAV
	case ".mp3":
		return FormatMP3
	case ".ogg", ".oga":
		return FormatOgg
	default:
		return FormatUnknown
	}
}

// Audio is a decoded signal mixed down to mono.
type Audio struct {
	SampleRate int
	// Channels is the channel count of the source before downmixing.
	Channels int
	Samples  []float64
}

// Duration returns the length in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}

	return float64(len(a.Samples)) / float64(a.SampleRate)
}

// Decoder turns an encoded stream into mono audio.
type Decoder interface {
	Decode(r io.ReadSeeker) (*Audio, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(r io.ReadSeeker) (*Audio, error)

// Decode calls f(r).
func (f DecoderFunc) Decode(r io.ReadSeeker) (*Audio, error) { return f(r) }

// Registry maps formats to decoders.
type Registry struct {
	mu       sync.Mutex
	decoders map[Format]Decoder
}

// NewRegistry returns a registry with the built-in WAV, MP3 and Ogg
// decoders.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[Format]Decoder)}
	r.Register(FormatWAV, DecoderFunc(decodeWAV))
	r.Register(FormatMP3, DecoderFunc(decodeMP3))
	r.Register(FormatOgg, DecoderFunc(decodeOgg))

	return r
}

// Register installs or replaces the decoder for format.
func (r *Registry) Register(format Format, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.decoders[format] = d
}

// Decoder returns the decoder for format.
func (r *Registry) Decoder(format Format) (Decoder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.decoders[format]

	return d, ok
}

// Decode decodes rs as format.
func (r *Registry) Decode(format Format, rs io.ReadSeeker) (*Audio, error) {
	d, ok := r.Decoder(format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	a, err := d.Decode(rs)
	if err != nil {
		return nil, fmt.Errorf("audiofile: decode %s: %w", format, err)
	}

	if len(a.Samples) == 0 {
		return nil, fmt.Errorf("%w: %s stream", ErrEmpty, format)
	}

	return a, nil
}

var defaultRegistry = NewRegistry()

// Read decodes the file at path using its extension to pick the decoder.
func Read(path string) (*Audio, error) {
	format := FormatFromPath(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}
	defer f.Close()

	return defaultRegistry.Decode(format, f)
}

// downmix averages interleaved frames of the given channel count.
func downmix[T float32 | float64 | int](interleaved []T, channels int, scale float64) []float64 {
	if channels < 1 {
		channels = 1
	}

	frames := len(interleaved) / channels
	out := make([]float64, frames)

	gain := scale / float64(channels)
	for i := range frames {
		var sum float64
		for c := range channels {
			sum += float64(interleaved[i*channels+c])
		}

		out[i] = sum * gain
	}

	return out
}
