package audiofile

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-acid/dsp/core"
)

// WriteWAV encodes mono samples as integer PCM. Samples are clipped to
// [-1, 1]; supported depths are 16 and 24 bit.
func WriteWAV(w io.WriteSeeker, samples []float64, sampleRate, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	if sampleRate <= 0 {
		return fmt.Errorf("audiofile: sample rate must be > 0: %d", sampleRate)
	}

	peak := fullScale(bitDepth) - 1
	data := make([]int, len(samples))

	for i, x := range samples {
		if !core.IsFinite(x) {
			x = 0
		}

		data[i] = int(math.Round(core.Clamp(x, -1, 1) * peak))
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, 1)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audiofile: encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: finalize: %w", err)
	}

	return nil
}

// WriteFile creates path and writes samples as a mono WAV file.
func WriteFile(path string, samples []float64, sampleRate, bitDepth int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: %w", err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("audiofile: %w", cerr)
		}
	}()

	return WriteWAV(f, samples, sampleRate, bitDepth)
}
