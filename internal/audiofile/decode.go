package audiofile

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

func decodeWAV(r io.ReadSeeker) (*Audio, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotWav
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read pcm: %w", err)
	}

	depth := int(dec.BitDepth)
	if depth != 8 && depth != 16 && depth != 24 && depth != 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, depth)
	}

	channels := int(dec.NumChans)
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		channels = buf.Format.NumChannels
	}

	data := buf.Data
	offset := 0
	if depth == 8 {
		// 8-bit PCM is unsigned.
		offset = 128
	}

	if offset != 0 {
		shifted := make([]int, len(data))
		for i, v := range data {
			shifted[i] = v - offset
		}

		data = shifted
	}

	return &Audio{
		SampleRate: int(dec.SampleRate),
		Channels:   channels,
		Samples:    downmix(data, channels, 1/fullScale(depth)),
	}, nil
}

// go-mp3 always produces 16-bit little-endian stereo.
func decodeMP3(r io.ReadSeeker) (*Audio, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("read frames: %w", err)
	}

	return &Audio{
		SampleRate: dec.SampleRate(),
		Channels:   2,
		Samples:    downmix(pcm16LE(raw), 2, 1.0/32768),
	}, nil
}

func decodeOgg(r io.ReadSeeker) (*Audio, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return &Audio{
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		Samples:    downmix(data, format.Channels, 1),
	}, nil
}

func pcm16LE(raw []byte) []int {
	out := make([]int, len(raw)/2)
	for i := range out {
		out[i] = int(int16(binary.LittleEndian.Uint16(raw[2*i:])))
	}

	return out
}

func fullScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}
