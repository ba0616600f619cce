package audiofile

import "errors"

var (
	ErrUnsupportedFormat   = errors.New("audiofile: unsupported format")
	ErrNotWav              = errors.New("audiofile: not a valid WAV file")
	ErrUnsupportedBitDepth = errors.New("audiofile: unsupported bit depth")
	ErrEmpty               = errors.New("audiofile: no samples")
)
