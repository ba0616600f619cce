package acid

import "errors"

var (
	// ErrInvalidSampleRate is returned for non-positive or non-finite rates.
	ErrInvalidSampleRate = errors.New("acid: invalid sample rate")
	// ErrInvalidOversampling is returned for factors outside [1, MaxOversampling].
	ErrInvalidOversampling = errors.New("acid: invalid oversampling factor")
	// ErrInvalidStage is returned for nil stages, nil cores and unknown roles.
	ErrInvalidStage = errors.New("acid: invalid stage")
	// ErrClosed is returned by SetSampleRate after Close. Processing or
	// resetting a closed pipeline panics with this error.
	ErrClosed = errors.New("acid: pipeline closed")
)
