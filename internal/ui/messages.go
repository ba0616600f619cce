package ui

// FileStartMsg reports that a render worker picked up a file.
type FileStartMsg struct {
	Index int
}

// ProgressMsg carries per-file render progress.
type ProgressMsg struct {
	Index    int
	Progress float64 // 0..1
}

// FileCompleteMsg reports a finished (or failed) file.
type FileCompleteMsg struct {
	Index      int
	OutputPath string
	PeakDB     float64
	RMSDB      float64
	Err        error
}

// AllCompleteMsg ends the program.
type AllCompleteMsg struct{}
