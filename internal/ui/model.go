// Package ui provides the terminal progress display and console styles of
// the acidrender command.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FileStatus is the render state of one file.
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusRendering
	StatusComplete
	StatusError
)

// FileProgress tracks one input file.
type FileProgress struct {
	InputPath  string
	OutputPath string
	Status     FileStatus
	Progress   float64
	StartTime  time.Time
	Elapsed    time.Duration
	PeakDB     float64
	RMSDB      float64
	Err        error
}

// Model is the bubbletea model for batch rendering.
type Model struct {
	Files     []FileProgress
	Completed int
	Failed    int
	StartTime time.Time
	Done      bool
	Width     int

	// Logf receives trace lines when set.
	Logf func(format string, args ...any)

	now func() time.Time
}

// NewModel creates a model with every input queued.
func NewModel(inputs []string) Model {
	files := make([]FileProgress, len(inputs))
	for i, path := range inputs {
		files[i] = FileProgress{InputPath: path, Status: StatusQueued}
	}

	return Model{
		Files:     files,
		StartTime: time.Now(),
		now:       time.Now,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width

	case FileStartMsg:
		if f := m.file(msg.Index); f != nil {
			f.Status = StatusRendering
			f.StartTime = m.clock()
			m.logf("[UI] start %d %s", msg.Index, f.InputPath)
		}

	case ProgressMsg:
		if f := m.file(msg.Index); f != nil && f.Status == StatusRendering {
			f.Progress = msg.Progress
			f.Elapsed = m.clock().Sub(f.StartTime)
		}

	case FileCompleteMsg:
		if f := m.file(msg.Index); f != nil {
			f.OutputPath = msg.OutputPath
			f.PeakDB = msg.PeakDB
			f.RMSDB = msg.RMSDB
			f.Err = msg.Err
			f.Elapsed = m.clock().Sub(f.StartTime)

			if msg.Err != nil {
				f.Status = StatusError
				m.Failed++
				m.logf("[UI] failed %d: %v", msg.Index, msg.Err)
			} else {
				f.Status = StatusComplete
				f.Progress = 1
				m.Completed++
				m.logf("[UI] done %d -> %s", msg.Index, msg.OutputPath)
			}
		}

	case AllCompleteMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.Done {
		return renderSummary(m)
	}

	return renderProgress(m)
}

func (m *Model) file(i int) *FileProgress {
	if i < 0 || i >= len(m.Files) {
		return nil
	}

	return &m.Files[i]
}

func (m *Model) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}

	return m.now()
}

func (m *Model) logf(format string, args ...any) {
	if m.Logf != nil {
		m.Logf(format, args...)
	}
}
