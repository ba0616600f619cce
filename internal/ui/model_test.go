package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	next, _ := m.Update(msg)

	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}

	return mm
}

func TestModelLifecycle(t *testing.T) {
	m := NewModel([]string{"in/a.wav", "in/b.mp3"})

	clock := time.Unix(100, 0)
	m.now = func() time.Time { return clock }

	var trace []string
	m.Logf = func(format string, _ ...any) { trace = append(trace, format) }

	m = step(t, m, FileStartMsg{Index: 0})
	m = step(t, m, FileStartMsg{Index: 1})

	clock = clock.Add(2 * time.Second)
	m = step(t, m, ProgressMsg{Index: 0, Progress: 0.5})

	if f := m.Files[0]; f.Status != StatusRendering || f.Progress != 0.5 || f.Elapsed != 2*time.Second {
		t.Fatalf("file 0 = %+v", f)
	}

	m = step(t, m, FileCompleteMsg{Index: 0, OutputPath: "out/a.wav", PeakDB: -3, RMSDB: -12})
	m = step(t, m, FileCompleteMsg{Index: 1, Err: errors.New("boom")})

	if m.Completed != 1 || m.Failed != 1 {
		t.Fatalf("completed %d, failed %d", m.Completed, m.Failed)
	}

	if m.Files[0].Status != StatusComplete || m.Files[1].Status != StatusError {
		t.Fatalf("statuses %v %v", m.Files[0].Status, m.Files[1].Status)
	}

	view := m.View()
	for _, want := range []string{"a.wav", "b.mp3", "boom", "1/2 done"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	next, cmd := m.Update(AllCompleteMsg{})
	if cmd == nil || !next.(Model).Done {
		t.Fatal("AllCompleteMsg should quit")
	}

	if !strings.Contains(next.(Model).View(), "1 rendered, 1 failed") {
		t.Fatalf("summary:\n%s", next.(Model).View())
	}

	if len(trace) != 4 {
		t.Fatalf("trace lines = %d, want 4", len(trace))
	}
}

func TestModelIgnoresUnknownIndices(t *testing.T) {
	m := NewModel([]string{"a.wav"})

	m = step(t, m, FileStartMsg{Index: 5})
	m = step(t, m, ProgressMsg{Index: -1, Progress: 1})
	m = step(t, m, FileCompleteMsg{Index: 9})

	if m.Files[0].Status != StatusQueued || m.Completed != 0 {
		t.Fatalf("unexpected state %+v", m)
	}

	// Progress before start is dropped.
	m = step(t, m, ProgressMsg{Index: 0, Progress: 0.3})
	if m.Files[0].Progress != 0 {
		t.Fatalf("progress = %v", m.Files[0].Progress)
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(0.5, 4); got != "██░░  50%" {
		t.Fatalf("progressBar(0.5) = %q", got)
	}

	if got := progressBar(2, 2); got != "██ 100%" {
		t.Fatalf("progressBar(2) = %q", got)
	}
}

func TestPrinters(t *testing.T) {
	var buf bytes.Buffer

	PrintVersion(&buf, "1.2.3")
	PrintError(&buf, "bad input")
	PrintKV(&buf, "rate", 44100)

	out := buf.String()
	for _, want := range []string{"acidrender", "1.2.3", "Error:", "bad input", "rate:", "44100"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
