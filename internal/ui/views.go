package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const barWidth = 30

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	subtleStyle = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	okIcon      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
	busyIcon    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render("⚙")
	failIcon    = lipgloss.NewStyle().Foreground(accentColor).Render("✗")
	queuedIcon  = lipgloss.NewStyle().Foreground(mutedColor).Render("○")
	footerBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

func renderProgress(m Model) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("acidrender"))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("Rendering %d file(s)", len(m.Files))))
	b.WriteString("\n\n")

	for _, f := range m.Files {
		b.WriteString(renderEntry(f))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerBox.Render(fmt.Sprintf("%d/%d done, %d failed",
		m.Completed, len(m.Files), m.Failed)))

	return b.String()
}

func renderEntry(f FileProgress) string {
	name := filepath.Base(f.InputPath)

	switch f.Status {
	case StatusRendering:
		return fmt.Sprintf(" %s %s  %s  %.1fs", busyIcon, name, progressBar(f.Progress, barWidth), f.Elapsed.Seconds())
	case StatusComplete:
		return fmt.Sprintf(" %s %s → %s  peak %.1f dBFS, rms %.1f dBFS",
			okIcon, name, filepath.Base(f.OutputPath), f.PeakDB, f.RMSDB)
	case StatusError:
		return fmt.Sprintf(" %s %s  %v", failIcon, name, f.Err)
	default:
		return fmt.Sprintf(" %s %s", queuedIcon, name)
	}
}

func renderSummary(m Model) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Render complete"))
	b.WriteString("\n\n")

	for _, f := range m.Files {
		b.WriteString(renderEntry(f))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%d rendered, %d failed", m.Completed, m.Failed)))
	b.WriteString("\n")

	return b.String()
}

func progressBar(progress float64, width int) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(width))

	return fmt.Sprintf("%s%s %3d%%",
		strings.Repeat("█", filled), strings.Repeat("░", width-filled), int(progress*100))
}
