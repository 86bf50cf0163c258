package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roadwatch/roadwatch/internal/analysis"
)

// handleResultsKey processes keyboard input for the results view.
func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.resultsViewport.LineDown(1)
	case key.Matches(msg, m.keys.Up):
		m.resultsViewport.LineUp(1)
	case key.Matches(msg, m.keys.Top):
		m.resultsViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.resultsViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.resultsViewport.HalfViewDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.resultsViewport.HalfViewUp()
	case key.Matches(msg, m.keys.OpenPlayer), key.Matches(msg, m.keys.Confirm):
		return m.openProcessedVideo()
	}
	return m, nil
}

// openProcessedVideo launches playback of the annotated footage.
func (m Model) openProcessedVideo() (tea.Model, tea.Cmd) {
	if m.result == nil || m.result.VideoID == "" {
		m.notification = "no processed video available for this analysis"
		return m, nil
	}
	url := m.client.ProcessedVideoURL(m.result.VideoID)
	m.notification = "opening processed video..."
	return m, openPlayerCmd(url, m.log)
}

// renderResults renders the analysis summary and detection timeline.
func (m Model) renderResults() string {
	if m.result == nil {
		styles := m.theme.Styles()
		return lipgloss.NewStyle().Height(m.contentHeight()).Render(
			"\n" + styles.MutedText.Render("  No analysis yet. Upload a video first."))
	}
	return m.resultsViewport.View()
}

// refreshResultsViewport rebuilds the results content.
func (m *Model) refreshResultsViewport() {
	if !m.ready || m.result == nil {
		return
	}
	m.resultsViewport.SetContent(m.renderResultsContent())
	m.resultsViewport.GotoTop()
}

func (m Model) renderResultsContent() string {
	styles := m.theme.Styles()
	r := m.result

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("  Analysis results"))
	b.WriteString("\n\n")

	// Alert banner
	alert := r.Summary.Alert()
	alertStyle := styles.StatusStyle(string(alert)).Bold(true)
	b.WriteString("  " + alertStyle.Render(string(alert)+" ALERT") + "  " + styles.MutedText.Render(alertHint(alert)))
	b.WriteString("\n\n")

	// Summary counts
	b.WriteString(fmt.Sprintf("  %s %s\n",
		styles.MutedText.Render("Vehicles tracked:"),
		styles.Text.Bold(true).Render(fmt.Sprintf("%d", r.Summary.TotalUniqueVehicles))))
	b.WriteString("  " + m.riskCount("DANGEROUS", r.Summary.DangerousVehicles) + "\n")
	b.WriteString("  " + m.riskCount("RISKY", r.Summary.RiskyVehicles) + "\n")
	b.WriteString("  " + m.riskCount("SAFE", r.Summary.SafeVehicles) + "\n\n")

	// Frame coverage
	if r.TotalFrames > 0 {
		b.WriteString(fmt.Sprintf("  %s %d/%d frames\n\n",
			styles.MutedText.Render("Processed:"), r.ProcessedFrames, r.TotalFrames))
	}

	// Detection timeline
	if len(r.Detections) > 0 {
		b.WriteString(styles.AccentText.Render("  Detections"))
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("  %-8s %-8s %-11s %-8s %s", "frame", "vehicle", "risk", "score", "model")))
		b.WriteString("\n")
		for _, d := range r.Detections {
			b.WriteString("  " + m.renderDetectionRow(d, styles))
			b.WriteString("\n")
		}
	}

	if r.VideoID != "" {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("  Press o to watch the annotated footage."))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderDetectionRow(d analysis.VehicleDetection, styles Styles) string {
	risk := string(d.RiskLevel)
	color := m.theme.StatusColors[risk]
	if color == "" {
		color = m.theme.Muted
	}
	riskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color))

	return fmt.Sprintf("%-8d %-8d %s %-8.1f %s",
		d.Frame,
		d.VehicleID,
		riskStyle.Render(fmt.Sprintf("%-11s", risk)),
		d.BehaviorScore,
		styles.FaintText.Render(d.MLPrediction))
}

func (m Model) riskCount(risk string, n int) string {
	styles := m.theme.Styles()
	color := m.theme.StatusColors[risk]
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(fmt.Sprintf("%-10s", risk))
	countStyle := styles.MutedText
	if n > 0 {
		countStyle = styles.Text.Bold(true)
	}
	return label + " " + countStyle.Render(fmt.Sprintf("%d", n))
}

func alertHint(a analysis.AlertLevel) string {
	switch a {
	case analysis.AlertHigh:
		return "dangerous driving detected"
	case analysis.AlertMedium:
		return "a notable share of vehicles drove riskily"
	default:
		return "no dangerous behavior detected"
	}
}
