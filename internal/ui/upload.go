package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roadwatch/roadwatch/internal/detector"
	"github.com/roadwatch/roadwatch/internal/state"
)

// handleUploadKey processes keyboard input for the upload view.
func (m Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SwitchFocus):
		if m.focusedPane == 0 {
			m.focusedPane = 1
			m.pathInput.Blur()
		} else {
			m.focusedPane = 0
			m.pathInput.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if m.focusedPane == 0 {
			return m.startUpload()
		}
		return m.startSample()
	}

	if m.focusedPane == 0 {
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}

	samples := m.snapshot.Samples
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.sampleIdx < len(samples)-1 {
			m.sampleIdx++
		}
	case key.Matches(msg, m.keys.Up):
		if m.sampleIdx > 0 {
			m.sampleIdx--
		}
	case key.Matches(msg, m.keys.Top):
		m.sampleIdx = 0
	case key.Matches(msg, m.keys.Bottom):
		if len(samples) > 0 {
			m.sampleIdx = len(samples) - 1
		}
	}
	return m, nil
}

// startUpload kicks off an analysis of the file named in the path input.
func (m Model) startUpload() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.pathInput.Value())
	if path == "" {
		m.notification = "enter the path of a video file first"
		return m, nil
	}
	if m.uploading {
		m.notification = "an upload is already in progress"
		return m, nil
	}

	m.uploading = true
	m.uploadPath = path
	m.lastProgress = detector.UploadProgress{}
	m.notification = ""
	m.currentView = ViewProgress
	return m, startUploadCmd(m.ctx, m.sess, path)
}

// startSample asks the server to analyze the selected bundled sample.
func (m Model) startSample() (tea.Model, tea.Cmd) {
	samples := m.snapshot.Samples
	if len(samples) == 0 {
		m.notification = "no sample videos available"
		return m, nil
	}
	if m.uploading {
		m.notification = "an upload is already in progress"
		return m, nil
	}
	if m.sampleIdx >= len(samples) {
		m.sampleIdx = len(samples) - 1
	}

	sample := samples[m.sampleIdx]
	m.uploading = true
	m.uploadPath = sample.Name
	m.lastProgress = detector.UploadProgress{}
	m.notification = "analyzing sample " + sample.Name + "..."
	return m, processSampleCmd(m.ctx, m.client, sample.ID)
}

// renderUpload renders the file picker and sample catalog.
func (m Model) renderUpload() string {
	styles := m.theme.Styles()

	var b strings.Builder

	b.WriteString("\n")
	title := styles.AccentText.Bold(true).Render("  Analyze dashcam footage")
	b.WriteString(title)
	b.WriteString("\n\n")

	inputLabel := "  Video file"
	if m.focusedPane == 0 {
		inputLabel = styles.AccentText.Render("▸ Video file")
	} else {
		inputLabel = styles.MutedText.Render(inputLabel)
	}
	b.WriteString(inputLabel)
	b.WriteString("\n  ")
	b.WriteString(m.pathInput.View())
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("  mp4, avi, mov, wmv, flv, webm or mkv, up to 100MB"))
	b.WriteString("\n\n")

	samplesLabel := "  Sample videos"
	if m.focusedPane == 1 {
		samplesLabel = styles.AccentText.Render("▸ Sample videos")
	} else {
		samplesLabel = styles.MutedText.Render(samplesLabel)
	}
	b.WriteString(samplesLabel)
	b.WriteString("\n")
	b.WriteString(m.renderSampleList(styles))

	if m.snapshot.Service == state.StateWarming {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render("  Detection models are still loading; results may be limited."))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Height(m.contentHeight()).Render(b.String())
}

func (m Model) renderSampleList(styles Styles) string {
	samples := m.snapshot.Samples
	if len(samples) == 0 {
		if m.snapshot.IsOffline() {
			return styles.FaintText.Render("  service offline, no samples available") + "\n"
		}
		return styles.FaintText.Render("  no samples published by the server") + "\n"
	}

	var b strings.Builder
	for i, s := range samples {
		marker := "  "
		line := fmt.Sprintf("%s  %s", s.Name, s.Duration)
		if s.Description != "" {
			line += "  " + s.Description
		}

		risk := strings.ToUpper(strings.TrimSpace(s.RiskLevel))
		riskBadge := ""
		if risk != "" {
			color := m.theme.StatusColors[risk]
			if color == "" {
				color = m.theme.Muted
			}
			riskBadge = "  " + lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(risk)
		}

		if i == m.sampleIdx && m.focusedPane == 1 {
			marker = styles.AccentText.Render("▸ ")
			b.WriteString(marker + styles.Selected.Render(line) + riskBadge)
		} else {
			b.WriteString(marker + styles.Text.Render(line) + riskBadge)
		}
		b.WriteString("\n")
	}
	return b.String()
}
