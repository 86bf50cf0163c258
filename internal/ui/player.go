package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roadwatch/roadwatch/internal/playback"
)

const seekStep = 5 * time.Second

// handlePlayerKey processes keyboard input for the player view.
func (m Model) handlePlayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PlayPause):
		m.player.TogglePlay()
	case key.Matches(msg, m.keys.Mute):
		m.player.ToggleMute()
	case key.Matches(msg, m.keys.SeekBack):
		m.player.SeekBy(-seekStep)
	case key.Matches(msg, m.keys.SeekAhead):
		m.player.SeekBy(seekStep)
	case key.Matches(msg, m.keys.Restart):
		m.player.Restart()
	case key.Matches(msg, m.keys.Fullscreen):
		m.player.RequestFullscreen()
	}
	return m, nil
}

// renderPlayer renders the playback controls. The footage itself plays in
// the mpv window; this view is the remote control.
func (m Model) renderPlayer() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("  Annotated footage"))
	b.WriteString("\n\n")

	if !m.player.Attached() {
		b.WriteString(styles.MutedText.Render("  player closed"))
		return lipgloss.NewStyle().Height(m.contentHeight()).Render(b.String())
	}

	// Transport state
	stateLabel := "⏸ paused"
	if m.player.Playing() {
		stateLabel = "▶ playing"
	}
	if m.player.Muted() {
		stateLabel += "  🔇"
	}
	b.WriteString("  " + styles.Text.Bold(true).Render(stateLabel))
	b.WriteString("\n\n")

	// Seek bar and clock
	pos, total := m.player.Clock()
	b.WriteString("  " + m.renderSeekBar(m.player.Ratio()))
	b.WriteString("\n")
	b.WriteString("  " + styles.MutedText.Render(
		playback.FormatTime(pos)+" / "+playback.FormatTime(total)))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("  The video plays in a separate mpv window."))

	return lipgloss.NewStyle().Height(m.contentHeight()).Render(b.String())
}

// renderSeekBar draws a simple progress track for the playhead.
func (m Model) renderSeekBar(ratio float64) string {
	width := m.width - 8
	if width > 64 {
		width = 64
	}
	if width < 10 {
		width = 10
	}

	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent)).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Border)).Render(strings.Repeat("─", width-filled))
}
