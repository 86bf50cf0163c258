package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// handleLogKey processes keyboard input for the log view.
func (m Model) handleLogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.logViewport.LineDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.LineUp(1)
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfViewDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfViewUp()
	}
	return m, nil
}

// renderLog renders the tail of the client's own log file.
func (m Model) renderLog() string {
	if len(m.logLines) == 0 {
		styles := m.theme.Styles()
		return lipgloss.NewStyle().Height(m.contentHeight()).Render(
			"\n" + styles.MutedText.Render("  log is empty: "+truncate(m.logPath, 70)))
	}
	return m.logViewport.View()
}

// renderHelp renders the full-screen help overlay. Rows come from the key
// map, so a rebinding changes the help text with it. Paired bindings (up and
// down, the two seek directions) share one help entry and are listed once.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []struct {
		title string
		keys  []key.Binding
	}{
		{"Views", []key.Binding{m.keys.ViewUpload, m.keys.ViewResults, m.keys.ViewLog, m.keys.Escape}},
		{"Upload", []key.Binding{m.keys.SwitchFocus, m.keys.Confirm, m.keys.Down}},
		{"Results", []key.Binding{m.keys.Top, m.keys.HalfPageDown, m.keys.OpenPlayer}},
		{"Player", []key.Binding{m.keys.PlayPause, m.keys.Mute, m.keys.SeekBack, m.keys.Restart, m.keys.Fullscreen}},
		{"General", []key.Binding{m.keys.CycleTheme, m.keys.Help, m.keys.Quit}},
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("  roadwatch keys"))
	b.WriteString("\n")
	for _, section := range sections {
		b.WriteString("\n")
		b.WriteString(styles.Text.Bold(true).Render("  " + section.title))
		b.WriteString("\n")
		for _, binding := range section.keys {
			help := binding.Help()
			b.WriteString("    " + styles.AccentText.Render(padRight(help.Key, 10)) + styles.MutedText.Render(help.Desc))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("  press any key to close"))

	return b.String()
}

// renderQuitConfirm renders the leave confirmation modal.
func (m Model) renderQuitConfirm() string {
	styles := m.theme.Styles()

	prompt := m.cleaner.LeavePrompt()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 3).
		Render(styles.Text.Render(prompt) + "\n\n" +
			styles.AccentText.Render("y") + styles.MutedText.Render(": quit   ") +
			styles.AccentText.Render("any other key") + styles.MutedText.Render(": stay"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
