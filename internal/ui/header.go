package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/roadwatch/roadwatch/internal/state"
)

// renderHeader renders the status bar with service health information.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	var parts []string

	// Logo
	parts = append(parts, bg.Render("roadwatch", styles.Logo))

	// Service state indicator
	parts = append(parts, m.renderServiceBadge(styles, bg))

	// Sample catalog size
	if n := len(m.snapshot.Samples); n > 0 {
		parts = append(parts,
			bg.Render("Samples:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", n), styles.Text))
	}

	// Last analysis
	if m.result != nil {
		alert := string(m.result.Summary.Alert())
		alertStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColors[alert]))
		parts = append(parts,
			bg.Render("Last:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d vehicles", m.result.Summary.TotalUniqueVehicles), styles.Text)+bg.Space()+
				bg.Render(alert, alertStyle))
	}

	// Timestamp with relative time
	if timeStr := m.formatTimestamp(); timeStr != "" {
		parts = append(parts, bg.Render(timeStr, styles.MutedText))
	}

	// Poll error indicator
	if m.snapshot.LastError != nil && m.snapshot.IsOffline() {
		maxErr := 60
		if m.width < 100 {
			maxErr = 30
		}
		errText := truncate(fmt.Sprintf("%v", m.snapshot.LastError), maxErr)
		parts = append(parts,
			bg.Render(classifyConnectionError(m.snapshot.LastError), styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(errText, styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  ") + sep)
}

// renderServiceBadge renders the three-way service state.
func (m Model) renderServiceBadge(styles Styles, bg BgStyle) string {
	label := "OFFLINE"
	key := "unavailable"
	switch {
	case m.snapshot.IsOffline() || !m.snapshot.HasHealth:
		label, key = "OFFLINE", "unavailable"
	case m.snapshot.Service == state.StateReady:
		label, key = "● READY", "ready"
	case m.snapshot.Service == state.StateWarming:
		label, key = "● WARMING", "warming"
	default:
		label, key = "● OFFLINE", "unavailable"
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColors[key])).Bold(true)
	return bg.Render(label, style)
}

// formatTimestamp formats the last update time with relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}

	timeSince := time.Since(m.lastUpdated)
	timeStr := m.lastUpdated.Format("15:04:05")

	if timeSince < time.Minute {
		timeStr += " (now)"
	} else if timeSince < time.Hour {
		timeStr += fmt.Sprintf(" (%dm ago)", int(timeSince.Minutes()))
	} else if timeSince < 24*time.Hour {
		timeStr += fmt.Sprintf(" (%dh ago)", int(timeSince.Hours()))
	}

	return timeStr
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewProgress:
		commands = []cmd{
			{"L", "Log"},
			{"?", "More"},
		}
	case ViewResults:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"o", "Open video"},
			{"u", "Upload"},
			{"L", "Log"},
			{"?", "More"},
		}
	case ViewPlayer:
		commands = []cmd{
			{"Space", "Play/Pause"},
			{"m", "Mute"},
			{"←/→", "Seek"},
			{"0", "Restart"},
			{"f", "Fullscreen"},
			{"Esc", "Back"},
		}
	case ViewLog:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"u", "Upload"},
			{"Esc", "Back"},
		}
	default: // ViewUpload
		commands = []cmd{
			{"Tab", "File/Samples"},
			{"Enter", "Analyze"},
			{"r", "Results"},
			{"L", "Log"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	// Theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))
	// Quit hint
	segments = append(segments,
		bg.Render("q", styles.AccentText)+colon+bg.Render("Quit", styles.MutedText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderNotification renders the one-line status strip under the content.
func (m Model) renderNotification() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	if m.notification == "" {
		return styles.Footer.Width(m.width).Render("")
	}
	return styles.Footer.Width(m.width).Render(bg.Render(m.notification, styles.Text))
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
