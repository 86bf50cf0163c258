package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderProgress renders the in-flight upload view.
func (m Model) renderProgress() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("  Uploading " + truncate(m.uploadPath, 60)))
	b.WriteString("\n\n  ")

	p := m.lastProgress
	if p.BytesTotal > 0 {
		b.WriteString(m.progressBar.ViewAs(float64(p.Percentage) / 100))
		b.WriteString("\n\n")
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("  %s of %s (%d%%)",
			formatBytes(p.BytesLoaded), formatBytes(p.BytesTotal), p.Percentage)))
	} else {
		b.WriteString(styles.MutedText.Render("uploading..."))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("  The server analyzes the footage after the upload finishes;\n  large files can take a few minutes."))

	return lipgloss.NewStyle().Height(m.contentHeight()).Render(b.String())
}

// formatBytes renders a byte count in MB with one decimal, matching the
// scale of typical dashcam clips.
func formatBytes(n int64) string {
	const mb = 1 << 20
	if n < mb {
		return fmt.Sprintf("%.0f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%.1f MB", float64(n)/mb)
}
