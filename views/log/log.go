package log

import (
	"fmt"

	"waveportal-tui/helpers"
	"waveportal-tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// PanelHeight is how many log lines fit for a terminal of the given height
func PanelHeight(height int) int {
	// header, nav, title and borders
	available := helpers.Max(5, height-10)
	return helpers.Min(available, helpers.Min(height/3, 15))
}

// Render renders the log panel
func Render(width, height int, logReady bool, spinnerView string, vp viewport.Model) string {
	title := lipgloss.NewStyle().
		Foreground(styles.CAccent2).
		Bold(true).
		Render("Log")

	vp.Height = PanelHeight(height)

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(0, 1).
		Width(helpers.Max(0, width-2)).
		Height(vp.Height + 2)

	if !logReady {
		return border.Render(title + "\n\n" + "initializing...\n" + spinnerView)
	}

	scrollInfo := ""
	if vp.TotalLineCount() > vp.Height {
		scrollInfo = styles.MutedStyle.Render(fmt.Sprintf(" [%d%%]", int(vp.ScrollPercent()*100)))
	}

	return border.Render(title + scrollInfo + "\n\n" + vp.View())
}
