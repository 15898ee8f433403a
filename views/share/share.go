package share

import (
	"strings"

	"waveportal-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the share view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("y") + " copy link",
		styles.Key("l") + " logger",
		styles.Key("Esc") + " back",
	}, "   ")
	return styles.NavStyle.Width(width).Render(left)
}

// Render shows the portal link and its QR code
func Render(uri, qr, copiedMsg string) string {
	h := styles.TitleStyle.Render("Share the Portal")
	if uri == "" {
		return h + "\n\n" + lipgloss.NewStyle().Foreground(styles.CWarn).Render("⚠ Set the contract address and connect to an RPC endpoint first.")
	}

	sub := styles.MutedStyle.Render("Scan with a mobile wallet to open the contract")
	link := lipgloss.NewStyle().Foreground(styles.CAccent2).Render(uri)
	if copiedMsg != "" {
		link += "  " + lipgloss.NewStyle().Foreground(styles.CAccent).Render(copiedMsg)
	}
	return strings.Join([]string{h, sub, "", link, "", qr}, "\n")
}
