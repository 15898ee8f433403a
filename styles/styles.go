package styles

import "github.com/charmbracelet/lipgloss"

// Theme colors
var (
	CBg      = lipgloss.Color("#0B0F14") // near-black
	CPanel   = lipgloss.Color("#0F1720")
	CBorder  = lipgloss.Color("#874BFD")
	CMuted   = lipgloss.Color("#8AA0B6")
	CText    = lipgloss.Color("#D6E2F0")
	CAccent  = lipgloss.Color("#7EE787") // green
	CAccent2 = lipgloss.Color("#79C0FF") // blue
	CWarn    = lipgloss.Color("#FFA657") // orange
	CError   = lipgloss.Color("#FF7B72")
	CWave    = lipgloss.Color("#F25D94") // pink, gradient start
	CWaveEnd = lipgloss.Color("#EDFF82")
)

// Shared styles
var (
	AppStyle = lipgloss.NewStyle().
			Background(CBg).
			Foreground(CText)

	TitleStyle = lipgloss.NewStyle().
			Foreground(CAccent2).
			Bold(true)

	PanelStyle = lipgloss.NewStyle().
			Background(CPanel).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(CBorder).
			Padding(1, 2)

	NavStyle = lipgloss.NewStyle().
			Background(CPanel).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(CBorder).
			Padding(0, 1)

	HotkeyStyle = lipgloss.NewStyle().
			Foreground(CMuted)

	HotkeyKeyStyle = lipgloss.NewStyle().
			Foreground(CAccent).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(CMuted)

	// Buttons
	ButtonStyle = lipgloss.NewStyle().
			Foreground(CBg).
			Background(CWave).
			Bold(true).
			Padding(0, 3)

	ButtonDisabledStyle = lipgloss.NewStyle().
				Foreground(CMuted).
				Background(CPanel).
				Padding(0, 3)

	// Wave history entries
	WaveCardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(CWave).
			PaddingLeft(1).
			MarginBottom(1)

	// Notices
	ToastInfoStyle = lipgloss.NewStyle().
			Foreground(CAccent).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(CAccent).
			Padding(0, 1)

	ToastErrorStyle = lipgloss.NewStyle().
			Foreground(CError).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(CError).
			Padding(0, 1)

	AlertStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(CWarn).
			Padding(1, 4).
			Align(lipgloss.Center)
)

// Key renders a key with accent styling
func Key(s string) string {
	return HotkeyKeyStyle.Render(s)
}
