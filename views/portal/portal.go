package portal

import (
	"fmt"
	"strings"
	"time"

	"waveportal-tui/helpers"
	"waveportal-tui/styles"
	"waveportal-tui/wave"

	"github.com/charmbracelet/lipgloss"
)

// Props is everything the portal page renders from
type Props struct {
	State wave.State
	// Input is the rendered message input
	Input    string
	Spinner  string
	Selected int
	Now      time.Time
	Width    int
}

// Nav returns the navigation bar for the portal view
func Nav(width int, st wave.State, editing bool) string {
	var keys []string
	switch {
	case editing:
		keys = []string{
			styles.Key("Enter") + " wave",
			styles.Key("Esc") + " stop typing",
		}
	case !st.Connected():
		keys = []string{
			styles.Key("c") + " connect wallet",
			styles.Key("s") + " settings",
			styles.Key("m") + " menu",
			styles.Key("l") + " logger",
			styles.Key("q") + " quit",
		}
	default:
		keys = []string{styles.Key("w") + " wave"}
		if st.TakesMessage {
			keys = append(keys, styles.Key("i")+" message")
		}
		if st.HasHistory {
			keys = append(keys, styles.Key("↑/↓")+" select", styles.Key("Enter")+" open")
		}
		keys = append(keys,
			styles.Key("r")+" refresh",
			styles.Key("y")+" copy account",
			styles.Key("p")+" share",
			styles.Key("m")+" menu",
			styles.Key("l")+" logger",
			styles.Key("q")+" quit",
		)
	}
	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}

// Render renders the portal page
func Render(p Props) string {
	st := p.State
	header := helpers.FadeString("👋 Hey there!", string(styles.CWave), string(styles.CWaveEnd))
	intro := styles.MutedStyle.Render("Connect your Ethereum wallet and wave at me!")

	lines := []string{header, intro, ""}

	if !st.Connected() {
		if st.Phase == wave.Connecting {
			lines = append(lines, p.Spinner+" waiting for the wallet…")
		} else {
			lines = append(lines, styles.ButtonStyle.Render("Connect Wallet"))
		}
		return strings.Join(lines, "\n")
	}

	if st.TakesMessage {
		lines = append(lines, p.Input, "")
	}
	if st.Loading {
		lines = append(lines, styles.ButtonDisabledStyle.Render("Mining…"))
	} else {
		lines = append(lines, styles.ButtonStyle.Render("Wave at Me"))
	}
	lines = append(lines, "", countLine(p))

	if st.HasHistory {
		lines = append(lines, "", RenderList(st.RecentFirst(), p.Selected, p.Now, p.Width))
	}
	return strings.Join(lines, "\n")
}

func countLine(p Props) string {
	st := p.State
	switch {
	case st.Loading:
		return p.Spinner + " mining your wave…"
	case !st.CountKnown:
		return p.Spinner + " loading waves…"
	}
	line := fmt.Sprintf("I have been waved at %d times", st.TotalWaves)
	if st.Stale {
		line += lipgloss.NewStyle().Foreground(styles.CWarn).Render(" (stale, press r)")
	}
	return lipgloss.NewStyle().Foreground(styles.CText).Bold(true).Render(line)
}

// RenderList renders waves in the given order with the selected one marked
func RenderList(waves []wave.WaveRecord, selected int, now time.Time, width int) string {
	if len(waves) == 0 {
		return styles.MutedStyle.Render("No waves yet. Be the first!")
	}

	msgWidth := helpers.Max(10, width-8)
	items := make([]string, 0, len(waves))
	for i, w := range waves {
		addr := helpers.FadeString(w.Waver.Hex(), string(styles.CWave), string(styles.CWaveEnd))
		marker := "  "
		if i == selected {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("▶ ")
		}

		when := helpers.FormatWaveTime(w.Timestamp)
		if ago := helpers.TimeAgo(w.Timestamp, now); ago != "" {
			when += " · " + ago
		}

		body := []string{marker + addr, "  " + styles.MutedStyle.Render(when)}
		if w.Message != "" {
			body = append(body, "  "+lipgloss.NewStyle().Foreground(styles.CText).Render(helpers.Truncate(w.Message, msgWidth)))
		}
		items = append(items, styles.WaveCardStyle.Render(strings.Join(body, "\n")))
	}
	return strings.Join(items, "\n")
}
