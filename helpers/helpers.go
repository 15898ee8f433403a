package helpers

import (
	"fmt"
	"image/color"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/gamut"
)

var ethAddrRe = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")

// ShortenAddr shortens an Ethereum address for display
func ShortenAddr(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// IsValidEthAddress checks if a string is a valid Ethereum address
func IsValidEthAddress(s string) bool {
	return ethAddrRe.MatchString(s)
}

// IsValidRPCURL accepts http(s) and ws(s) endpoints and IPC paths
func IsValidRPCURL(s string) bool {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(s, prefix) && len(s) > len(prefix) {
			return true
		}
	}
	return strings.HasSuffix(s, ".ipc")
}

// LoadedAt formats the loaded timestamp
func LoadedAt(t time.Time, loading bool) string {
	if loading {
		return "loading…"
	}
	if t.IsZero() {
		return "never"
	}
	return t.Format("15:04:05")
}

// FormatWaveTime formats a wave timestamp in local time
func FormatWaveTime(t time.Time) string {
	if t.IsZero() {
		return "unknown time"
	}
	return t.Local().Format("Jan 02 2006 15:04:05")
}

// TimeAgo is a coarse relative time like "3m ago"
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}

// Truncate cuts s to max runes, ending with an ellipsis
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

// FadeString creates a gradient colored string
func FadeString(s string, firstColor string, lastColor string) string {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return ""
	}
	blends := gamut.Blends(lipgloss.Color(firstColor), lipgloss.Color(lastColor), n)
	return rainbow(lipgloss.NewStyle(), s, blends)
}

func rainbow(baseStyle lipgloss.Style, str string, colors []color.Color) string {
	var b strings.Builder
	i := 0
	for _, c := range str {
		col, _ := colorful.MakeColor(colors[i%len(colors)])
		b.WriteString(baseStyle.Foreground(lipgloss.Color(col.Hex())).Render(string(c)))
		i++
	}
	return b.String()
}

// Max returns the maximum of two integers
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Min returns the minimum of two integers
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
