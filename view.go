package main

import (
	"strings"
	"time"

	"waveportal-tui/helpers"
	"waveportal-tui/notify"
	"waveportal-tui/styles"
	"waveportal-tui/views/details"
	"waveportal-tui/views/home"
	logview "waveportal-tui/views/log"
	portalview "waveportal-tui/views/portal"
	"waveportal-tui/views/settings"
	"waveportal-tui/views/share"
	"waveportal-tui/wave"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

func (m *model) renderAlert(n notify.Notice) string {
	msg := helpers.FadeString(n.Text, string(styles.CWave), string(styles.CWaveEnd))
	body := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(cWarn).Bold(true).Render("⚠"),
		"",
		lipgloss.NewStyle().Width(50).Align(lipgloss.Center).Render(msg),
		"",
		styles.ButtonStyle.Render("OK"),
	)
	return lipgloss.Place(m.w, m.h, lipgloss.Center, lipgloss.Center, styles.AlertStyle.Render(body))
}

func (m *model) renderPassphraseDialog() string {
	body := styles.TitleStyle.Render("Wallet") + "\n\n" + m.passForm.View() + "\n" +
		styles.MutedStyle.Render("Esc to reject")
	return lipgloss.Place(m.w, m.h, lipgloss.Center, lipgloss.Center, panelStyle.Render(body))
}

func (m *model) renderToasts() string {
	toasts := m.board.Toasts()
	if len(toasts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style := styles.ToastInfoStyle
		if t.Level == notify.LevelError {
			style = styles.ToastErrorStyle
		}
		parts = append(parts, style.Render(helpers.Truncate(t.Text, max(20, m.w-8))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *model) globalHeader() string {
	availableWidth := max(0, m.w-8) // Account for panel padding

	var addrDisplay string
	if m.state.Connected() {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cAccent2).
			Bold(true).
			Render("Account: " + helpers.FadeString(helpers.ShortenAddr(m.state.Account.Hex()), string(styles.CWave), string(styles.CWaveEnd)))
	} else {
		addrDisplay = lipgloss.NewStyle().
			Foreground(cMuted).
			Render("Account: " + m.state.Phase.String())
	}

	var statusIcon, statusText string
	statusColor := lipgloss.Color("#c01c28")
	switch {
	case m.rpcURL == "":
		statusIcon, statusText = "○", "No RPC"
	case m.rpcConnecting:
		statusIcon, statusText = "○", "Connecting..."
	case !m.rpcConnected:
		statusIcon, statusText = "○", "Connection Failed"
	default:
		statusIcon = "●"
		statusColor = cAccent
		if active, ok := m.cfg.ActiveRPC(); ok && active.URL == m.rpcURL {
			statusText = active.Name
		}
		if statusText == "" {
			statusText = "Connected"
		}
	}

	rpcDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	titleText := lipgloss.NewStyle().Bold(true).Render(helpers.FadeString("wave portal", "#7EE787", "#82CFFD"))

	addrWidth := lipgloss.Width(addrDisplay)
	rpcWidth := lipgloss.Width(rpcDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := addrWidth + rpcWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = addrDisplay + "\n" + titleText + "\n" + rpcDisplay
	} else {
		// Three-column layout: Account | Title (centered) | RPC
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		headerLine = addrDisplay + strings.Repeat(" ", max(1, leftPadding)) + titleText + strings.Repeat(" ", max(1, rightPadding)) + rpcDisplay
	}

	separator := lipgloss.NewStyle().
		Foreground(cBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator
}

// selectedWaveRecord is the wave highlighted in the newest-first list
func (m *model) selectedWaveRecord() *wave.WaveRecord {
	recent := m.state.RecentFirst()
	if !m.state.HasHistory || m.selectedWave >= len(recent) {
		return nil
	}
	w := recent[m.selectedWave]
	return &w
}

func (m *model) View() string {
	if m.passForm != nil {
		return m.renderPassphraseDialog()
	}
	if alert, ok := m.board.PendingAlert(); ok {
		return m.renderAlert(alert)
	}

	headerPanel := panelStyle.Width(max(0, m.w-2)).Render(m.globalHeader())

	var pageContent, nav string
	switch m.activePage {
	case pagePortal:
		content := portalview.Render(portalview.Props{
			State:    m.state,
			Input:    m.input.View(),
			Spinner:  m.spin.View(),
			Selected: m.selectedWave,
			Now:      time.Now(),
			Width:    max(0, m.w-8),
		})
		pageContent = panelStyle.Width(max(0, m.w-2)).Render(content)
		nav = portalview.Nav(m.w-2, m.state, m.editing)

	case pageMenu:
		pageContent = panelStyle.Width(max(0, m.w-2)).Render(home.Render(m.homeForm, m.state))
		nav = home.Nav(m.w - 2)

	case pageDetails:
		content := details.Render(m.state, m.selectedWaveRecord(), m.chain, m.chainLoading, m.copiedMsg, m.spin.View())
		pageContent = panelStyle.Width(max(0, m.w-2)).Render(content)
		nav = details.Nav(m.w - 2)

	case pageSettings:
		if m.settingsMode == settings.ModeDelete && m.selectedRPCIdx < len(m.cfg.RPCURLs) {
			return settings.RenderDeleteConfirm(m.cfg.RPCURLs[m.selectedRPCIdx], m.w, m.h)
		}
		content := settings.Render(m.cfg, m.selectedRPCIdx, m.form, m.settingsMode)
		pageContent = panelStyle.Width(max(0, m.w-2)).Render(content)
		nav = settings.Nav(m.w-2, m.settingsMode)

	case pageShare:
		pageContent = panelStyle.Width(max(0, m.w-2)).Render(share.Render(m.shareURI, m.shareQR, m.copiedMsg))
		nav = share.Nav(m.w - 2)
	}

	sections := []string{headerPanel, pageContent}
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, nav)

	if m.logEnabled {
		sections = append(sections, logview.Render(m.w, m.h, m.logReady, m.logSpinner.View(), m.logViewport))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
