package main

import (
	"fmt"
	"math/big"
	"strings"

	"waveportal-tui/config"
	"waveportal-tui/helpers"
	"waveportal-tui/notify"
	"waveportal-tui/rpc"
	"waveportal-tui/views/home"
	logview "waveportal-tui/views/log"
	"waveportal-tui/views/settings"
	"waveportal-tui/wave"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- TEMP FORM STORAGE --------------------
// Package-level so the huh form keeps a stable pointer across model copies

var tempPassphrase string

func (m *model) createPassphraseForm(account common.Address) {
	tempPassphrase = ""

	m.passForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Unlock " + helpers.ShortenAddr(account.Hex())).
				Description("Keystore passphrase, kept for this session only").
				EchoMode(huh.EchoModePassword).
				Value(&tempPassphrase),
		),
	).WithTheme(huh.ThemeCatppuccin())

	m.passForm.Init()
}

// answerPassphrase hands the form result back to the waiting wallet
func (m *model) answerPassphrase(passphrase string, err error) {
	if m.passPending != nil {
		m.passPending.reply <- passphraseReply{passphrase: passphrase, err: err}
		m.passPending = nil
	}
	m.passForm = nil
	tempPassphrase = ""
}

// isAppMsg reports whether msg belongs to the app rather than to an open form
func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case logInitMsg, rpcConnectedMsg, chainStatusMsg, stateMsg, noticeMsg,
		toastExpiredMsg, intentDoneMsg, passphraseRequestMsg,
		clipboardCopiedMsg, clearClipboardFeedbackMsg,
		tea.WindowSizeMsg, spinner.TickMsg:
		return true
	}
	return false
}

// -------------------- UPDATE --------------------

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Keystore unlock form takes every key while open
	if m.passForm != nil && !isAppMsg(msg) {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
			m.answerPassphrase("", errPromptCancelled)
			m.addLog("warning", "Wallet unlock cancelled")
			return m, nil
		}

		form, cmd := m.passForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.passForm = f
			switch m.passForm.State {
			case huh.StateCompleted:
				m.answerPassphrase(tempPassphrase, nil)
				return m, nil
			case huh.StateAborted:
				m.answerPassphrase("", errPromptCancelled)
				return m, nil
			}
		}
		return m, cmd
	}

	if m.activePage == pageSettings && (m.settingsMode == settings.ModeAdd || m.settingsMode == settings.ModeEdit) && m.form != nil && !isAppMsg(msg) {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
			m.settingsMode = settings.ModeList
			m.form = nil
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
			switch m.form.State {
			case huh.StateCompleted:
				return m, m.saveRPCForm()
			case huh.StateAborted:
				m.settingsMode = settings.ModeList
				m.form = nil
				return m, nil
			}
		}
		return m, cmd
	}

	if m.activePage == pageMenu && m.homeForm != nil && !isAppMsg(msg) {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
			m.homeForm = nil
			m.activePage = pagePortal
			return m, nil
		}

		form, cmd := m.homeForm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.homeForm = f
			switch m.homeForm.State {
			case huh.StateCompleted:
				m.homeForm = nil
				return m, m.navigate(home.TempSelection)
			case huh.StateAborted:
				m.homeForm = nil
				m.activePage = pagePortal
				return m, nil
			}
		}
		return m, cmd
	}

	switch msg := msg.(type) {

	case logInitMsg:
		if !m.logEnabled {
			return m, nil
		}
		m.logReady = true
		m.addLog("info", "Logger enabled")
		return m, nil

	case rpcConnectedMsg:
		m.rpcConnecting = false
		if msg.err != nil {
			m.rpcConnected = false
			m.addLog("error", fmt.Sprintf("RPC connection failed: `%s`", msg.err.Error()))
			m.board.Error("RPC connection failed. Check your endpoint in settings.")
			return m, nil
		}
		if m.ethClient != nil {
			m.ethClient.Close()
		}
		m.ethClient = msg.client
		m.rpcConnected = true
		m.addLog("success", fmt.Sprintf("RPC connected to `%s` (chain %s)", msg.client.URL, msg.client.Chain))

		addr, _ := m.contractAddress()
		m.chainLoading = true
		return m, tea.Batch(m.startSession(msg.client), loadChainStatus(msg.client, addr))

	case chainStatusMsg:
		m.chainLoading = false
		m.chain = msg.status
		if msg.status.ErrMessage != "" {
			m.addLog("warning", "Chain status: "+msg.status.ErrMessage)
		}
		return m, nil

	case stateMsg:
		if !msg.ok || msg.from != m.stateCh {
			// closed or from a previous session
			return m, nil
		}
		prev := m.state
		m.state = msg.state
		if !prev.Connected() && m.state.Connected() {
			m.rememberAccount(m.state.Account)
		}
		if !m.editing && m.input.Value() != m.state.Message {
			m.input.SetValue(m.state.Message)
		}
		if m.selectedWave >= len(m.state.Waves) {
			m.selectedWave = max(0, len(m.state.Waves)-1)
		}
		m.updateLogViewport()
		return m, waitForState(m.stateCh)

	case noticeMsg:
		cmds := []tea.Cmd{waitForNotice(m.board.C())}
		if msg.notice.Level != notify.LevelAlert {
			cmds = append(cmds, expireToast(m.board.TTL()))
		}
		m.updateLogViewport()
		return m, tea.Batch(cmds...)

	case toastExpiredMsg:
		return m, nil

	case intentDoneMsg:
		if msg.err != nil {
			m.addLog("debug", fmt.Sprintf("%s ended: %v", msg.intent, msg.err))
		}
		return m, nil

	case passphraseRequestMsg:
		req := msg.req
		m.passPending = &req
		m.createPassphraseForm(req.account)
		m.addLog("info", "Wallet asks to unlock "+helpers.ShortenAddr(req.account.Hex()))
		return m, waitForPrompt(m.prompts)

	case clipboardCopiedMsg:
		m.copiedMsg = "Copied " + msg.what + "!"
		m.addLog("info", "Copied "+msg.what+" to clipboard")
		return m, clearClipboardMsg()

	case clearClipboardFeedbackMsg:
		m.copiedMsg = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		m.input.Width = max(20, min(80, msg.Width-20))
		if m.logEnabled {
			// Width accounts for border and padding
			m.logViewport.Width = max(0, msg.Width-6)
			m.logViewport.Height = logview.PanelHeight(msg.Height)
			m.updateLogViewport()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		var cmds []tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// -------------------- KEYS --------------------

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	// A blocking alert must be acknowledged first
	if _, ok := m.board.PendingAlert(); ok {
		switch key {
		case "enter", "esc", " ":
			m.board.Dismiss()
		}
		return m, nil
	}

	if !m.textInputActive() {
		switch key {
		case "l":
			return m, m.toggleLog()
		case "pgup", "pgdown":
			if m.logEnabled && m.logReady {
				var cmd tea.Cmd
				m.logViewport, cmd = m.logViewport.Update(msg)
				return m, cmd
			}
		}
	}

	switch m.activePage {
	case pagePortal:
		return m.handlePortalKey(msg)
	case pageDetails:
		return m.handleDetailsKey(key)
	case pageSettings:
		return m.handleSettingsKey(key)
	case pageShare:
		return m.handleShareKey(key)
	case pageMenu:
		// form not open yet
		return m, m.navigate(home.TargetPortal)
	}
	return m, nil
}

func (m *model) handlePortalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.editing {
		switch key {
		case "esc":
			m.editing = false
			m.input.Blur()
			return m, nil
		case "enter":
			m.editing = false
			m.input.Blur()
			if m.flow != nil {
				m.flow.SetMessage(m.input.Value())
			}
			return m, m.submitWave()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.flow != nil {
			m.flow.SetMessage(m.input.Value())
		}
		return m, cmd
	}

	switch key {
	case "q", "esc":
		return m, tea.Quit
	case "c":
		return m, m.connectWallet()
	case "w":
		return m, m.submitWave()
	case "i":
		if m.state.Connected() && m.state.TakesMessage && !m.state.Loading {
			m.editing = true
			return m, m.input.Focus()
		}
	case "r":
		if m.flow != nil {
			return m, runIntent("refresh", m.flow.Refresh)
		}
		if !m.rpcConnecting && m.rpcURL != "" {
			m.rpcConnecting = true
			return m, connectRPC(m.rpcURL)
		}
	case "up", "k":
		if m.selectedWave > 0 {
			m.selectedWave--
		}
	case "down", "j":
		if m.selectedWave < len(m.state.Waves)-1 {
			m.selectedWave++
		}
	case "enter":
		if m.state.HasHistory && len(m.state.Waves) > 0 {
			return m, m.navigate(home.TargetDetails)
		}
	case "y":
		if m.state.Connected() {
			return m, copyToClipboard(m.state.Account.Hex(), "account")
		}
	case "p":
		return m, m.navigate(home.TargetShare)
	case "s":
		return m, m.navigate(home.TargetSettings)
	case "m":
		m.homeForm = home.CreateForm()
		m.activePage = pageMenu
	}
	return m, nil
}

func (m *model) handleDetailsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "backspace":
		m.activePage = pagePortal
	case "y":
		if m.state.Connected() {
			return m, copyToClipboard(m.state.Account.Hex(), "account")
		}
	case "t":
		if m.state.LastTx != (common.Hash{}) {
			return m, copyToClipboard(m.state.LastTx.Hex(), "tx hash")
		}
	case "r":
		return m, m.reloadChainStatus()
	}
	return m, nil
}

func (m *model) handleShareKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "backspace":
		m.activePage = pagePortal
	case "y":
		if m.shareURI != "" {
			return m, copyToClipboard(m.shareURI, "link")
		}
	}
	return m, nil
}

func (m *model) handleSettingsKey(key string) (tea.Model, tea.Cmd) {
	if m.settingsMode == settings.ModeDelete {
		switch key {
		case "y":
			return m, m.deleteSelectedRPC()
		case "n", "esc":
			m.settingsMode = settings.ModeList
		}
		return m, nil
	}

	switch key {
	case "esc":
		m.activePage = pagePortal
	case "up", "k":
		if m.selectedRPCIdx > 0 {
			m.selectedRPCIdx--
		}
	case "down", "j":
		if m.selectedRPCIdx < len(m.cfg.RPCURLs)-1 {
			m.selectedRPCIdx++
		}
	case "enter":
		if !m.cfg.Activate(m.selectedRPCIdx) {
			return m, nil
		}
		m.saveConfig()
		active := m.cfg.RPCURLs[m.selectedRPCIdx]
		m.addLog("info", fmt.Sprintf("Switching RPC to `%s`", active.Name))
		return m, m.reconnect(active.URL)
	case "a":
		m.settingsMode = settings.ModeAdd
		m.form = settings.CreateForm("Add RPC endpoint", config.RPCUrl{})
	case "e":
		if m.selectedRPCIdx < len(m.cfg.RPCURLs) {
			m.settingsMode = settings.ModeEdit
			m.form = settings.CreateForm("Edit RPC endpoint", m.cfg.RPCURLs[m.selectedRPCIdx])
		}
	case "d":
		if m.selectedRPCIdx < len(m.cfg.RPCURLs) {
			m.settingsMode = settings.ModeDelete
		}
	}
	return m, nil
}

// -------------------- ACTIONS --------------------

// connectWallet asks the wallet for access
func (m *model) connectWallet() tea.Cmd {
	if m.flow == nil {
		if m.provider == nil {
			m.board.Alert(wave.NoticeGetWallet)
		} else {
			m.board.Info("Not connected to an RPC endpoint yet.")
		}
		return nil
	}
	return runIntent("connect", m.flow.Connect)
}

// submitWave sends the current message as a wave
func (m *model) submitWave() tea.Cmd {
	if m.flow == nil {
		m.board.Info(wave.NoticeNotReady)
		return nil
	}
	return runIntent("wave", m.flow.SubmitWave)
}

// navigate switches to a menu target
func (m *model) navigate(target string) tea.Cmd {
	switch target {
	case home.TargetDetails:
		m.activePage = pageDetails
		return m.reloadChainStatus()
	case home.TargetSettings:
		m.activePage = pageSettings
		m.settingsMode = settings.ModeList
	case home.TargetShare:
		m.activePage = pageShare
		m.buildShare()
	case home.TargetQuit:
		return tea.Quit
	default:
		m.activePage = pagePortal
	}
	return nil
}

func (m *model) reloadChainStatus() tea.Cmd {
	if m.ethClient == nil {
		return nil
	}
	addr, _ := m.contractAddress()
	m.chainLoading = true
	return loadChainStatus(m.ethClient, addr)
}

// buildShare prepares the EIP-681 link and its QR code
func (m *model) buildShare() {
	addr, ok := m.contractAddress()
	if !ok {
		m.shareURI, m.shareQR = "", ""
		return
	}
	var chainID *big.Int
	if m.ethClient != nil {
		chainID = m.ethClient.Chain
	}
	m.shareURI = rpc.ShareURI(addr, chainID)
	m.shareQR = rpc.GenerateQRCode(m.shareURI)
}

// reconnect dials url and starts a new session once connected
func (m *model) reconnect(url string) tea.Cmd {
	m.rpcURL = url
	m.rpcConnecting = true
	m.rpcConnected = false
	return connectRPC(url)
}

// saveRPCForm stores the add/edit form result
func (m *model) saveRPCForm() tea.Cmd {
	entry := config.RPCUrl{Name: strings.TrimSpace(settings.TempName), URL: strings.TrimSpace(settings.TempURL)}
	mode := m.settingsMode
	m.settingsMode = settings.ModeList
	m.form = nil

	var cmd tea.Cmd
	switch mode {
	case settings.ModeAdd:
		entry.Active = len(m.cfg.RPCURLs) == 0
		m.cfg.RPCURLs = append(m.cfg.RPCURLs, entry)
		m.addLog("success", fmt.Sprintf("Added RPC endpoint: `%s` (%s)", entry.Name, entry.URL))
		if entry.Active {
			cmd = m.reconnect(entry.URL)
		}
	case settings.ModeEdit:
		if m.selectedRPCIdx >= len(m.cfg.RPCURLs) {
			return nil
		}
		cur := &m.cfg.RPCURLs[m.selectedRPCIdx]
		changed := cur.URL != entry.URL
		cur.Name, cur.URL = entry.Name, entry.URL
		m.addLog("success", fmt.Sprintf("Updated RPC endpoint: `%s`", entry.Name))
		if cur.Active && changed {
			cmd = m.reconnect(cur.URL)
		}
	}
	m.saveConfig()
	return cmd
}

func (m *model) deleteSelectedRPC() tea.Cmd {
	m.settingsMode = settings.ModeList
	idx := m.selectedRPCIdx
	if idx >= len(m.cfg.RPCURLs) {
		return nil
	}
	removed := m.cfg.RPCURLs[idx]
	m.cfg.RPCURLs = append(m.cfg.RPCURLs[:idx], m.cfg.RPCURLs[idx+1:]...)
	if m.selectedRPCIdx > 0 && m.selectedRPCIdx >= len(m.cfg.RPCURLs) {
		m.selectedRPCIdx--
	}
	m.saveConfig()
	m.addLog("info", fmt.Sprintf("Deleted RPC endpoint: `%s`", removed.Name))
	if removed.Active {
		m.board.Info("The active endpoint was deleted. Pick another one with Enter.")
	}
	return nil
}

func (m *model) saveConfig() {
	if err := config.Save(m.configPath, m.cfg); err != nil {
		m.addLog("error", "Could not save config: "+err.Error())
	}
}

// toggleLog shows or hides the log panel and remembers the choice
func (m *model) toggleLog() tea.Cmd {
	m.logEnabled = !m.logEnabled
	m.cfg.Logger = m.logEnabled
	m.saveConfig()
	if m.logEnabled && !m.logReady {
		m.logViewport.Width = max(0, m.w-6)
		m.logViewport.Height = logview.PanelHeight(m.h)
		return tea.Batch(initLogViewport(), m.logSpinner.Tick)
	}
	return nil
}
