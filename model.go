package main

import (
	"waveportal-tui/config"
	"waveportal-tui/notify"
	"waveportal-tui/portal"
	"waveportal-tui/rpc"
	"waveportal-tui/styles"
	"waveportal-tui/views/settings"
	"waveportal-tui/wallet"
	"waveportal-tui/wave"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- PAGES --------------------

type page string

const (
	pagePortal   page = "portal"
	pageMenu     page = "menu"
	pageDetails  page = "details"
	pageSettings page = "settings"
	pageShare    page = "share"
)

// -------------------- MODEL --------------------

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	activePage page

	cfg        config.Config
	configPath string
	passphrase string

	// chain connection
	spin          spinner.Model
	rpcURL        string
	ethClient     *rpc.Client
	rpcConnected  bool
	rpcConnecting bool
	chain         rpc.ChainStatus
	chainLoading  bool

	// wave portal
	provider     wallet.Provider
	flow         *wave.Flow
	state        wave.State
	stateCh      <-chan wave.State
	unsubscribe  func()
	board        *notify.Board
	prompts      chan passphraseRequest
	input        textinput.Model
	editing      bool
	selectedWave int

	// keystore unlock form
	passForm    *huh.Form
	passPending *passphraseRequest

	// clipboard feedback
	copiedMsg string

	// settings state
	settingsMode   string
	selectedRPCIdx int
	form           *huh.Form

	// main menu
	homeForm *huh.Form

	// share page
	shareURI string
	shareQR  string

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *logBuffer
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model
}

// -------------------- INIT --------------------

// newModel creates the model from a loaded configuration. passphrase is the
// keystore passphrase from the environment, if any.
func newModel(cfg config.Config, configPath, passphrase string) model {
	// input for the wave message
	in := textinput.New()
	in.Placeholder = "Say something nice…"
	in.Prompt = "Message: "
	in.PromptStyle = lipgloss.NewStyle().Foreground(styles.CAccent)
	in.TextStyle = lipgloss.NewStyle().Foreground(styles.CText)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)
	in.CharLimit = 280
	in.Width = 60

	// spinner
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// Initialize log viewport
	vp := viewport.New(0, 20)
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	buf := &logBuffer{}
	logger := newLogger(buf)

	prompts := make(chan passphraseRequest)
	provider, err := wallet.FromConfig(cfg.Wallet, passphrase, promptPassphrase(prompts))
	if err != nil {
		logger.Warn("No wallet available", "kind", cfg.Wallet.Kind, "err", err)
		provider = nil
	}

	m := model{
		activePage:   pagePortal,
		cfg:          cfg,
		configPath:   configPath,
		passphrase:   passphrase,
		spin:         sp,
		provider:     provider,
		board:        notify.NewBoard(notify.DefaultTTL),
		prompts:      prompts,
		input:        in,
		settingsMode: settings.ModeList,
		logEnabled:   cfg.Logger,
		logger:       logger,
		logBuffer:    buf,
		logViewport:  vp,
		logSpinner:   logSpin,
	}
	if active, ok := cfg.ActiveRPC(); ok {
		m.rpcURL = active.URL
	}
	return m
}

// newLogger creates the log panel logger writing to w
func newLogger(w *logBuffer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	logger.SetLevel(log.DebugLevel)
	logger.SetStyles(&log.Styles{
		Timestamp: lipgloss.NewStyle().Foreground(cMuted),
		Caller:    lipgloss.NewStyle().Faint(true),
		Prefix:    lipgloss.NewStyle().Bold(true).Foreground(cAccent2),
		Message:   lipgloss.NewStyle().Foreground(cText),
		Key:       lipgloss.NewStyle().Foreground(cAccent),
		Value:     lipgloss.NewStyle().Foreground(cText),
		Separator: lipgloss.NewStyle().Faint(true),
		Levels: map[log.Level]lipgloss.Style{
			log.DebugLevel: lipgloss.NewStyle().Foreground(cMuted).SetString("DEBUG"),
			log.InfoLevel:  lipgloss.NewStyle().Foreground(cAccent2).SetString("INFO"),
			log.WarnLevel:  lipgloss.NewStyle().Foreground(cWarn).SetString("WARN"),
			log.ErrorLevel: lipgloss.NewStyle().Foreground(styles.CError).SetString("ERROR"),
		},
	})
	return logger
}

// Init implements tea.Model interface and returns initial commands
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spin.Tick,
		waitForNotice(m.board.C()),
		waitForPrompt(m.prompts),
	}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	if m.rpcURL != "" {
		m.rpcConnecting = true
		cmds = append(cmds, connectRPC(m.rpcURL))
	} else {
		m.board.Error("No RPC endpoint configured. Add one in settings.")
	}
	return tea.Batch(cmds...)
}

// contractAddress is the configured portal address, or false if unset
func (m model) contractAddress() (common.Address, bool) {
	if !common.IsHexAddress(m.cfg.Contract.Address) {
		return common.Address{}, false
	}
	return common.HexToAddress(m.cfg.Contract.Address), true
}

// startSession binds a fresh flow to the connected chain and starts silent
// discovery. Any previous session is dropped.
func (m *model) startSession(client *rpc.Client) tea.Cmd {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.flow = nil
	m.state = wave.State{}
	m.selectedWave = 0

	addr, ok := m.contractAddress()
	if !ok {
		m.board.Error("Set contract.address in " + m.configPath + " to use the portal.")
		return nil
	}
	parsed, err := portal.ABIFor(m.cfg.Contract)
	if err != nil {
		m.board.Error(err.Error())
		return nil
	}

	accessor := wallet.NewAccessor(m.provider)
	binder := wave.HandleBinder(accessor, client, client.Chain, addr, parsed, portal.Options{TimestampUnit: m.cfg.Contract.TimestampUnit})
	sink := notify.Tee(m.board, notify.LogSink{Logger: m.logger})

	return m.attachFlow(wave.NewFlow(wave.NewStore(), accessor, binder, sink, m.logger.WithPrefix("wave")))
}

// attachFlow subscribes the UI to flow and runs discovery
func (m *model) attachFlow(flow *wave.Flow) tea.Cmd {
	m.flow = flow
	ch, cancel := flow.Store().Subscribe()
	m.stateCh = ch
	m.unsubscribe = cancel
	return tea.Batch(waitForState(ch), runIntent("discover", flow.Discover))
}

// rememberAccount stores a newly connected account for silent discovery
func (m *model) rememberAccount(account common.Address) {
	if m.cfg.Wallet.Kind != config.WalletKeystore {
		return
	}
	if !m.cfg.Authorize(account) {
		return
	}
	if err := config.Save(m.configPath, m.cfg); err != nil {
		m.addLog("error", "Could not save config: "+err.Error())
		return
	}
	m.addLog("info", "Remembered account "+account.Hex())
}
