package main

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"waveportal-tui/notify"
	"waveportal-tui/rpc"
	"waveportal-tui/views/settings"
	"waveportal-tui/wave"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// errPromptCancelled is returned to the wallet when the passphrase form is aborted
var errPromptCancelled = errors.New("passphrase prompt cancelled")

// connectRPC establishes an RPC connection to the Ethereum node
func connectRPC(url string) tea.Cmd {
	return func() tea.Msg {
		result := rpc.Connect(url)
		return rpcConnectedMsg{client: result.Client, err: result.Error}
	}
}

// loadChainStatus fetches the latest block and checks the contract code
func loadChainStatus(client *rpc.Client, contract common.Address) tea.Cmd {
	return func() tea.Msg {
		return chainStatusMsg{status: rpc.LoadChainStatus(client, contract)}
	}
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// waitForState blocks until the store publishes a new snapshot
func waitForState(ch <-chan wave.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		return stateMsg{from: ch, state: st, ok: ok}
	}
}

// waitForNotice blocks until the flow raises a notification
func waitForNotice(ch <-chan notify.Notice) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg{notice: <-ch}
	}
}

// waitForPrompt blocks until the wallet asks for a passphrase
func waitForPrompt(ch <-chan passphraseRequest) tea.Cmd {
	return func() tea.Msg {
		return passphraseRequestMsg{req: <-ch}
	}
}

// expireToast re-renders after the toast lifetime
func expireToast(ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return toastExpiredMsg{}
	})
}

// runIntent runs a flow intent off the UI goroutine
func runIntent(name string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return intentDoneMsg{intent: name, err: fn(context.Background())}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return nil
		}
		return clipboardCopiedMsg{what: what}
	}
}

// clearClipboardMsg waits 2 seconds then clears clipboard feedback
func clearClipboardMsg() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearClipboardFeedbackMsg{}
	})
}

// -------------------- PASSPHRASE PROMPT --------------------

// promptPassphrase is the wallet's passphrase callback. It runs on an intent
// goroutine and waits for the UI to answer through the huh form.
func promptPassphrase(requests chan<- passphraseRequest) func(context.Context, common.Address) (string, error) {
	return func(ctx context.Context, account common.Address) (string, error) {
		req := passphraseRequest{account: account, reply: make(chan passphraseReply, 1)}
		select {
		case requests <- req:
		case <-ctx.Done():
			return "", ctx.Err()
		}
		select {
		case r := <-req.reply:
			return r.passphrase, r.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// -------------------- LOGGING --------------------

// logBuffer is the log sink shared by the UI and the flow goroutines
type logBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

// addLog adds a log message to the logger panel
func (m *model) addLog(logType, message string) {
	if m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message)
	case "success":
		m.logger.Info("✓", "msg", message)
	case "error":
		m.logger.Error(message)
	case "warning":
		m.logger.Warn(message)
	case "debug":
		m.logger.Debug(message)
	default:
		m.logger.Print(message)
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logReady || m.logBuffer == nil {
		return
	}
	m.logViewport.SetContent(m.logBuffer.String())
	m.logViewport.GotoBottom()
}

// textInputActive returns true if any text input is currently active
func (m model) textInputActive() bool {
	if m.editing || m.passForm != nil {
		return true
	}
	if (m.settingsMode == settings.ModeAdd || m.settingsMode == settings.ModeEdit) && m.form != nil {
		return true
	}
	return m.activePage == pageMenu && m.homeForm != nil
}
