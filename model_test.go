package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"waveportal-tui/config"
	"waveportal-tui/notify"
	"waveportal-tui/wallet"
	"waveportal-tui/wave"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T) *model {
	t.Helper()
	cfg := config.Config{Wallet: config.Wallet{Kind: config.WalletNone}}
	m := newModel(cfg, filepath.Join(t.TempDir(), "config.json"), "")
	m.w, m.h = 120, 40
	return &m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func noBinder(context.Context, common.Address) (wave.Contract, error) {
	return nil, wallet.ErrProviderUnavailable
}

func TestConnectWithoutRPCOrWallet(t *testing.T) {
	m := testModel(t)
	require.Nil(t, m.provider)

	_, cmd := m.Update(key("c"))
	assert.Nil(t, cmd)

	alert, ok := m.board.PendingAlert()
	require.True(t, ok)
	assert.Equal(t, wave.NoticeGetWallet, alert.Text)
}

func TestConnectWithoutWalletRaisesAlert(t *testing.T) {
	m := testModel(t)
	m.attachFlow(wave.NewFlow(nil, wallet.NewAccessor(nil), noBinder, m.board, nil))

	_, cmd := m.Update(key("c"))
	require.NotNil(t, cmd)

	done, ok := cmd().(intentDoneMsg)
	require.True(t, ok)
	assert.ErrorIs(t, done.err, wallet.ErrProviderUnavailable)

	alert, ok := m.board.PendingAlert()
	require.True(t, ok)
	assert.Equal(t, wave.NoticeGetWallet, alert.Text)
	assert.Equal(t, notify.LevelAlert, alert.Level)

	// other keys are swallowed until the alert is acknowledged
	m.Update(key("m"))
	assert.Equal(t, pagePortal, m.activePage)

	m.Update(key("enter"))
	_, ok = m.board.PendingAlert()
	assert.False(t, ok)
}

func TestStateMsgSyncsInput(t *testing.T) {
	m := testModel(t)
	m.attachFlow(wave.NewFlow(nil, wallet.NewAccessor(nil), noBinder, m.board, nil))

	account := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	st := wave.State{
		Phase:        wave.Idle,
		Account:      account,
		HasHistory:   true,
		TakesMessage: true,
		Message:      "gm",
		Waves: []wave.WaveRecord{
			{Waver: account, Message: "first"},
			{Waver: account, Message: "second"},
		},
	}
	m.selectedWave = 5

	_, cmd := m.Update(stateMsg{from: m.stateCh, state: st, ok: true})
	assert.NotNil(t, cmd)
	assert.Equal(t, "gm", m.input.Value())
	assert.True(t, m.state.Connected())
	assert.Equal(t, 1, m.selectedWave)

	sel := m.selectedWaveRecord()
	require.NotNil(t, sel)
	assert.Equal(t, "first", sel.Message)
}

func TestStateMsgFromOldSessionIgnored(t *testing.T) {
	m := testModel(t)
	m.attachFlow(wave.NewFlow(nil, wallet.NewAccessor(nil), noBinder, m.board, nil))

	old := make(chan wave.State)
	st := wave.State{Phase: wave.Idle, Account: common.HexToAddress("0x01")}
	_, cmd := m.Update(stateMsg{from: old, state: st, ok: true})
	assert.Nil(t, cmd)
	assert.False(t, m.state.Connected())
}

func TestEditingNeedsMessageContract(t *testing.T) {
	m := testModel(t)
	m.state = wave.State{Phase: wave.Idle, Account: common.HexToAddress("0x01")}

	m.Update(key("i"))
	assert.False(t, m.editing)

	m.state.TakesMessage = true
	m.Update(key("i"))
	assert.True(t, m.editing)

	m.Update(key("esc"))
	assert.False(t, m.editing)
}

func TestViewShowsToasts(t *testing.T) {
	m := testModel(t)
	m.board.Error(wave.NoticeNoAccount)

	out := m.View()
	assert.True(t, strings.Contains(out, "Connect Wallet"))
	assert.True(t, strings.Contains(out, wave.NoticeNoAccount))
}
