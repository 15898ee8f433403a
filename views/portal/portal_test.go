package portal

import (
	"strings"
	"testing"
	"time"

	"waveportal-tui/wave"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

var alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")

func TestRenderDisconnected(t *testing.T) {
	out := Render(Props{State: wave.State{}, Width: 80})
	assert.Contains(t, out, "Connect Wallet")
	assert.NotContains(t, out, "Wave at Me")
}

func TestRenderConnecting(t *testing.T) {
	out := Render(Props{State: wave.State{Phase: wave.Connecting}, Spinner: "*", Width: 80})
	assert.Contains(t, out, "waiting for the wallet")
	assert.NotContains(t, out, "Connect Wallet")
}

func TestRenderConnected(t *testing.T) {
	st := wave.State{Phase: wave.Idle, Account: alice, TotalWaves: 4, CountKnown: true}
	out := Render(Props{State: st, Input: "[input]", Width: 80})

	assert.Contains(t, out, "Wave at Me")
	assert.Contains(t, out, "I have been waved at 4 times")
	assert.NotContains(t, out, "[input]", "plain contracts take no message")
	assert.NotContains(t, out, "Connect Wallet")
}

func TestRenderLoading(t *testing.T) {
	st := wave.State{Phase: wave.Submitting, Account: alice, TotalWaves: 4, CountKnown: true, Loading: true, TakesMessage: true}
	out := Render(Props{State: st, Input: "[input]", Spinner: "*", Width: 80})

	assert.Contains(t, out, "Mining…")
	assert.Contains(t, out, "mining your wave")
	assert.Contains(t, out, "[input]")
	assert.NotContains(t, out, "Wave at Me")
	assert.NotContains(t, out, "waved at 4 times")
}

func TestRenderStale(t *testing.T) {
	st := wave.State{Phase: wave.Idle, Account: alice, TotalWaves: 4, CountKnown: true, Stale: true}
	assert.Contains(t, Render(Props{State: st, Width: 80}), "stale")
}

func TestRenderHistoryNewestFirst(t *testing.T) {
	st := wave.State{
		Phase:      wave.Idle,
		Account:    alice,
		CountKnown: true,
		TotalWaves: 2,
		HasHistory: true,
		Waves: []wave.WaveRecord{
			{Waver: alice, Message: "first wave", Timestamp: time.Unix(1_700_000_000, 0)},
			{Waver: alice, Message: "second wave", Timestamp: time.Unix(1_700_000_060, 0)},
		},
	}
	out := Render(Props{State: st, Now: time.Unix(1_700_000_120, 0), Width: 80})

	first := strings.Index(out, "first wave")
	second := strings.Index(out, "second wave")
	assert.True(t, first >= 0 && second >= 0)
	assert.Less(t, second, first)
}

func TestRenderListEmpty(t *testing.T) {
	assert.Contains(t, RenderList(nil, 0, time.Now(), 80), "No waves yet")
}

func TestNav(t *testing.T) {
	assert.Contains(t, Nav(120, wave.State{}, false), "connect wallet")

	connected := wave.State{Account: alice, TakesMessage: true, HasHistory: true}
	nav := Nav(200, connected, false)
	assert.Contains(t, nav, "message")
	assert.Contains(t, nav, "share")
	assert.NotContains(t, nav, "connect wallet")
}
