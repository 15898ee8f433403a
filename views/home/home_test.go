package home

import (
	"testing"

	"waveportal-tui/wave"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	assert.Contains(t, Summary(wave.State{}), "disconnected")

	st := wave.State{Phase: wave.Idle, Account: common.HexToAddress("0x00000000000000000000000000000000000000aa")}
	assert.Contains(t, Summary(st), "count unknown")

	st.CountKnown = true
	st.TotalWaves = 7
	assert.Contains(t, Summary(st), "7 waves")
}

func TestRenderWithoutForm(t *testing.T) {
	assert.Equal(t, "Loading menu...", Render(nil, wave.State{}))
}

func TestCreateFormResetsSelection(t *testing.T) {
	TempSelection = TargetQuit
	form := CreateForm()
	assert.NotNil(t, form)
	assert.Empty(t, TempSelection)
}
