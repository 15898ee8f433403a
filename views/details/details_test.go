package details

import (
	"math/big"
	"testing"
	"time"

	"waveportal-tui/rpc"
	"waveportal-tui/wave"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestExplorerURL(t *testing.T) {
	assert.Equal(t, "https://sepolia.etherscan.io/tx/0xabc", ExplorerURL(big.NewInt(11155111), "tx", "0xabc"))
	assert.Empty(t, ExplorerURL(big.NewInt(31337), "tx", "0xabc"))
	assert.Empty(t, ExplorerURL(nil, "tx", "0xabc"))
}

func TestRenderDisconnected(t *testing.T) {
	out := Render(wave.State{}, nil, rpc.ChainStatus{ErrMessage: "No RPC client (set ETH_RPC_URL)."}, false, "", "")
	assert.Contains(t, out, "No wallet connected")
	assert.Contains(t, out, "No RPC client")
}

func TestRenderSelectedWave(t *testing.T) {
	acct := common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	st := wave.State{Account: acct, LastTx: common.HexToHash("0x01")}
	w := &wave.WaveRecord{Waver: acct, Message: "gm", Timestamp: time.Unix(1_700_000_000, 0)}
	chain := rpc.ChainStatus{ChainID: big.NewInt(31337), Block: 42, LoadedAt: time.Now()}

	out := Render(st, w, chain, false, "Copied!", "")
	assert.Contains(t, out, acct.Hex())
	assert.Contains(t, out, "31337")
	assert.Contains(t, out, "gm")
	assert.Contains(t, out, common.HexToHash("0x01").Hex())
	assert.Contains(t, out, "Copied!")
}
