package settings

import (
	"testing"

	"waveportal-tui/config"

	"github.com/stretchr/testify/assert"
)

func TestRenderEmpty(t *testing.T) {
	out := Render(config.Config{}, 0, nil, ModeList)
	assert.Contains(t, out, "No RPC URLs configured.")
	assert.Contains(t, out, "contract: (not set)")
}

func TestRenderEndpointsAndPortal(t *testing.T) {
	cfg := config.Config{
		RPCURLs: []config.RPCUrl{
			{Name: "Local", URL: "http://127.0.0.1:8545", Active: true},
			{Name: "Sepolia", URL: "https://rpc.sepolia.org"},
		},
		Contract: config.Contract{Address: "0x5FbDB2315678afecb367f032d93F642f64180aa3", Variant: config.VariantPlain},
		Wallet:   config.Wallet{Kind: config.WalletClef, ClefEndpoint: "/tmp/clef.ipc"},
	}
	out := Render(cfg, 1, nil, ModeList)

	assert.Contains(t, out, "Local")
	assert.Contains(t, out, "https://rpc.sepolia.org")
	assert.Contains(t, out, "abi: plain")
	assert.Contains(t, out, "clef: /tmp/clef.ipc")
	assert.NotContains(t, out, "keystore:")
}

func TestCreateFormPrefills(t *testing.T) {
	form := CreateForm("Edit RPC", config.RPCUrl{Name: "Local", URL: "http://127.0.0.1:8545"})
	assert.NotNil(t, form)
	assert.Equal(t, "Local", TempName)
	assert.Equal(t, "http://127.0.0.1:8545", TempURL)
}
