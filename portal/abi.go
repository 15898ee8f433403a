package portal

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"waveportal-tui/config"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// MessageABI is the WavePortal contract that stores a message with each wave
const MessageABI = `[
	{
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "from", "type": "address"},
			{"indexed": false, "name": "timestamp", "type": "uint256"},
			{"indexed": false, "name": "message", "type": "string"}
		],
		"name": "NewWave",
		"type": "event"
	},
	{
		"inputs": [],
		"name": "getAllWaves",
		"outputs": [
			{
				"components": [
					{"name": "waver", "type": "address"},
					{"name": "message", "type": "string"},
					{"name": "timestamp", "type": "uint256"}
				],
				"name": "",
				"type": "tuple[]"
			}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getTotalWaves",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"name": "_message", "type": "string"}],
		"name": "wave",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// PlainABI is the first WavePortal contract: a bare counter
const PlainABI = `[
	{
		"inputs": [],
		"name": "getTotalWaves",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "wave",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

const (
	methodTotal   = "getTotalWaves"
	methodHistory = "getAllWaves"
	methodWave    = "wave"
)

// ParseABI parses raw ABI JSON and checks it has the methods a portal needs
func ParseABI(raw string) (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse abi: %w", err)
	}
	for _, name := range []string{methodTotal, methodWave} {
		if _, ok := parsed.Methods[name]; !ok {
			return abi.ABI{}, fmt.Errorf("abi has no %s method", name)
		}
	}
	return parsed, nil
}

// artifact is the Hardhat/Foundry build output shape
type artifact struct {
	ABI json.RawMessage `json:"abi"`
}

// LoadABI reads an ABI file. Both a bare ABI array and a compiler
// artifact with an "abi" field are accepted.
func LoadABI(path string) (abi.ABI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("read abi %s: %w", path, err)
	}

	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, "{") {
		var art artifact
		if err := json.Unmarshal(data, &art); err != nil {
			return abi.ABI{}, fmt.Errorf("decode artifact %s: %w", path, err)
		}
		if len(art.ABI) == 0 {
			return abi.ABI{}, fmt.Errorf("artifact %s has no abi field", path)
		}
		raw = string(art.ABI)
	}
	return ParseABI(raw)
}

// ABIFor resolves the contract ABI from configuration
func ABIFor(c config.Contract) (abi.ABI, error) {
	if c.ABIPath != "" {
		return LoadABI(c.ABIPath)
	}
	switch c.Variant {
	case "", config.VariantMessage:
		return ParseABI(MessageABI)
	case config.VariantPlain:
		return ParseABI(PlainABI)
	}
	return abi.ABI{}, fmt.Errorf("unknown contract variant %q", c.Variant)
}
