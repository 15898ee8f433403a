package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Wallet provider kinds
const (
	WalletNone     = "none"
	WalletKeystore = "keystore"
	WalletClef     = "clef"
)

// Built-in contract ABI variants
const (
	VariantMessage = "message"
	VariantPlain   = "plain"
)

// Timestamp units the contract may report
const (
	UnitSeconds      = "s"
	UnitMilliseconds = "ms"
)

// Config represents the application configuration
type Config struct {
	RPCURLs  []RPCUrl `json:"rpc_urls"`
	Contract Contract `json:"contract"`
	Wallet   Wallet   `json:"wallet"`
	Logger   bool     `json:"logger"`
}

// RPCUrl represents an RPC endpoint
type RPCUrl struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Contract describes the deployed WavePortal contract.
// ABIPath wins over Variant when both are set.
type Contract struct {
	Address       string `json:"address"`
	Variant       string `json:"variant,omitempty"`
	ABIPath       string `json:"abi_path,omitempty"`
	TimestampUnit string `json:"timestamp_unit,omitempty"`
}

// Wallet selects the wallet provider used for account access and signing
type Wallet struct {
	Kind               string   `json:"kind"`
	KeystoreDir        string   `json:"keystore_dir,omitempty"`
	ClefEndpoint       string   `json:"clef_endpoint,omitempty"`
	Account            string   `json:"account,omitempty"`
	AuthorizedAccounts []string `json:"authorized_accounts,omitempty"`
}

// DefaultPath returns the config location in the user's home directory
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".waveportal-config.json")
}

// Load reads the config from the specified path
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		RPCURLs: []RPCUrl{
			{
				Name:   "Public Sepolia",
				URL:    "https://ethereum-sepolia-rpc.publicnode.com",
				Active: true,
			},
		},
		Contract: Contract{
			Variant:       VariantMessage,
			TimestampUnit: UnitSeconds,
		},
		Wallet: Wallet{
			Kind:         WalletKeystore,
			KeystoreDir:  filepath.Join(homeDir, ".ethereum", "keystore"),
			ClefEndpoint: filepath.Join(homeDir, ".clef", "clef.ipc"),
		},
		Logger: false,
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg := DefaultConfig()
		_ = Save(path, cfg)
		return cfg
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// ActiveRPC returns the endpoint marked active, if any
func (c Config) ActiveRPC() (RPCUrl, bool) {
	for _, r := range c.RPCURLs {
		if r.Active {
			return r, true
		}
	}
	return RPCUrl{}, false
}

// Activate marks the endpoint at idx as the only active one
func (c *Config) Activate(idx int) bool {
	if idx < 0 || idx >= len(c.RPCURLs) {
		return false
	}
	for i := range c.RPCURLs {
		c.RPCURLs[i].Active = i == idx
	}
	return true
}

// Authorize remembers addr as pre-approved for silent discovery
func (c *Config) Authorize(addr common.Address) bool {
	for _, a := range c.Wallet.AuthorizedAccounts {
		if strings.EqualFold(a, addr.Hex()) {
			return false
		}
	}
	c.Wallet.AuthorizedAccounts = append(c.Wallet.AuthorizedAccounts, addr.Hex())
	return true
}

// Validate checks the fields the portal cannot run without
func (c Config) Validate() error {
	if c.Contract.Address == "" {
		return fmt.Errorf("contract address is not set")
	}
	if !common.IsHexAddress(c.Contract.Address) {
		return fmt.Errorf("invalid contract address %q", c.Contract.Address)
	}
	switch c.Contract.Variant {
	case "", VariantMessage, VariantPlain:
	default:
		return fmt.Errorf("unknown contract variant %q", c.Contract.Variant)
	}
	switch c.Contract.TimestampUnit {
	case "", UnitSeconds, UnitMilliseconds:
	default:
		return fmt.Errorf("unknown timestamp unit %q", c.Contract.TimestampUnit)
	}
	switch c.Wallet.Kind {
	case "", WalletNone, WalletKeystore, WalletClef:
	default:
		return fmt.Errorf("unknown wallet kind %q", c.Wallet.Kind)
	}
	for _, a := range c.Wallet.AuthorizedAccounts {
		if !common.IsHexAddress(a) {
			return fmt.Errorf("invalid authorized account %q", a)
		}
	}
	return nil
}
