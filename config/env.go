package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Env holds the environment overrides. Every name carries the WAVEPORTAL_
// prefix except ETH_RPC_URL.
type Env struct {
	RPCURL          string `envconfig:"WAVEPORTAL_RPC_URL"`
	EthRPCURL       string `envconfig:"ETH_RPC_URL"`
	ContractAddress string `envconfig:"WAVEPORTAL_CONTRACT_ADDRESS"`
	ContractVariant string `envconfig:"WAVEPORTAL_CONTRACT_VARIANT"`
	ABIPath         string `envconfig:"WAVEPORTAL_ABI_PATH"`
	TimestampUnit   string `envconfig:"WAVEPORTAL_TIMESTAMP_UNIT"`
	WalletKind      string `envconfig:"WAVEPORTAL_WALLET"`
	KeystoreDir     string `envconfig:"WAVEPORTAL_KEYSTORE_DIR"`
	ClefEndpoint    string `envconfig:"WAVEPORTAL_CLEF_ENDPOINT"`
	Account         string `envconfig:"WAVEPORTAL_ACCOUNT"`
	Passphrase      string `envconfig:"WAVEPORTAL_KEYSTORE_PASSPHRASE"`
}

// LoadEnv reads the overrides from the process environment. An empty
// prefix keeps envconfig from falling back to unprefixed names.
func LoadEnv() (Env, error) {
	var e Env
	if err := envconfig.Process("", &e); err != nil {
		return Env{}, fmt.Errorf("read environment: %w", err)
	}
	return e, nil
}

// Apply overlays non-empty environment values onto the config.
// An explicit WAVEPORTAL_RPC_URL becomes the active endpoint; ETH_RPC_URL
// is only used when the config has no endpoints at all.
func (e Env) Apply(cfg *Config) {
	if url := strings.TrimSpace(e.RPCURL); url != "" {
		found := false
		for i := range cfg.RPCURLs {
			cfg.RPCURLs[i].Active = cfg.RPCURLs[i].URL == url
			found = found || cfg.RPCURLs[i].Active
		}
		if !found {
			cfg.RPCURLs = append(cfg.RPCURLs, RPCUrl{Name: "Environment", URL: url, Active: true})
		}
	} else if url := strings.TrimSpace(e.EthRPCURL); url != "" && len(cfg.RPCURLs) == 0 {
		cfg.RPCURLs = []RPCUrl{{Name: "Default", URL: url, Active: true}}
	}

	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&cfg.Contract.Address, e.ContractAddress)
	set(&cfg.Contract.Variant, e.ContractVariant)
	set(&cfg.Contract.ABIPath, e.ABIPath)
	set(&cfg.Contract.TimestampUnit, e.TimestampUnit)
	set(&cfg.Wallet.Kind, e.WalletKind)
	set(&cfg.Wallet.KeystoreDir, e.KeystoreDir)
	set(&cfg.Wallet.ClefEndpoint, e.ClefEndpoint)
	set(&cfg.Wallet.Account, e.Account)
}
