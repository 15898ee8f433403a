package wallet

import (
	"fmt"

	"waveportal-tui/config"

	"github.com/ethereum/go-ethereum/common"
)

// FromConfig builds the configured provider. It returns a nil provider,
// and an error saying why, when no wallet can be used.
func FromConfig(cfg config.Wallet, passphrase string, prompt PassphraseFunc) (Provider, error) {
	switch cfg.Kind {
	case "", config.WalletNone:
		return nil, fmt.Errorf("%w: no wallet configured", ErrProviderUnavailable)

	case config.WalletKeystore:
		ks, err := OpenKeystore(cfg.KeystoreDir)
		if err != nil {
			return nil, err
		}
		var pre []common.Address
		for _, a := range cfg.AuthorizedAccounts {
			pre = append(pre, common.HexToAddress(a))
		}
		opts := []KeystoreOption{WithPreauthorized(pre, passphrase)}
		if prompt != nil {
			opts = append(opts, WithPassphrasePrompt(prompt))
		}
		if common.IsHexAddress(cfg.Account) {
			opts = append(opts, WithPreferredAccount(common.HexToAddress(cfg.Account)))
		}
		return NewKeystoreProvider(ks, opts...), nil

	case config.WalletClef:
		return NewClefProvider(cfg.ClefEndpoint), nil
	}
	return nil, fmt.Errorf("%w: unknown wallet kind %q", ErrProviderUnavailable, cfg.Kind)
}
