package wallet

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// PassphraseFunc asks the user for the passphrase of account.
// Returning an error means the user cancelled.
type PassphraseFunc func(ctx context.Context, account common.Address) (string, error)

// KeystoreProvider is a wallet backed by a go-ethereum key directory.
// An account counts as authorized once it is unlocked in this process.
type KeystoreProvider struct {
	ks         *keystore.KeyStore
	preferred  common.Address
	passphrase PassphraseFunc

	// accounts approved in an earlier session; unlocked silently when
	// envPassphrase decrypts them
	preauthorized []common.Address
	envPassphrase string

	mu       sync.Mutex
	unlocked map[common.Address]bool
}

// KeystoreOption configures a KeystoreProvider
type KeystoreOption func(*KeystoreProvider)

// WithPreferredAccount makes RequestAccounts unlock addr instead of the first key
func WithPreferredAccount(addr common.Address) KeystoreOption {
	return func(p *KeystoreProvider) { p.preferred = addr }
}

// WithPassphrasePrompt sets how the user is asked for a passphrase
func WithPassphrasePrompt(fn PassphraseFunc) KeystoreOption {
	return func(p *KeystoreProvider) { p.passphrase = fn }
}

// WithPreauthorized lets silent discovery unlock accounts with passphrase
func WithPreauthorized(addrs []common.Address, passphrase string) KeystoreOption {
	return func(p *KeystoreProvider) {
		p.preauthorized = addrs
		p.envPassphrase = passphrase
	}
}

// OpenKeystore opens dir with standard scrypt parameters.
// A missing directory means there is no wallet.
func OpenKeystore(dir string) (*keystore.KeyStore, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%w: keystore %s: %v", ErrProviderUnavailable, dir, err)
	}
	return keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP), nil
}

// NewKeystoreProvider wraps an opened keystore
func NewKeystoreProvider(ks *keystore.KeyStore, opts ...KeystoreOption) *KeystoreProvider {
	p := &KeystoreProvider{
		ks:       ks,
		unlocked: make(map[common.Address]bool),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *KeystoreProvider) Name() string { return "keystore" }

// Accounts returns unlocked accounts in keystore order
func (p *KeystoreProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	if p.envPassphrase != "" {
		for _, addr := range p.preauthorized {
			if p.isUnlocked(addr) || !p.ks.HasAddress(addr) {
				continue
			}
			// wrong passphrase just leaves the account unauthorized
			if err := p.ks.Unlock(accounts.Account{Address: addr}, p.envPassphrase); err == nil {
				p.markUnlocked(addr)
			}
		}
	}

	var out []common.Address
	for _, a := range p.ks.Accounts() {
		if p.isUnlocked(a.Address) {
			out = append(out, a.Address)
		}
	}
	return out, nil
}

// RequestAccounts unlocks the preferred (or first) key after asking for its passphrase
func (p *KeystoreProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	all := p.ks.Accounts()
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: keystore has no accounts", ErrProviderUnavailable)
	}

	target := all[0]
	if p.preferred != (common.Address{}) {
		found := false
		for _, a := range all {
			if a.Address == p.preferred {
				target, found = a, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: account %s not in keystore", ErrProviderUnavailable, p.preferred.Hex())
		}
	}

	if !p.isUnlocked(target.Address) {
		pass := p.envPassphrase
		if p.passphrase != nil {
			var err error
			pass, err = p.passphrase(ctx, target.Address)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUserRejected, err)
			}
		}
		if err := p.ks.Unlock(target, pass); err != nil {
			return nil, fmt.Errorf("%w: unlock %s: %v", ErrUserRejected, target.Address.Hex(), err)
		}
		p.markUnlocked(target.Address)
	}

	return p.Accounts(ctx)
}

// Transactor signs with the unlocked key of account
func (p *KeystoreProvider) Transactor(ctx context.Context, account common.Address, chainID *big.Int) (*bind.TransactOpts, error) {
	if !p.isUnlocked(account) {
		return nil, ErrNotAuthorized
	}
	acct := accounts.Account{Address: account}
	return &bind.TransactOpts{
		From: account,
		Signer: func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if addr != account {
				return nil, ErrNotAuthorized
			}
			return p.ks.SignTx(acct, tx, chainID)
		},
		Context: ctx,
	}, nil
}

func (p *KeystoreProvider) isUnlocked(addr common.Address) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unlocked[addr]
}

func (p *KeystoreProvider) markUnlocked(addr common.Address) {
	p.mu.Lock()
	p.unlocked[addr] = true
	p.mu.Unlock()
}
