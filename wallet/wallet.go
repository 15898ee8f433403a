// Package wallet gives the portal access to a user's wallet: which accounts
// are already authorized, asking for access, and a signing identity for an
// authorized account.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrProviderUnavailable means no wallet is installed or reachable
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
	// ErrUserRejected means the user declined an access or signing request
	ErrUserRejected = errors.New("request rejected by user")
	// ErrNotAuthorized means the account has not been granted to the portal
	ErrNotAuthorized = errors.New("account not authorized")
)

// Provider is a wallet the portal talks to
type Provider interface {
	// Name is a short label for the UI
	Name() string
	// Accounts lists accounts already authorized, without prompting
	Accounts(ctx context.Context) ([]common.Address, error)
	// RequestAccounts asks the user to grant access
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	// Transactor returns a signing identity for an authorized account
	Transactor(ctx context.Context, account common.Address, chainID *big.Int) (*bind.TransactOpts, error)
}

// Accessor wraps an optional provider. A nil provider means no wallet.
type Accessor struct {
	provider Provider
}

// NewAccessor creates an accessor over p, which may be nil
func NewAccessor(p Provider) *Accessor {
	return &Accessor{provider: p}
}

// Detect reports whether a wallet provider is present
func (a *Accessor) Detect() (Provider, bool) {
	if a == nil || a.provider == nil {
		return nil, false
	}
	return a.provider, true
}

// ListAuthorized returns the accounts the wallet already granted, possibly none
func (a *Accessor) ListAuthorized(ctx context.Context) ([]common.Address, error) {
	p, ok := a.Detect()
	if !ok {
		return nil, ErrProviderUnavailable
	}
	accounts, err := p.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s accounts: %w", p.Name(), err)
	}
	return accounts, nil
}

// RequestAccess prompts the user for access. An empty grant is a rejection.
func (a *Accessor) RequestAccess(ctx context.Context) ([]common.Address, error) {
	p, ok := a.Detect()
	if !ok {
		return nil, ErrProviderUnavailable
	}
	accounts, err := p.RequestAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("request %s access: %w", p.Name(), err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("request %s access: %w", p.Name(), ErrUserRejected)
	}
	return accounts, nil
}

// SigningIdentity returns transact options bound to account
func (a *Accessor) SigningIdentity(ctx context.Context, account common.Address, chainID *big.Int) (*bind.TransactOpts, error) {
	p, ok := a.Detect()
	if !ok {
		return nil, ErrProviderUnavailable
	}
	opts, err := p.Transactor(ctx, account, chainID)
	if err != nil {
		return nil, fmt.Errorf("%s signer for %s: %w", p.Name(), account.Hex(), err)
	}
	return opts, nil
}
