package wallet

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/external"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// clefSigner is the part of external.ExternalSigner we use
type clefSigner interface {
	Accounts() []accounts.Account
	SignTx(account accounts.Account, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// ClefProvider talks to a Clef external signer. Clef itself prompts the
// user, both for the account listing and for every signature.
type ClefProvider struct {
	endpoint string
	dial     func(endpoint string) (clefSigner, error)

	mu       sync.Mutex
	signer   clefSigner
	approved []accounts.Account
}

// NewClefProvider creates a provider for the Clef IPC path or URL.
// The connection is made on first use.
func NewClefProvider(endpoint string) *ClefProvider {
	return &ClefProvider{
		endpoint: endpoint,
		dial: func(endpoint string) (clefSigner, error) {
			s, err := external.NewExternalSigner(endpoint)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	}
}

func (p *ClefProvider) Name() string { return "clef" }

func (p *ClefProvider) connect() (clefSigner, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.signer != nil {
		return p.signer, nil
	}
	s, err := p.dial(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: clef at %s: %v", ErrProviderUnavailable, p.endpoint, err)
	}
	p.signer = s
	return s, nil
}

// Accounts returns what Clef approved earlier in this session
func (p *ClefProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]common.Address, 0, len(p.approved))
	for _, a := range p.approved {
		out = append(out, a.Address)
	}
	return out, nil
}

// RequestAccounts asks Clef for the account list; Clef shows the prompt
func (p *ClefProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	s, err := p.connect()
	if err != nil {
		return nil, err
	}
	// a denied listing comes back empty
	granted := s.Accounts()
	if len(granted) == 0 {
		return nil, ErrUserRejected
	}

	p.mu.Lock()
	p.approved = granted
	p.mu.Unlock()
	return p.Accounts(ctx)
}

// Transactor forwards signing requests to Clef
func (p *ClefProvider) Transactor(ctx context.Context, account common.Address, chainID *big.Int) (*bind.TransactOpts, error) {
	p.mu.Lock()
	var acct *accounts.Account
	for i := range p.approved {
		if p.approved[i].Address == account {
			acct = &p.approved[i]
			break
		}
	}
	s := p.signer
	p.mu.Unlock()

	if acct == nil || s == nil {
		return nil, ErrNotAuthorized
	}
	signAs := *acct
	return &bind.TransactOpts{
		From: account,
		Signer: func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if addr != account {
				return nil, ErrNotAuthorized
			}
			signed, err := s.SignTx(signAs, tx, chainID)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUserRejected, err)
			}
			return signed, nil
		},
		Context: ctx,
	}, nil
}
