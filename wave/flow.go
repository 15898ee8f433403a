// Package wave is the interaction flow of the portal: discovering or
// connecting a wallet account, reading the wave counter and history, and
// submitting waves. It owns the view state the presentation renders.
package wave

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"

	"waveportal-tui/notify"
	"waveportal-tui/portal"
	"waveportal-tui/wallet"

	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrInvalidState means the intent is not allowed in the current phase
	ErrInvalidState = errors.New("not allowed right now")
	// ErrNotConnected means no contract handle has been bound yet
	ErrNotConnected = errors.New("wallet not connected")
	// ErrNoAuthorizedAccount means silent discovery found nothing
	ErrNoAuthorizedAccount = errors.New("no authorized account")
)

// Notice texts shown to the user
const (
	NoticeNoWallet    = "Make sure you have a wallet configured!"
	NoticeNoAccount   = "No authorized account found. Please connect your wallet account."
	NoticeGetWallet   = "Get a wallet!"
	NoticeRejected    = "Wallet access was not granted."
	NoticeBusy        = "Hold on, a wave is still being mined."
	NoticeConnected   = "Wallet already connected."
	NoticeNotReady    = "Connect your wallet first."
	noticeWaveSent    = "Wave mined in %s"
	noticeWaveFailed  = "Wave failed: %v"
	noticeReadFailed  = "Could not read waves: %v"
	noticeBindFailed  = "Could not bind contract: %v"
	noticeStaleResult = "Wave mined but the count could not be refreshed: %v"
)

// Contract is the part of the portal binding the flow uses
type Contract interface {
	Address() common.Address
	HasHistory() bool
	TakesMessage() bool
	ReadTotalWaves(ctx context.Context) (uint64, error)
	ReadAllWaves(ctx context.Context) ([]portal.WaveRecord, error)
	SubmitWave(ctx context.Context, message string) (Transaction, error)
}

// Transaction is a sent wave awaiting confirmation
type Transaction interface {
	Hash() common.Hash
	AwaitConfirmation(ctx context.Context) (*types.Receipt, error)
}

// FromHandle adapts a portal handle to Contract
func FromHandle(h *portal.Handle) Contract {
	return handleContract{h}
}

type handleContract struct {
	*portal.Handle
}

func (c handleContract) SubmitWave(ctx context.Context, message string) (Transaction, error) {
	p, err := c.Handle.SubmitWave(ctx, message)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Binder creates the contract handle for an account
type Binder func(ctx context.Context, account common.Address) (Contract, error)

// HandleBinder binds the portal at address with the account's signing
// identity from the wallet.
func HandleBinder(accessor *wallet.Accessor, backend portal.Backend, chainID *big.Int, address common.Address, parsed abi.ABI, opts portal.Options) Binder {
	return func(ctx context.Context, account common.Address) (Contract, error) {
		signer, err := accessor.SigningIdentity(ctx, account, chainID)
		if err != nil {
			return nil, err
		}
		h, err := portal.Bind(address, parsed, signer, backend, opts)
		if err != nil {
			return nil, err
		}
		return FromHandle(h), nil
	}
}

// Flow runs the user intents against the wallet and the contract
type Flow struct {
	store  *Store
	wallet *wallet.Accessor
	bind   Binder
	notify notify.Sink
	log    *log.Logger
}

// NewFlow wires a flow. A nil logger discards logs.
func NewFlow(store *Store, accessor *wallet.Accessor, binder Binder, sink notify.Sink, logger *log.Logger) *Flow {
	if store == nil {
		store = NewStore()
	}
	if accessor == nil {
		accessor = wallet.NewAccessor(nil)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Flow{store: store, wallet: accessor, bind: binder, notify: sink, log: logger}
}

// Store is the state the flow writes to
func (f *Flow) Store() *Store { return f.store }

// State returns the current snapshot
func (f *Flow) State() State { return f.store.Snapshot() }

// SetMessage updates the pending wave message
func (f *Flow) SetMessage(text string) {
	f.store.Update(func(s *State) { s.Message = text })
}

// Discover looks for an already-authorized account without prompting, and
// connects with the first one found.
func (f *Flow) Discover(ctx context.Context) error {
	if _, ok := f.wallet.Detect(); !ok {
		f.notify.Error(NoticeNoWallet)
		return wallet.ErrProviderUnavailable
	}
	f.log.Debug("Wallet detected")

	accounts, err := f.wallet.ListAuthorized(ctx)
	if err != nil {
		f.log.Error("Account discovery failed", "err", err)
		return err
	}
	if len(accounts) == 0 {
		f.notify.Error(NoticeNoAccount)
		return ErrNoAuthorizedAccount
	}

	f.log.Info("Found an authorized account", "account", accounts[0].Hex())
	return f.establish(ctx, accounts[0])
}

// Connect asks the wallet for access and connects with the first granted
// account. It is only valid while disconnected.
func (f *Flow) Connect(ctx context.Context) error {
	if _, ok := f.wallet.Detect(); !ok {
		f.notify.Alert(NoticeGetWallet)
		return wallet.ErrProviderUnavailable
	}
	if !f.store.transition(Disconnected, Connecting, nil) {
		f.notify.Info(NoticeConnected)
		return ErrInvalidState
	}

	accounts, err := f.wallet.RequestAccess(ctx)
	if err != nil {
		f.store.transition(Connecting, Disconnected, nil)
		f.log.Warn("Wallet access failed", "err", err)
		switch {
		case errors.Is(err, wallet.ErrProviderUnavailable):
			f.notify.Alert(NoticeGetWallet)
		case errors.Is(err, wallet.ErrUserRejected):
			f.notify.Info(NoticeRejected)
		default:
			f.notify.Error(err.Error())
		}
		return err
	}

	f.log.Info("Connected", "account", accounts[0].Hex())
	return f.establish(ctx, accounts[0])
}

// establish binds the contract for account and runs the initial reads. A
// handle is bound at most once per session.
func (f *Flow) establish(ctx context.Context, account common.Address) error {
	if f.store.HandleReady() {
		f.store.transition(Connecting, Idle, nil)
		return nil
	}

	h, err := f.bind(ctx, account)
	if err != nil {
		f.store.transition(Connecting, Disconnected, nil)
		f.log.Error("Bind failed", "err", err)
		f.notify.Error(fmt.Sprintf(noticeBindFailed, err))
		return fmt.Errorf("bind contract: %w", err)
	}
	if !f.store.bindOnce(account, h, h.Address()) {
		// another intent bound first
		f.store.transition(Connecting, Idle, nil)
		return nil
	}
	f.log.Info("Contract bound", "address", h.Address().Hex(), "history", h.HasHistory())

	return f.readAll(ctx)
}

// readAll reads the counter and, if the contract keeps one, the history
func (f *Flow) readAll(ctx context.Context) error {
	if !f.store.HandleReady() {
		return nil
	}
	gen := f.store.beginRead()
	total, waves, err := f.read(ctx, f.store.Handle())
	if err != nil {
		f.log.Error("Read failed", "err", err)
		f.notify.Error(fmt.Sprintf(noticeReadFailed, err))
		return err
	}
	applied := f.store.commitRead(gen, func(s *State) {
		s.TotalWaves = total
		s.CountKnown = true
		s.Stale = false
		if s.HasHistory {
			s.Waves = waves
		}
	})
	if !applied {
		f.log.Debug("Dropped a read that started before the last wave was mined", "total", total)
		return nil
	}
	f.log.Info("Retrieved total wave count", "total", total)
	return nil
}

func (f *Flow) read(ctx context.Context, h Contract) (uint64, []portal.WaveRecord, error) {
	total, err := h.ReadTotalWaves(ctx)
	if err != nil {
		return 0, nil, err
	}
	if !h.HasHistory() {
		return total, nil, nil
	}
	waves, err := h.ReadAllWaves(ctx)
	if err != nil {
		return 0, nil, err
	}
	return total, waves, nil
}

// Refresh re-reads the contract. It is only valid while idle.
func (f *Flow) Refresh(ctx context.Context) error {
	if !f.store.HandleReady() {
		f.notify.Info(NoticeNotReady)
		return ErrNotConnected
	}
	if st := f.store.Snapshot(); st.Phase != Idle {
		f.notify.Info(NoticeBusy)
		return ErrInvalidState
	}
	return f.readAll(ctx)
}

// SubmitWave sends the pending message as a wave, waits for it to be
// mined and then re-reads the counter once. The loading flag is set for
// the whole duration and always cleared at the end.
func (f *Flow) SubmitWave(ctx context.Context) error {
	h := f.store.Handle()
	if h == nil {
		f.notify.Info(NoticeNotReady)
		return ErrNotConnected
	}

	var message string
	ok := f.store.transition(Idle, Submitting, func(s *State) {
		message = s.Message
		s.Loading = true
		s.LastError = ""
	})
	if !ok {
		f.notify.Info(NoticeBusy)
		return ErrInvalidState
	}
	defer f.store.Update(func(s *State) {
		s.Loading = false
		s.Phase = Idle
	})

	tx, err := h.SubmitWave(ctx, message)
	if err != nil {
		return f.submitFailed(err)
	}
	f.log.Info("Mining", "tx", tx.Hash().Hex())
	f.store.Update(func(s *State) { s.LastTx = tx.Hash() })

	if _, err := tx.AwaitConfirmation(ctx); err != nil {
		return f.submitFailed(err)
	}
	f.log.Info("Mined", "tx", tx.Hash().Hex())
	f.store.invalidateReads()

	total, waves, err := f.read(ctx, h)
	if err != nil {
		f.log.Error("Refresh after wave failed", "err", err)
		f.store.Update(func(s *State) {
			s.Message = ""
			s.Stale = true
		})
		f.notify.Error(fmt.Sprintf(noticeStaleResult, err))
		return err
	}
	f.store.Update(func(s *State) {
		s.TotalWaves = total
		s.CountKnown = true
		s.Stale = false
		if s.HasHistory {
			s.Waves = waves
		}
		s.Message = ""
	})
	f.log.Info("Retrieved total wave count", "total", total)
	f.notify.Info(fmt.Sprintf(noticeWaveSent, tx.Hash().Hex()))
	return nil
}

func (f *Flow) submitFailed(err error) error {
	f.log.Error("Wave failed", "err", err)
	f.store.Update(func(s *State) { s.LastError = err.Error() })
	if errors.Is(err, wallet.ErrUserRejected) {
		f.notify.Info(fmt.Sprintf(noticeWaveFailed, err))
	} else {
		f.notify.Error(fmt.Sprintf(noticeWaveFailed, err))
	}
	return err
}
