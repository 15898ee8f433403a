// Package portal binds the WavePortal contract: reading the wave counter and
// history, and sending wave transactions signed by the connected wallet.
package portal

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"time"

	"waveportal-tui/config"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrReverted means the wave transaction was mined but failed
	ErrReverted = errors.New("transaction reverted")
	// ErrNoHistory means the contract does not expose getAllWaves
	ErrNoHistory = errors.New("contract has no wave history")
	// ErrReadOnly means the handle was bound without a signer
	ErrReadOnly = errors.New("contract bound without a signer")
)

// Backend is what a handle needs from the chain
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// WaveRecord is one entry of the contract's wave history
type WaveRecord struct {
	Waver     common.Address
	Timestamp time.Time
	Message   string
}

// Options tune how contract data is decoded
type Options struct {
	// TimestampUnit is config.UnitSeconds (default) or config.UnitMilliseconds
	TimestampUnit string
}

// Handle is the contract bound to an address, an ABI and a signing identity.
// It is immutable once created.
type Handle struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	signer   *bind.TransactOpts
	backend  Backend
	opts     Options
}

// Bind creates a handle. It makes no network calls. A nil signer gives a
// read-only handle.
func Bind(address common.Address, parsed abi.ABI, signer *bind.TransactOpts, backend Backend, opts Options) (*Handle, error) {
	if backend == nil {
		return nil, fmt.Errorf("bind %s: no chain backend", address.Hex())
	}
	if _, ok := parsed.Methods[methodTotal]; !ok {
		return nil, fmt.Errorf("bind %s: abi has no %s method", address.Hex(), methodTotal)
	}
	return &Handle{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		signer:   signer,
		backend:  backend,
		opts:     opts,
	}, nil
}

// Address is the contract address
func (h *Handle) Address() common.Address { return h.address }

// From is the signing account, or the zero address for a read-only handle
func (h *Handle) From() common.Address {
	if h.signer == nil {
		return common.Address{}
	}
	return h.signer.From
}

// HasHistory reports whether the contract exposes getAllWaves
func (h *Handle) HasHistory() bool {
	_, ok := h.abi.Methods[methodHistory]
	return ok
}

// TakesMessage reports whether wave() accepts a message
func (h *Handle) TakesMessage() bool {
	m, ok := h.abi.Methods[methodWave]
	return ok && len(m.Inputs) > 0
}

func (h *Handle) callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx, From: h.From()}
}

// ReadTotalWaves returns the on-chain wave counter
func (h *Handle) ReadTotalWaves(ctx context.Context) (uint64, error) {
	var out []interface{}
	if err := h.contract.Call(h.callOpts(ctx), &out, methodTotal); err != nil {
		return 0, fmt.Errorf("call %s: %w", methodTotal, err)
	}
	if len(out) == 0 {
		return 0, fmt.Errorf("call %s: empty result", methodTotal)
	}
	total, ok := out[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("call %s: unexpected result type %T", methodTotal, out[0])
	}
	if !total.IsUint64() {
		return 0, fmt.Errorf("call %s: counter %s out of range", methodTotal, total)
	}
	return total.Uint64(), nil
}

// ReadAllWaves returns the full wave history in contract order
func (h *Handle) ReadAllWaves(ctx context.Context) ([]WaveRecord, error) {
	method, ok := h.abi.Methods[methodHistory]
	if !ok {
		return nil, ErrNoHistory
	}

	var out []interface{}
	if err := h.contract.Call(h.callOpts(ctx), &out, methodHistory); err != nil {
		return nil, fmt.Errorf("call %s: %w", methodHistory, err)
	}
	if len(out) == 0 || len(method.Outputs) == 0 {
		return nil, fmt.Errorf("call %s: empty result", methodHistory)
	}

	fields, err := recordFields(method.Outputs[0].Type)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", methodHistory, err)
	}
	return h.decodeRecords(out[0], fields)
}

// SubmitWave sends a wave transaction. The message is only passed when the
// contract's wave() takes one.
func (h *Handle) SubmitWave(ctx context.Context, message string) (*Pending, error) {
	if h.signer == nil {
		return nil, ErrReadOnly
	}
	opts := *h.signer
	opts.Context = ctx

	var args []interface{}
	if h.TakesMessage() {
		args = append(args, message)
	}
	tx, err := h.contract.Transact(&opts, methodWave, args...)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", methodWave, err)
	}
	return &Pending{tx: tx, backend: h.backend}, nil
}

// Pending is a sent wave transaction
type Pending struct {
	tx      *types.Transaction
	backend bind.DeployBackend
}

// Hash is the transaction hash
func (p *Pending) Hash() common.Hash { return p.tx.Hash() }

// AwaitConfirmation blocks until the transaction is mined or ctx ends
func (p *Pending) AwaitConfirmation(ctx context.Context) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, p.backend, p.tx)
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", p.tx.Hash().Hex(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("%w: %s in block %s", ErrReverted, p.tx.Hash().Hex(), receipt.BlockNumber)
	}
	return receipt, nil
}

// tupleFields holds the positions of the record parts in the history
// tuple. -1 means the tuple lacks that part.
type tupleFields struct {
	waver, timestamp, message int
}

func recordFields(t abi.Type) (tupleFields, error) {
	if t.T != abi.SliceTy && t.T != abi.ArrayTy {
		return tupleFields{}, fmt.Errorf("history is %s, want a tuple list", t.String())
	}
	elem := t.Elem
	if elem == nil || elem.T != abi.TupleTy {
		return tupleFields{}, fmt.Errorf("history element is not a tuple")
	}

	f := tupleFields{waver: -1, timestamp: -1, message: -1}
	for i, raw := range elem.TupleRawNames {
		name := strings.ToLower(strings.TrimLeft(raw, "_"))
		kind := elem.TupleElems[i].T
		switch {
		case kind == abi.AddressTy && f.waver < 0 && (name == "waver" || name == "from" || name == "sender"):
			f.waver = i
		case kind == abi.UintTy && f.timestamp < 0 && (name == "timestamp" || name == "time"):
			f.timestamp = i
		case kind == abi.StringTy && f.message < 0 && (name == "message" || name == "text"):
			f.message = i
		}
	}
	if f.waver < 0 {
		return tupleFields{}, fmt.Errorf("history tuple has no waver address")
	}
	return f, nil
}

// decodeRecords reads the decoded tuples by field position. The abi
// decoder emits one struct field per tuple element, in order.
func (h *Handle) decodeRecords(v interface{}, f tupleFields) ([]WaveRecord, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("history decoded as %T", v)
	}

	records := make([]WaveRecord, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem := reflect.Indirect(rv.Index(i))
		if elem.Kind() != reflect.Struct {
			return nil, fmt.Errorf("history entry %d decoded as %s", i, elem.Kind())
		}
		field := func(idx int) (reflect.Value, bool) {
			if idx < 0 || idx >= elem.NumField() {
				return reflect.Value{}, false
			}
			return elem.Field(idx), true
		}

		var rec WaveRecord
		if fv, ok := field(f.waver); ok {
			rec.Waver, _ = fv.Interface().(common.Address)
		}
		if fv, ok := field(f.timestamp); ok {
			if ts := uintValue(fv); ts != nil {
				rec.Timestamp = h.toTime(ts)
			}
		}
		if fv, ok := field(f.message); ok {
			rec.Message, _ = fv.Interface().(string)
		}
		records = append(records, rec)
	}
	return records, nil
}

// uintValue widens a decoded uintN to a big.Int. The abi decoder uses
// uint8 to uint64 for narrow types and *big.Int above that.
func uintValue(v reflect.Value) *big.Int {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(v.Uint())
	}
	if b, ok := v.Interface().(*big.Int); ok {
		return b
	}
	return nil
}

func (h *Handle) toTime(ts *big.Int) time.Time {
	if !ts.IsInt64() {
		return time.Time{}
	}
	if h.opts.TimestampUnit == config.UnitMilliseconds {
		return time.UnixMilli(ts.Int64()).UTC()
	}
	return time.Unix(ts.Int64(), 0).UTC()
}
