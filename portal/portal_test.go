package portal

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"waveportal-tui/config"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var portalAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

// fakeBackend answers eth_call from canned, abi-encoded results.
// Methods it does not override panic through the nil embedded interface.
type fakeBackend struct {
	bind.ContractBackend

	results map[string][]byte // by hex selector
	callErr error
	receipt *types.Receipt
	calls   int
}

func (f *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	f.calls++
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.results[common.Bytes2Hex(msg.Data[:4])], nil
}

func (f *fakeBackend) CodeAt(ctx context.Context, account common.Address, block *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if f.receipt == nil {
		return nil, ethereum.NotFound
	}
	return f.receipt, nil
}

func (f *fakeBackend) answer(t *testing.T, parsed abi.ABI, method string, values ...interface{}) {
	t.Helper()
	m := parsed.Methods[method]
	out, err := m.Outputs.Pack(values...)
	require.NoError(t, err)
	if f.results == nil {
		f.results = make(map[string][]byte)
	}
	f.results[common.Bytes2Hex(m.ID)] = out
}

type rawWave struct {
	Waver     common.Address
	Message   string
	Timestamp *big.Int
}

func mustABI(t *testing.T, raw string) abi.ABI {
	t.Helper()
	parsed, err := ParseABI(raw)
	require.NoError(t, err)
	return parsed
}

func TestReadTotalWaves(t *testing.T) {
	parsed := mustABI(t, MessageABI)
	fb := &fakeBackend{}
	fb.answer(t, parsed, methodTotal, big.NewInt(3))

	h, err := Bind(portalAddr, parsed, nil, fb, Options{})
	require.NoError(t, err)

	total, err := h.ReadTotalWaves(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
	assert.Equal(t, 1, fb.calls)
}

func TestReadTotalWavesError(t *testing.T) {
	parsed := mustABI(t, MessageABI)
	fb := &fakeBackend{callErr: errors.New("node down")}

	h, err := Bind(portalAddr, parsed, nil, fb, Options{})
	require.NoError(t, err)

	_, err = h.ReadTotalWaves(context.Background())
	assert.ErrorContains(t, err, "node down")
}

func TestReadAllWaves(t *testing.T) {
	parsed := mustABI(t, MessageABI)
	alice := common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob := common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	fb := &fakeBackend{}
	fb.answer(t, parsed, methodHistory, []rawWave{
		{Waver: alice, Message: "gm", Timestamp: big.NewInt(1_700_000_000)},
		{Waver: bob, Message: "hi there", Timestamp: big.NewInt(1_700_000_060)},
	})

	h, err := Bind(portalAddr, parsed, nil, fb, Options{})
	require.NoError(t, err)
	require.True(t, h.HasHistory())
	require.True(t, h.TakesMessage())

	waves, err := h.ReadAllWaves(context.Background())
	require.NoError(t, err)
	require.Len(t, waves, 2)

	assert.Equal(t, alice, waves[0].Waver)
	assert.Equal(t, "gm", waves[0].Message)
	assert.Equal(t, time.Unix(1_700_000_000, 0).UTC(), waves[0].Timestamp)
	assert.Equal(t, bob, waves[1].Waver)
	assert.Equal(t, "hi there", waves[1].Message)
}

func TestReadAllWavesMilliseconds(t *testing.T) {
	parsed := mustABI(t, MessageABI)
	fb := &fakeBackend{}
	fb.answer(t, parsed, methodHistory, []rawWave{
		{Waver: portalAddr, Message: "", Timestamp: big.NewInt(1_700_000_000_123)},
	})

	h, err := Bind(portalAddr, parsed, nil, fb, Options{TimestampUnit: config.UnitMilliseconds})
	require.NoError(t, err)

	waves, err := h.ReadAllWaves(context.Background())
	require.NoError(t, err)
	require.Len(t, waves, 1)
	assert.Equal(t, time.UnixMilli(1_700_000_000_123).UTC(), waves[0].Timestamp)
}

func TestReadAllWavesWithoutMessageField(t *testing.T) {
	const noMessage = `[
		{"inputs": [], "name": "getTotalWaves", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "wave", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
		{"inputs": [], "name": "getAllWaves", "outputs": [{"components": [
			{"name": "waver", "type": "address"},
			{"name": "timestamp", "type": "uint256"}
		], "name": "", "type": "tuple[]"}], "stateMutability": "view", "type": "function"}
	]`
	parsed := mustABI(t, noMessage)

	type bareWave struct {
		Waver     common.Address
		Timestamp *big.Int
	}
	fb := &fakeBackend{}
	fb.answer(t, parsed, methodHistory, []bareWave{{Waver: portalAddr, Timestamp: big.NewInt(10)}})

	h, err := Bind(portalAddr, parsed, nil, fb, Options{})
	require.NoError(t, err)
	assert.False(t, h.TakesMessage())

	waves, err := h.ReadAllWaves(context.Background())
	require.NoError(t, err)
	require.Len(t, waves, 1)
	assert.Equal(t, portalAddr, waves[0].Waver)
	assert.Empty(t, waves[0].Message)
}

func TestReadAllWavesNarrowTimestamp(t *testing.T) {
	const narrow = `[
		{"inputs": [], "name": "getTotalWaves", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "wave", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
		{"inputs": [], "name": "getAllWaves", "outputs": [{"components": [
			{"name": "waver", "type": "address"},
			{"name": "timestamp", "type": "uint64"}
		], "name": "", "type": "tuple[]"}], "stateMutability": "view", "type": "function"}
	]`
	parsed := mustABI(t, narrow)

	type narrowWave struct {
		Waver     common.Address
		Timestamp uint64
	}
	fb := &fakeBackend{}
	fb.answer(t, parsed, methodHistory, []narrowWave{{Waver: portalAddr, Timestamp: 1_700_000_000}})

	h, err := Bind(portalAddr, parsed, nil, fb, Options{})
	require.NoError(t, err)

	waves, err := h.ReadAllWaves(context.Background())
	require.NoError(t, err)
	require.Len(t, waves, 1)
	assert.Equal(t, time.Unix(1_700_000_000, 0).UTC(), waves[0].Timestamp)
}

func TestReadAllWavesConflictingNames(t *testing.T) {
	const clash = `[
		{"inputs": [], "name": "getTotalWaves", "outputs": [{"name": "", "type": "uint256"}], "stateMutability": "view", "type": "function"},
		{"inputs": [], "name": "wave", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
		{"inputs": [], "name": "getAllWaves", "outputs": [{"components": [
			{"name": "waver", "type": "address"},
			{"name": "Waver", "type": "address"},
			{"name": "timestamp", "type": "uint256"}
		], "name": "", "type": "tuple[]"}], "stateMutability": "view", "type": "function"}
	]`
	parsed := mustABI(t, clash)

	other := common.HexToAddress("0x00000000000000000000000000000000000000cc")
	type clashWave struct {
		First     common.Address `abi:"waver"`
		Second    common.Address `abi:"Waver"`
		Timestamp *big.Int       `abi:"timestamp"`
	}
	fb := &fakeBackend{}
	fb.answer(t, parsed, methodHistory, []clashWave{{First: portalAddr, Second: other, Timestamp: big.NewInt(10)}})

	h, err := Bind(portalAddr, parsed, nil, fb, Options{})
	require.NoError(t, err)

	waves, err := h.ReadAllWaves(context.Background())
	require.NoError(t, err)
	require.Len(t, waves, 1)
	assert.Equal(t, portalAddr, waves[0].Waver)
	assert.Equal(t, time.Unix(10, 0).UTC(), waves[0].Timestamp)
}

func TestPlainVariant(t *testing.T) {
	parsed := mustABI(t, PlainABI)
	h, err := Bind(portalAddr, parsed, nil, &fakeBackend{}, Options{})
	require.NoError(t, err)

	assert.False(t, h.HasHistory())
	assert.False(t, h.TakesMessage())

	_, err = h.ReadAllWaves(context.Background())
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestSubmitWaveReadOnly(t *testing.T) {
	h, err := Bind(portalAddr, mustABI(t, MessageABI), nil, &fakeBackend{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, h.From())

	_, err = h.SubmitWave(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestBindRequiresBackend(t *testing.T) {
	_, err := Bind(portalAddr, mustABI(t, MessageABI), nil, nil, Options{})
	assert.Error(t, err)
}

func TestAwaitConfirmation(t *testing.T) {
	tx := types.NewTx(&types.LegacyTx{Nonce: 7, Gas: 50000, GasPrice: big.NewInt(1)})

	t.Run("mined", func(t *testing.T) {
		fb := &fakeBackend{receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(12)}}
		p := &Pending{tx: tx, backend: fb}

		receipt, err := p.AwaitConfirmation(context.Background())
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(12), receipt.BlockNumber)
		assert.Equal(t, tx.Hash(), p.Hash())
	})

	t.Run("reverted", func(t *testing.T) {
		fb := &fakeBackend{receipt: &types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(12)}}
		p := &Pending{tx: tx, backend: fb}

		_, err := p.AwaitConfirmation(context.Background())
		assert.ErrorIs(t, err, ErrReverted)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := &Pending{tx: tx, backend: &fakeBackend{}}

		_, err := p.AwaitConfirmation(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestParseABIRequiresMethods(t *testing.T) {
	_, err := ParseABI(`[{"inputs": [], "name": "getTotalWaves", "outputs": [{"name": "", "type": "uint256"}], "type": "function"}]`)
	assert.ErrorContains(t, err, "wave")

	_, err = ParseABI("not json")
	assert.Error(t, err)
}

func TestLoadABI(t *testing.T) {
	dir := t.TempDir()

	bare := filepath.Join(dir, "WavePortal.abi")
	require.NoError(t, os.WriteFile(bare, []byte(MessageABI), 0600))
	parsed, err := LoadABI(bare)
	require.NoError(t, err)
	assert.Contains(t, parsed.Methods, methodHistory)

	art := filepath.Join(dir, "WavePortal.json")
	require.NoError(t, os.WriteFile(art, []byte(`{"contractName": "WavePortal", "abi": `+PlainABI+`}`), 0600))
	parsed, err = LoadABI(art)
	require.NoError(t, err)
	assert.NotContains(t, parsed.Methods, methodHistory)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"contractName": "x"}`), 0600))
	_, err = LoadABI(empty)
	assert.Error(t, err)
}

func TestABIFor(t *testing.T) {
	parsed, err := ABIFor(config.Contract{})
	require.NoError(t, err)
	assert.Contains(t, parsed.Methods, methodHistory)

	parsed, err = ABIFor(config.Contract{Variant: config.VariantPlain})
	require.NoError(t, err)
	assert.NotContains(t, parsed.Methods, methodHistory)

	_, err = ABIFor(config.Contract{Variant: "nope"})
	assert.Error(t, err)
}
