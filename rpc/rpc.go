package rpc

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/mdp/qrterminal/v3"
)

// ErrNoContract means nothing is deployed at the configured address
var ErrNoContract = errors.New("no contract code at address")

// Client wraps an Ethereum RPC client together with the chain id it
// reported at connect time
type Client struct {
	*ethclient.Client
	URL   string
	Chain *big.Int
}

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Client *Client
	Error  error
}

// Connect attempts to connect to an Ethereum RPC endpoint
func Connect(url string) ConnectResult {
	return ConnectWithTimeout(url, 8*time.Second)
}

// ConnectWithTimeout dials url and asks for the chain id, which signing
// needs. Both must succeed within timeout.
func ConnectWithTimeout(url string, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return ConnectResult{Error: fmt.Errorf("dial %s: %w", url, err)}
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return ConnectResult{Error: fmt.Errorf("chain id from %s: %w", url, err)}
	}

	return ConnectResult{
		Client: &Client{
			Client: client,
			URL:    url,
			Chain:  chainID,
		},
	}
}

// ChainStatus is what the header shows about the endpoint
type ChainStatus struct {
	ChainID    *big.Int
	Block      uint64
	HasCode    bool
	LoadedAt   time.Time
	ErrMessage string
}

// LoadChainStatus reads the latest block and checks that the contract is
// deployed.
func LoadChainStatus(client *Client, contract common.Address) ChainStatus {
	return LoadChainStatusWithTimeout(client, contract, 12*time.Second)
}

// LoadChainStatusWithTimeout is LoadChainStatus with a custom timeout
func LoadChainStatusWithTimeout(client *Client, contract common.Address, timeout time.Duration) ChainStatus {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s := ChainStatus{LoadedAt: time.Now()}
	if client == nil || client.Client == nil {
		s.ErrMessage = "No RPC client (set ETH_RPC_URL)."
		return s
	}
	s.ChainID = client.Chain

	block, err := client.BlockNumber(ctx)
	if err != nil {
		s.ErrMessage = "Failed to load latest block."
		return s
	}
	s.Block = block

	code, err := client.CodeAt(ctx, contract, nil)
	if err != nil {
		s.ErrMessage = "Failed to load contract code."
		return s
	}
	s.HasCode = len(code) > 0
	if !s.HasCode {
		s.ErrMessage = ErrNoContract.Error()
	}
	return s
}

// ShareURI is the EIP-681 link to the portal contract on a chain
func ShareURI(contract common.Address, chainID *big.Int) string {
	var b strings.Builder
	b.WriteString("ethereum:")
	b.WriteString(contract.Hex())
	if chainID != nil && chainID.Sign() > 0 {
		b.WriteString("@")
		b.WriteString(chainID.String())
	}
	return b.String()
}

// GenerateQRCode renders text as a half-block terminal QR code
func GenerateQRCode(text string) string {
	var b strings.Builder
	qrterminal.GenerateHalfBlock(text, qrterminal.L, &b)
	return b.String()
}
