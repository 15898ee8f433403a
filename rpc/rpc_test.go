package rpc

import (
	"context"
	"math/big"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var portalAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

func TestConnect(t *testing.T) {
	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		t.Skip("ETH_RPC_URL not set, skipping connection test")
	}

	t.Run("successful connection", func(t *testing.T) {
		result := Connect(rpcURL)
		if result.Error != nil {
			t.Fatalf("Failed to connect to RPC: %v", result.Error)
		}
		if result.Client == nil {
			t.Fatal("Client is nil despite no error")
		}
		if result.Client.URL != rpcURL {
			t.Errorf("Expected URL %s, got %s", rpcURL, result.Client.URL)
		}
		if result.Client.Chain == nil || result.Client.Chain.Sign() <= 0 {
			t.Errorf("Expected a chain id, got %v", result.Client.Chain)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		block, err := result.Client.BlockNumber(ctx)
		if err != nil {
			t.Errorf("Failed to get block number: %v", err)
		} else {
			t.Logf("Connected to chain %s at block %d", result.Client.Chain, block)
		}
	})

	t.Run("chain status", func(t *testing.T) {
		result := ConnectWithTimeout(rpcURL, 10*time.Second)
		if result.Error != nil {
			t.Fatalf("Failed to connect with custom timeout: %v", result.Error)
		}
		status := LoadChainStatus(result.Client, portalAddr)
		if status.LoadedAt.IsZero() {
			t.Error("LoadedAt timestamp is zero")
		}
		t.Logf("block %d, code present: %v, err: %q", status.Block, status.HasCode, status.ErrMessage)
	})
}

func TestConnectInvalidURL(t *testing.T) {
	result := ConnectWithTimeout("not-a-valid-url", time.Second)
	if result.Error == nil {
		t.Fatal("Expected an error for a malformed URL")
	}
	if result.Client != nil {
		t.Error("Expected no client on error")
	}
}

func TestLoadChainStatusNilClient(t *testing.T) {
	status := LoadChainStatus(nil, portalAddr)
	if !strings.Contains(status.ErrMessage, "No RPC client") {
		t.Errorf("Expected 'No RPC client' error, got: %s", status.ErrMessage)
	}
}

func TestShareURI(t *testing.T) {
	tests := []struct {
		name    string
		chainID *big.Int
		want    string
	}{
		{"sepolia", big.NewInt(11155111), "ethereum:" + portalAddr.Hex() + "@11155111"},
		{"no chain", nil, "ethereum:" + portalAddr.Hex()},
		{"zero chain", big.NewInt(0), "ethereum:" + portalAddr.Hex()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShareURI(portalAddr, tt.chainID); got != tt.want {
				t.Errorf("ShareURI() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGenerateQRCode(t *testing.T) {
	qr := GenerateQRCode(ShareURI(portalAddr, big.NewInt(1)))
	lines := strings.Split(strings.TrimRight(qr, "\n"), "\n")
	if len(lines) < 10 {
		t.Fatalf("Expected a multi-line QR code, got %d lines", len(lines))
	}
}
