package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShortenAddr(t *testing.T) {
	assert.Equal(t, "0x5FbD…0aa3", ShortenAddr("0x5FbDB2315678afecb367f032d93F642f64180aa3"))
	assert.Equal(t, "0x12", ShortenAddr("0x12"))
}

func TestIsValidEthAddress(t *testing.T) {
	assert.True(t, IsValidEthAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"))
	assert.False(t, IsValidEthAddress("5FbDB2315678afecb367f032d93F642f64180aa3"))
	assert.False(t, IsValidEthAddress("0x5FbD"))
}

func TestIsValidRPCURL(t *testing.T) {
	for _, ok := range []string{"https://rpc.sepolia.org", "ws://localhost:8546", "/home/me/.ethereum/geth.ipc"} {
		assert.True(t, IsValidRPCURL(ok), ok)
	}
	for _, bad := range []string{"", "https://", "rpc.sepolia.org"} {
		assert.False(t, IsValidRPCURL(bad), bad)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "just now", TimeAgo(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", TimeAgo(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", TimeAgo(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2d ago", TimeAgo(now.Add(-49*time.Hour), now))
	assert.Empty(t, TimeAgo(time.Time{}, now))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 5))
	assert.Equal(t, "hel…", Truncate("hello", 4))
	assert.Equal(t, "wa…", Truncate("wave👋👋", 3))
	assert.Empty(t, Truncate("hello", 0))
}

func TestFadeString(t *testing.T) {
	assert.Empty(t, FadeString("", "#F25D94", "#EDFF82"))
	out := FadeString("wave", "#F25D94", "#EDFF82")
	for _, r := range "wave" {
		assert.True(t, strings.ContainsRune(out, r))
	}
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, 3, Max(1, 3))
	assert.Equal(t, 1, Min(1, 3))
}
