package details

import (
	"fmt"
	"math/big"
	"strings"

	"waveportal-tui/helpers"
	"waveportal-tui/rpc"
	"waveportal-tui/styles"
	"waveportal-tui/wave"

	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
)

// Nav returns the navigation bar for details view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("y") + " copy account",
		styles.Key("t") + " copy tx",
		styles.Key("r") + " refresh",
		styles.Key("l") + " logger",
		styles.Key("Esc") + " back",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// explorers by chain id
var explorers = map[int64]string{
	1:        "https://etherscan.io",
	11155111: "https://sepolia.etherscan.io",
	17000:    "https://holesky.etherscan.io",
}

// ExplorerURL links to an address or tx on the chain's block explorer, or
// returns "" for chains without a known explorer.
func ExplorerURL(chainID *big.Int, kind, id string) string {
	if chainID == nil || !chainID.IsInt64() {
		return ""
	}
	base, ok := explorers[chainID.Int64()]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", base, kind, id)
}

// hyperlink wraps text in an OSC 8 terminal hyperlink
func hyperlink(url, text string) string {
	if url == "" {
		return text
	}
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, text)
}

// Render renders the account, chain and selected wave details
func Render(st wave.State, selected *wave.WaveRecord, chain rpc.ChainStatus, loading bool, copiedMsg, spinnerView string) string {
	h := styles.TitleStyle.Render("Account & Chain")
	addrStyle := lipgloss.NewStyle().Foreground(styles.CMuted).Underline(true)

	var sub string
	if st.Connected() {
		sub = hyperlink(ExplorerURL(chain.ChainID, "address", st.Account.Hex()), addrStyle.Render(st.Account.Hex()))
	} else {
		sub = styles.MutedStyle.Render("No wallet connected")
	}
	if copiedMsg != "" {
		sub += "  " + lipgloss.NewStyle().Foreground(styles.CAccent).Render(copiedMsg)
	}

	lines := []string{h, sub, ""}

	if loading {
		lines = append(lines, spinnerView+" fetching chain status…")
	} else if chain.ErrMessage != "" {
		lines = append(lines,
			lipgloss.NewStyle().Foreground(styles.CWarn).Render("⚠ "+chain.ErrMessage),
			styles.MutedStyle.Render("Tip: set ")+lipgloss.NewStyle().Foreground(styles.CAccent).Render("ETH_RPC_URL")+
				styles.MutedStyle.Render(" then press ")+styles.Key("r")+styles.MutedStyle.Render(" to refresh."),
		)
	} else if chain.ChainID != nil {
		lines = append(lines,
			row("chain", chain.ChainID.String()),
			row("block", fmt.Sprintf("%d", chain.Block)),
			row("loaded", helpers.LoadedAt(chain.LoadedAt, false)),
		)
	}

	if st.Contract != (common.Address{}) {
		lines = append(lines, "", row("contract", hyperlink(ExplorerURL(chain.ChainID, "address", st.Contract.Hex()), st.Contract.Hex())))
	}
	if st.LastTx != (common.Hash{}) {
		lines = append(lines, row("last wave tx", hyperlink(ExplorerURL(chain.ChainID, "tx", st.LastTx.Hex()), st.LastTx.Hex())))
	}
	if st.LastError != "" {
		lines = append(lines, row("last error", lipgloss.NewStyle().Foreground(styles.CError).Render(st.LastError)))
	}

	if selected != nil {
		lines = append(lines, "", styles.TitleStyle.Render("Wave"),
			row("from", selected.Waver.Hex()),
			row("at", helpers.FormatWaveTime(selected.Timestamp)),
		)
		if selected.Message != "" {
			lines = append(lines, row("message", selected.Message))
		}
	}

	return strings.Join(lines, "\n")
}

func row(name, value string) string {
	return fmt.Sprintf("%s  %s",
		lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render(fmt.Sprintf("%-12s", name)),
		lipgloss.NewStyle().Foreground(styles.CText).Render(value),
	)
}
