package settings

import (
	"errors"
	"strings"

	"waveportal-tui/config"
	"waveportal-tui/helpers"
	"waveportal-tui/styles"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Form modes
const (
	ModeList   = "list"
	ModeAdd    = "add"
	ModeEdit   = "edit"
	ModeDelete = "delete"
)

// Temp values bound to the add/edit form
var (
	TempName string
	TempURL  string
)

// CreateForm builds the add or edit form, prefilled from current
func CreateForm(title string, current config.RPCUrl) *huh.Form {
	TempName = current.Name
	TempURL = current.URL

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Sepolia (Alchemy)").
				Value(&TempName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("RPC URL").
				Placeholder("https://… or /path/to/geth.ipc").
				Value(&TempURL).
				Validate(func(s string) error {
					if !helpers.IsValidRPCURL(s) {
						return errors.New("enter an http(s), ws(s) or .ipc endpoint")
					}
					return nil
				}),
		).Title(title),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Nav returns the navigation bar for settings view
func Nav(width int, mode string) string {
	var left string
	switch mode {
	case ModeAdd, ModeEdit:
		left = strings.Join([]string{
			styles.Key("l") + " logger",
			styles.Key("Esc") + " cancel",
		}, "   ")
	case ModeDelete:
		left = strings.Join([]string{
			styles.Key("y") + " delete",
			styles.Key("n") + " keep",
		}, "   ")
	default:
		left = strings.Join([]string{
			styles.Key("↑/↓") + " select",
			styles.Key("Enter") + " activate",
			styles.Key("a") + " add",
			styles.Key("e") + " edit",
			styles.Key("d") + " delete",
			styles.Key("l") + " logger",
			styles.Key("Esc") + " back",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the RPC endpoint list and the contract and wallet settings
func Render(cfg config.Config, selectedIdx int, form *huh.Form, mode string) string {
	if (mode == ModeAdd || mode == ModeEdit) && form != nil {
		return form.View()
	}

	lines := []string{styles.TitleStyle.Render("RPC Settings"), ""}

	if len(cfg.RPCURLs) == 0 {
		lines = append(lines,
			styles.MutedStyle.Render("No RPC URLs configured."),
			"",
			styles.MutedStyle.Render("Press ")+styles.Key("a")+styles.MutedStyle.Render(" to add your first RPC URL."),
		)
	} else {
		lines = append(lines, styles.MutedStyle.Render("Configured RPC Endpoints:"), "")
		for i, rpc := range cfg.RPCURLs {
			marker := styles.MutedStyle.Render("○ ")
			if rpc.Active {
				marker = lipgloss.NewStyle().Foreground(styles.CAccent).Render("● ")
			}

			nameStyle := lipgloss.NewStyle().Foreground(styles.CText)
			urlStyle := styles.MutedStyle
			if i == selectedIdx {
				nameStyle = nameStyle.Background(styles.CPanel).Foreground(styles.CAccent2).Bold(true)
				urlStyle = urlStyle.Background(styles.CPanel)
				marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Render("▶ ")
			}

			lines = append(lines, marker+nameStyle.Render(rpc.Name), "  "+urlStyle.Render(rpc.URL), "")
		}
	}

	lines = append(lines, styles.TitleStyle.Render("Portal"), "")
	lines = append(lines, field("contract", orUnset(cfg.Contract.Address)))
	variant := cfg.Contract.Variant
	if cfg.Contract.ABIPath != "" {
		variant = cfg.Contract.ABIPath
	}
	lines = append(lines,
		field("abi", orUnset(variant)),
		field("timestamps", orUnset(cfg.Contract.TimestampUnit)),
		field("wallet", orUnset(cfg.Wallet.Kind)),
	)
	switch cfg.Wallet.Kind {
	case config.WalletKeystore:
		lines = append(lines, field("keystore", cfg.Wallet.KeystoreDir))
	case config.WalletClef:
		lines = append(lines, field("clef", cfg.Wallet.ClefEndpoint))
	}
	if len(cfg.Wallet.AuthorizedAccounts) > 0 {
		lines = append(lines, field("authorized", strings.Join(shorten(cfg.Wallet.AuthorizedAccounts), ", ")))
	}

	return strings.Join(lines, "\n")
}

// RenderDeleteConfirm renders the centered delete dialog
func RenderDeleteConfirm(rpc config.RPCUrl, width, height int) string {
	dialog := styles.AlertStyle.Render(
		lipgloss.NewStyle().Foreground(styles.CWarn).Bold(true).Render("Delete RPC endpoint?") + "\n\n" +
			rpc.Name + "\n" + styles.MutedStyle.Render(rpc.URL) + "\n\n" +
			styles.Key("y") + " yes   " + styles.Key("n") + " no",
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
}

func field(name, value string) string {
	return styles.MutedStyle.Render(name+": ") + lipgloss.NewStyle().Foreground(styles.CText).Render(value)
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func shorten(addrs []string) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = helpers.ShortenAddr(a)
	}
	return out
}

