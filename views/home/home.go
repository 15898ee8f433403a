package home

import (
	"fmt"
	"strings"

	"waveportal-tui/helpers"
	"waveportal-tui/styles"
	"waveportal-tui/wave"

	"github.com/charmbracelet/huh"
)

// Menu targets
const (
	TargetPortal   = "portal"
	TargetDetails  = "details"
	TargetSettings = "settings"
	TargetShare    = "share"
	TargetQuit     = "quit"
)

// TempSelection stores the menu selection
var TempSelection string

// CreateForm creates the main menu form
func CreateForm() *huh.Form {
	TempSelection = ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(
					huh.NewOption("Wave Portal", TargetPortal),
					huh.NewOption("Account & Chain", TargetDetails),
					huh.NewOption("RPC Settings", TargetSettings),
					huh.NewOption("Share Portal", TargetShare),
					huh.NewOption("Quit", TargetQuit),
				).
				Title("Main Menu").
				Description("Select a view to navigate to").
				Value(&TempSelection),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Summary is the one-line portal status shown above the menu
func Summary(st wave.State) string {
	if !st.Connected() {
		return styles.MutedStyle.Render("wallet " + st.Phase.String())
	}
	count := "count unknown"
	if st.CountKnown {
		count = fmt.Sprintf("%d waves", st.TotalWaves)
	}
	return styles.MutedStyle.Render(helpers.ShortenAddr(st.Account.Hex()) + " · " + count)
}

// Render renders the menu under the portal summary
func Render(form *huh.Form, st wave.State) string {
	if form == nil {
		return "Loading menu..."
	}
	return Summary(st) + "\n\n" + form.View()
}

// Nav returns the navigation bar for the menu
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " go",
		styles.Key("l") + " logger",
		styles.Key("Esc") + " back",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}
