package main

import (
	"fmt"

	"waveportal-tui/config"
	"waveportal-tui/wallet"

	"github.com/spf13/cobra"
)

var accountsRequest bool

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the wallet accounts the portal may use",
	Long: `List the accounts the configured wallet has already authorized.

With --request the wallet is asked for access, and a granted keystore account
is remembered for silent discovery.

Example:
  waveportal accounts
  waveportal accounts --request`,
	RunE: runAccounts,
}

func init() {
	accountsCmd.Flags().BoolVar(&accountsRequest, "request", false, "ask the wallet for access")
}

func runAccounts(cmd *cobra.Command, args []string) error {
	cfg, env, err := loadConfig()
	if err != nil {
		return err
	}

	provider, err := wallet.FromConfig(cfg.Wallet, env.Passphrase, terminalPrompt)
	if err != nil {
		return err
	}
	accessor := wallet.NewAccessor(provider)

	list := accessor.ListAuthorized
	if accountsRequest {
		list = accessor.RequestAccess
	}
	accounts, err := list(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(accounts) == 0 {
		fmt.Fprintln(out, "no authorized accounts, run with --request to connect one")
		return nil
	}

	changed := false
	for _, a := range accounts {
		fmt.Fprintln(out, a.Hex())
		if accountsRequest && cfg.Wallet.Kind == config.WalletKeystore && cfg.Authorize(a) {
			changed = true
		}
	}
	if changed {
		return config.Save(configPath(), cfg)
	}
	return nil
}
