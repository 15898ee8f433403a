package main

import (
	"errors"
	"fmt"
	"time"

	"waveportal-tui/notify"
	"waveportal-tui/portal"
	"waveportal-tui/wallet"
	"waveportal-tui/wave"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	waveMessage string
	waveTimeout time.Duration
)

var waveCmd = &cobra.Command{
	Use:   "wave",
	Short: "Send a wave and wait for it to be mined",
	Long: `Send a wave signed by the configured wallet.

The keystore passphrase is read from WAVEPORTAL_KEYSTORE_PASSPHRASE or asked
for on the terminal.

Example:
  waveportal wave --message "gm"
  waveportal wave -m "hello" --timeout 2m`,
	RunE: runWave,
}

func init() {
	waveCmd.Flags().StringVarP(&waveMessage, "message", "m", "", "message to send with the wave")
	waveCmd.Flags().DurationVar(&waveTimeout, "timeout", 0, "give up after this long (0 waits forever)")
}

func runWave(cmd *cobra.Command, args []string) error {
	cfg, env, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newCLILogger(cmd.ErrOrStderr())

	provider, err := wallet.FromConfig(cfg.Wallet, env.Passphrase, terminalPrompt)
	if err != nil {
		logger.Warn("No wallet available", "kind", cfg.Wallet.Kind, "err", err)
		provider = nil
	}

	client, err := dialChain(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	parsed, err := portal.ABIFor(cfg.Contract)
	if err != nil {
		return err
	}

	accessor := wallet.NewAccessor(provider)
	binder := wave.HandleBinder(accessor, client, client.Chain, common.HexToAddress(cfg.Contract.Address), parsed,
		portal.Options{TimestampUnit: cfg.Contract.TimestampUnit})
	flow := wave.NewFlow(nil, accessor, binder, notify.LogSink{Logger: logger}, logger)

	ctx, cancel := withTimeout(cmd.Context(), waveTimeout)
	defer cancel()

	if err := flow.Discover(ctx); err != nil && !flow.State().Connected() {
		if !errors.Is(err, wave.ErrNoAuthorizedAccount) {
			return err
		}
		if err := flow.Connect(ctx); err != nil {
			return err
		}
	}

	flow.SetMessage(waveMessage)
	if err := flow.SubmitWave(ctx); err != nil {
		return err
	}

	st := flow.State()
	fmt.Fprintf(cmd.OutOrStdout(), "wave mined in %s, %d waves in total\n", st.LastTx.Hex(), st.TotalWaves)
	return nil
}
