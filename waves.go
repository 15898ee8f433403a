package main

import (
	"fmt"
	"time"

	"waveportal-tui/helpers"
	"waveportal-tui/portal"
	"waveportal-tui/wave"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	wavesLimit   int
	wavesTimeout time.Duration
)

var wavesCmd = &cobra.Command{
	Use:   "waves",
	Short: "Print the wave count and the latest waves",
	Long: `Read the WavePortal contract without a wallet.

Example:
  waveportal waves
  waveportal waves --limit 5`,
	RunE: runWaves,
}

func init() {
	wavesCmd.Flags().IntVarP(&wavesLimit, "limit", "n", 20, "how many recent waves to print (0 for all)")
	wavesCmd.Flags().DurationVar(&wavesTimeout, "timeout", 30*time.Second, "give up after this long (0 waits forever)")
}

func runWaves(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
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
	h, err := portal.Bind(common.HexToAddress(cfg.Contract.Address), parsed, nil, client, portal.Options{TimestampUnit: cfg.Contract.TimestampUnit})
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(cmd.Context(), wavesTimeout)
	defer cancel()

	total, err := h.ReadTotalWaves(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s has been waved at %d times\n", h.Address().Hex(), total)

	if !h.HasHistory() {
		return nil
	}
	records, err := h.ReadAllWaves(ctx)
	if err != nil {
		return err
	}
	recent := wave.State{Waves: records}.RecentFirst()
	if wavesLimit > 0 && len(recent) > wavesLimit {
		recent = recent[:wavesLimit]
	}
	for _, w := range recent {
		fmt.Fprintf(out, "%s  %s  %s\n", helpers.FormatWaveTime(w.Timestamp), w.Waver.Hex(), w.Message)
	}
	return nil
}
