package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"waveportal-tui/config"
	"waveportal-tui/rpc"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "dev"

	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "waveportal",
	Short: "Wave at a WavePortal contract from your terminal",
	Long: `waveportal connects a local wallet (a geth keystore or Clef) to a
WavePortal contract. Without a subcommand it opens the interactive portal.

Configuration lives in ~/.waveportal-config.json and can be overridden with
WAVEPORTAL_* environment variables.`,
	Version:      Version,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ~/.waveportal-config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(wavesCmd)
	rootCmd.AddCommand(waveCmd)
	rootCmd.AddCommand(accountsCmd)
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

// loadConfig loads the config file and applies environment overrides
func loadConfig() (config.Config, config.Env, error) {
	cfg := config.LoadOrCreate(configPath())
	env, err := config.LoadEnv()
	if err != nil {
		return cfg, env, fmt.Errorf("read environment: %w", err)
	}
	env.Apply(&cfg)
	return cfg, env, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, env, err := loadConfig()
	if err != nil {
		return err
	}
	m := newModel(cfg, configPath(), env.Passphrase)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run portal: %w", err)
	}
	return nil
}

// -------------------- HEADLESS HELPERS --------------------

// newCLILogger logs to w for the non-interactive commands
func newCLILogger(w io.Writer) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
	})
}

// dialChain connects to the active endpoint
func dialChain(cfg config.Config) (*rpc.Client, error) {
	active, ok := cfg.ActiveRPC()
	if !ok {
		return nil, fmt.Errorf("no active RPC endpoint: set WAVEPORTAL_RPC_URL or add one in the portal settings")
	}
	res := rpc.Connect(active.URL)
	if res.Error != nil {
		return nil, res.Error
	}
	return res.Client, nil
}

// terminalPrompt asks for a keystore passphrase on the terminal
func terminalPrompt(ctx context.Context, account common.Address) (string, error) {
	var pass string
	err := huh.NewInput().
		Title("Unlock " + account.Hex()).
		EchoMode(huh.EchoModePassword).
		Value(&pass).
		Run()
	return pass, err
}

// withTimeout bounds ctx by d, or only makes it cancellable when d is zero
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
