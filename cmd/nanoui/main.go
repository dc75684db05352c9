package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/h0rv/nanoui/internal/config"
	"github.com/h0rv/nanoui/internal/device"
	"github.com/h0rv/nanoui/internal/logging"
	"github.com/h0rv/nanoui/internal/tui"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// CLI flags
	configFlag      string
	requestsFlag    string
	logLevelFlag    string
	logFileFlag     string
	failSigningFlag bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "nanoui",
		Short:   "Terminal simulator for the signing device UI",
		Version: version,
		Long: `nanoui runs the signing device's screen flows in the terminal.

The arrow keys and enter/esc stand in for the device buttons. Pending
signing requests come from a YAML fixture (--requests) or a built-in demo
set; the device seed comes from NANOUI_SEED, the configured seed file, or a
fixed demo seed.

Configuration:
  $NANOUI_CONFIG or ~/.config/nanoui/config.toml, overridden by NANOUI_*
  environment variables (e.g. NANOUI_BRIDGE_DELAY=3s).`,
		RunE: run,
	}

	// Define CLI flags
	rootCmd.Flags().StringVar(&configFlag, "config", "", "Config file (TOML). Defaults to $NANOUI_CONFIG or ~/.config/nanoui/config.toml.")
	rootCmd.Flags().StringVar(&requestsFlag, "requests", "", "YAML fixture with pending signing requests.")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error.")
	rootCmd.Flags().StringVar(&logFileFlag, "log-file", "", "Append JSON logs to this file. Logs are discarded otherwise.")
	rootCmd.Flags().BoolVar(&failSigningFlag, "fail-signing", false, "Make every signing operation fail.")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// stdout belongs to the TUI, so logs only go to a file
	logger, err := logging.New(cfg.Log.Path, nil)
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.SetRawLevel(cfg.Log.Level)

	dev, err := device.New(cfg, device.Options{Version: version, Logger: logger.Logger})
	if err != nil {
		return err
	}
	defer dev.Close()

	app := tui.NewAppModel(dev.Dispatcher, dev.Target, dev.Trace, tui.Options{
		TickInterval: cfg.Device.TickInterval,
		Width:        cfg.Device.Width,
	})

	// Run Bubble Tea program
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}

	stats := dev.Bridge.Stats()
	logger.Info("simulator stopped",
		"transitions", dev.Dispatcher.Transitions(),
		"signed", len(dev.Store.Signed()),
		"operations", stats.Started,
		"stale", stats.Stale,
	)
	return nil
}

// applyFlags overrides configuration with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("requests") {
		cfg.Requests.File = requestsFlag
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevelFlag
	}
	if flags.Changed("log-file") {
		cfg.Log.Path = logFileFlag
	}
	if flags.Changed("fail-signing") {
		cfg.Bridge.FailSigning = failSigningFlag
	}
}
