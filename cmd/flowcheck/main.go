// Command flowcheck replays a scripted event sequence against the flow
// dispatcher without a terminal UI and prints the active flow after every
// step. Operations complete instantly and deterministically: each tick
// waits for running work before draining it.
//
//	flowcheck "confirm,confirm,tick,tick*20"
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/h0rv/nanoui/internal/bridge"
	"github.com/h0rv/nanoui/internal/config"
	"github.com/h0rv/nanoui/internal/device"
	"github.com/h0rv/nanoui/internal/flow"
	"github.com/h0rv/nanoui/internal/input"
	"github.com/h0rv/nanoui/internal/logging"
)

var (
	configFlag      string
	requestsFlag    string
	failSigningFlag bool
	verboseFlag     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flowcheck SCRIPT",
		Short: "Replay device input against the flow dispatcher",
		Long: `flowcheck boots the device, replays SCRIPT and prints one line per step.

SCRIPT is a comma separated list of up, down, confirm, cancel, tick and
reset; any step may be repeated with *N (e.g. tick*20). The command fails
if the dispatcher is halted when the script ends.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}

	rootCmd.Flags().StringVar(&configFlag, "config", "", "Config file (TOML).")
	rootCmd.Flags().StringVar(&requestsFlag, "requests", "", "YAML fixture with pending signing requests.")
	rootCmd.Flags().BoolVar(&failSigningFlag, "fail-signing", false, "Make every signing operation fail.")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Write debug logs to stderr.")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	steps, err := input.Parse(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	cfg.Bridge.Delay = 0
	if cmd.Flags().Changed("requests") {
		cfg.Requests.File = requestsFlag
	}
	if cmd.Flags().Changed("fail-signing") {
		cfg.Bridge.FailSigning = failSigningFlag
	}

	var logOut io.Writer
	if verboseFlag {
		logOut = os.Stderr
	}
	logger, err := logging.New("", logOut)
	if err != nil {
		return err
	}
	logger.SetRawLevel("debug")

	dev, err := device.New(cfg, device.Options{Version: "flowcheck", Logger: logger.Logger})
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := dev.Dispatcher.Init(); err != nil {
		return err
	}

	out := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(out, "STEP\tINPUT\tFLOW\tSTATUS")
	fmt.Fprintf(out, "0\tinit\t%s\t%s\n", currentName(dev.Dispatcher), status(dev, nil))

	driver := settledDriver{Dispatcher: dev.Dispatcher, bridge: dev.Bridge}
	replayErr := input.Replay(driver, steps, func(i int, s input.Step, err error) {
		fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", i+1, s, currentName(dev.Dispatcher), status(dev, err))
	})
	if err := out.Flush(); err != nil {
		return err
	}

	stats := dev.Bridge.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d transitions, %d signed, %d operations (%d cancelled, %d stale)\n",
		dev.Trace.Total(), len(dev.Store.Signed()), stats.Started, stats.Cancelled, stats.Stale)
	if replayErr != nil {
		logger.Warn("replay step failed", "error", replayErr)
		fmt.Fprintf(cmd.OutOrStdout(), "first error: %v\n", replayErr)
	}

	if err := dev.Dispatcher.Halted(); err != nil {
		return fmt.Errorf("dispatcher halted: %w", err)
	}
	return nil
}

// settledDriver waits for running operations before each tick so every
// replay of a script sees the same completions.
type settledDriver struct {
	*flow.Dispatcher
	bridge *bridge.Async
}

func (d settledDriver) TimerTick() error {
	d.bridge.Settle()
	return d.Dispatcher.TimerTick()
}

func currentName(d *flow.Dispatcher) string {
	id, ok := d.Current()
	if !ok {
		return "-"
	}
	return id.String()
}

func status(dev *device.Device, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	if s, ok := dev.Target.Screen(); ok && s.Status != "" {
		return s.Status
	}
	return ""
}
