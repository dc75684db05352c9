// Package device assembles a simulated signing device from configuration:
// seed and keyring, request queue, operation bridge, render target and the
// flow dispatcher that ties them together.
package device

import (
	"fmt"
	"log/slog"

	"github.com/h0rv/nanoui/internal/bridge"
	"github.com/h0rv/nanoui/internal/config"
	"github.com/h0rv/nanoui/internal/domain"
	"github.com/h0rv/nanoui/internal/flow"
	"github.com/h0rv/nanoui/internal/keys"
	"github.com/h0rv/nanoui/internal/logging"
	"github.com/h0rv/nanoui/internal/requests"
	"github.com/h0rv/nanoui/internal/seed"
	"github.com/h0rv/nanoui/internal/store"
	"github.com/h0rv/nanoui/internal/tui"
)

// traceSize is how many transitions the device trace keeps.
const traceSize = 32

// Options are the inputs that do not come from configuration.
type Options struct {
	Version string
	Logger  *slog.Logger
	Seeds   []seed.Provider // Defaults to seed.Default(cfg.Seed.File)
}

// Device is an assembled simulator. Close it to stop background work.
type Device struct {
	Config     config.Config
	Store      *store.Store
	Keyring    *keys.Keyring
	Bridge     *bridge.Async
	Target     *tui.Target
	Trace      *tui.Trace
	Dispatcher *flow.Dispatcher
	SeedSource string // Name of the seed provider that supplied the seed
}

// New builds a device. The dispatcher is not initialized yet.
func New(cfg config.Config, opts Options) (*Device, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Discard().Logger
	}

	providers := opts.Seeds
	if providers == nil {
		providers = seed.Default(cfg.Seed.File)
	}
	raw, source, err := seed.Resolve(providers...)
	if err != nil {
		return nil, fmt.Errorf("resolve seed: %w", err)
	}
	keyring, err := keys.New(raw)
	if err != nil {
		return nil, fmt.Errorf("create keyring from %s: %w", source, err)
	}

	pending, err := loadRequests(cfg.Requests.File)
	if err != nil {
		return nil, err
	}
	s := store.New()
	if _, err := requests.Enqueue(s, pending); err != nil {
		return nil, fmt.Errorf("queue requests: %w", err)
	}

	b := bridge.NewAsync(keyring, keyring, bridge.Options{
		Delay:       cfg.Bridge.Delay,
		FailSigning: cfg.Bridge.FailSigning,
		Logger:      log.With("component", "bridge"),
	})

	target := tui.NewTarget()
	trace := tui.NewTrace(traceSize)
	d := flow.NewDispatcher(flow.Deps{
		Bridge:   b,
		Renderer: target,
		Store:    s,
		Settings: flow.Settings{
			SuccessTimeoutTicks: cfg.Flow.SuccessTimeoutTicks,
			AddressCount:        cfg.Flow.AddressCount,
			Version:             opts.Version,
		},
		Logger: log.With("component", "flow"),
	}, flow.WithObserver(trace.Observe))

	log.Info("device assembled",
		"seed", source,
		"pending", s.Pending(),
		"bridge_delay", cfg.Bridge.Delay,
		"fail_signing", cfg.Bridge.FailSigning,
	)

	return &Device{
		Config:     cfg,
		Store:      s,
		Keyring:    keyring,
		Bridge:     b,
		Target:     target,
		Trace:      trace,
		Dispatcher: d,
		SeedSource: source,
	}, nil
}

// Close cancels outstanding operations and waits for their workers.
func (d *Device) Close() {
	d.Bridge.Close()
}

func loadRequests(path string) ([]domain.Transaction, error) {
	if path == "" {
		return requests.Demo(), nil
	}
	txs, err := requests.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load requests: %w", err)
	}
	return txs, nil
}
