// Package module wires the sync pipeline and exposes its port
package module

import (
	gh "tally/internal/adapters/github"
	"tally/internal/adapters/ledger"
	"tally/internal/modkit"
	"tally/internal/modkit/httpkit"

	dom "tally/internal/services/sync/domain"
	"tally/internal/services/sync/service"
)

// Ports holds the ports exposed by the sync module
type Ports struct {
	Sync dom.SyncPort
}

// Module defines the sync module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the sync module with its ports
func New(deps modkit.Deps, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)

	if overrides.Concurrency != 0 {
		opts.Concurrency = overrides.Concurrency
	}
	if overrides.TokensCSV != "" {
		opts.TokensCSV = overrides.TokensCSV
	}
	if overrides.GatewayURL != "" {
		opts.GatewayURL = overrides.GatewayURL
	}
	if overrides.ContractAddress != "" {
		opts.ContractAddress = overrides.ContractAddress
	}

	fetcher := gh.NewClient(gh.Options{
		TokensCSV:  opts.TokensCSV,
		MaxRetries: opts.MaxRetries,
	})
	led := ledger.NewClient(ledger.Options{
		GatewayURL:      opts.GatewayURL,
		ContractAddress: opts.ContractAddress,
		AccountAddress:  opts.AccountAddress,
	})

	svc := service.New(deps, fetcher, led, service.Config{
		Concurrency: opts.Concurrency,
		TokensCSV:   opts.TokensCSV,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Sync: svc}
	return m
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "sync" }

// Prefix returns the module config prefix (none for worker-only service)
func (m *Module) Prefix() string { return "" }

// MountRoutes returns no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
